package customers

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Service handles customer business logic.
type Service struct {
	repo  RepositoryPort
	title cases.Caser
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, title: cases.Title(language.English)}
}

// List returns customers for a tenant.
func (s *Service) List(ctx context.Context, tenantID int64, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, tenantID, req)
}

// Get fetches one customer.
func (s *Service) Get(ctx context.Context, tenantID, id int64) (Customer, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// Create registers a new customer in the tenant.
func (s *Service) Create(ctx context.Context, tenantID int64, req CreateCustomerRequest) (Customer, error) {
	return s.repo.Create(ctx, Customer{
		TenantID: tenantID,
		Code:     strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:     s.normalizeName(req.Name),
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
	})
}

// Update applies a partial update to an existing customer.
func (s *Service) Update(ctx context.Context, tenantID, id int64, req UpdateCustomerRequest) (Customer, error) {
	current, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return Customer{}, err
	}
	if req.Name != nil {
		current.Name = s.normalizeName(*req.Name)
	}
	if req.Email != nil {
		current.Email = req.Email
	}
	if req.Phone != nil {
		current.Phone = req.Phone
	}
	if req.Notes != nil {
		current.Notes = req.Notes
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	return s.repo.Update(ctx, current)
}

// Deactivate soft-disables a customer. Rows are never deleted so folio
// history keeps its references.
func (s *Service) Deactivate(ctx context.Context, tenantID, id int64) (Customer, error) {
	inactive := false
	return s.Update(ctx, tenantID, id, UpdateCustomerRequest{IsActive: &inactive})
}

// normalizeName trims, collapses whitespace and title-cases guest names so
// front-desk entry variants collapse to one display form.
func (s *Service) normalizeName(name string) string {
	fields := strings.Fields(name)
	return s.title.String(strings.Join(fields, " "))
}
