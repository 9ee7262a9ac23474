package customers

type CreateCustomerRequest struct {
	Code  string  `json:"code" validate:"required,max=50"`
	Name  string  `json:"name" validate:"required,max=200"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes    *string `json:"notes,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ListCustomersRequest struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}

type customerResponse struct {
	ID       int64   `json:"id"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	IsActive bool    `json:"is_active"`
}

type listCustomersResponse struct {
	Customers []customerResponse `json:"customers"`
	Total     int                `json:"total"`
}

func toResponse(c Customer) customerResponse {
	return customerResponse{
		ID:       c.ID,
		Code:     c.Code,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Notes:    c.Notes,
		IsActive: c.IsActive,
	}
}
