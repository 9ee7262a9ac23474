package acl

import (
	"context"
	"errors"
	"sort"

	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ResolutionObserver receives one event per resolution, labeled by outcome
// (resolved, empty, error).
type ResolutionObserver interface {
	ObserveResolution(outcome string)
}

// Engine computes effective permission sets. Every call re-reads membership
// and overrides; no caching, no internal retries. This keeps admin override
// changes read-after-write consistent and the engine deterministic.
type Engine struct {
	memberships MembershipResolver
	catalog     *Catalog
	overrides   OverrideStore
	logger      *slog.Logger
	observer    ResolutionObserver
}

// NewEngine constructs an Engine.
func NewEngine(memberships MembershipResolver, catalog *Catalog, overrides OverrideStore, logger *slog.Logger) *Engine {
	return &Engine{memberships: memberships, catalog: catalog, overrides: overrides, logger: logger}
}

// WithObserver attaches a resolution observer. Call during wiring, before
// the engine serves requests.
func (e *Engine) WithObserver(observer ResolutionObserver) *Engine {
	e.observer = observer
	return e
}

// Catalog exposes the engine's permission catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Resolve returns the effective permission set for (userID, tenantID),
// sorted, never nil. No membership yields an empty set: absence of
// membership grants nothing and never falls back to defaults.
//
// Membership and override reads have no data dependency and run
// concurrently; the catalog lookup needs the resolved role and happens
// after. Either the full set is produced or an error is returned, never a
// partial result.
func (e *Engine) Resolve(ctx context.Context, userID, tenantID int64) ([]string, error) {
	var (
		role   Role
		member bool
		doc    OverrideDocument
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		role, member, err = e.memberships.ResolveRole(gctx, userID, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		doc, err = e.overrides.GetOverrides(gctx, tenantID, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		e.observe("error")
		return nil, err
	}

	if !member {
		e.observe("empty")
		return []string{}, nil
	}

	working, err := e.catalog.DefaultsForRole(role)
	if err != nil {
		if errors.Is(err, ErrUnknownRole) && e.logger != nil {
			// Catalog and stored membership data have drifted; this must
			// reach observability, not be swallowed as a per-user failure.
			e.logger.Error("membership references unknown role",
				slog.String("role", string(role)),
				slog.Int64("user_id", userID),
				slog.Int64("tenant_id", tenantID))
		}
		e.observe("error")
		return nil, err
	}

	// Add before remove: a key in both sets nets out removed.
	for _, key := range doc.Add {
		working[key] = struct{}{}
	}
	for _, key := range doc.Remove {
		delete(working, key)
	}

	effective := make([]string, 0, len(working))
	for key := range working {
		effective = append(effective, key)
	}
	sort.Strings(effective)
	e.observe("resolved")
	return effective, nil
}

func (e *Engine) observe(outcome string) {
	if e.observer != nil {
		e.observer.ObserveResolution(outcome)
	}
}

// ApplyOverrides replaces the override document for (tenantID, userID) and
// returns the freshly recomputed effective set, so callers can reflect the
// change without a second round trip.
func (e *Engine) ApplyOverrides(ctx context.Context, tenantID, userID int64, doc OverrideDocument) ([]string, error) {
	if err := e.overrides.SetOverrides(ctx, tenantID, userID, doc); err != nil {
		return nil, err
	}
	return e.Resolve(ctx, userID, tenantID)
}

// Overrides returns the stored override document for (tenantID, userID).
func (e *Engine) Overrides(ctx context.Context, tenantID, userID int64) (OverrideDocument, error) {
	return e.overrides.GetOverrides(ctx, tenantID, userID)
}
