package adminkit

import (
	"context"
	"net/http"
	"net/url"

	"github.com/talentbase/adminkit.go/pkg/models"
)

// Resource is a typed handle for one entity collection under
// /api/{scope}/{entity}. It implements the collection contract the
// list controller consumes.
//
// Create and Update accept any JSON-marshalable payload rather than E itself:
// forms submit partial attribute maps or dedicated payload structs, and the
// server's normalized entity is what comes back.
type Resource[E models.Entity] struct {
	client *Client
	scope  Scope
	entity string
}

// NewResource binds a Client to one entity collection, e.g.
//
//	companies := adminkit.NewResource[models.Company](c, adminkit.ScopeSuperAdmin, "companies")
//	lessons := adminkit.NewResource[models.Lesson](c, adminkit.CompanyScope(id), "lessons")
func NewResource[E models.Entity](c *Client, scope Scope, entity string) *Resource[E] {
	return &Resource[E]{client: c, scope: scope, entity: entity}
}

// List fetches the collection. Query values are passed through as-is; the
// server may or may not narrow the result, the controller filters locally
// either way.
func (r *Resource[E]) List(ctx context.Context, query url.Values) ([]E, error) {
	resp, err := r.client.do(ctx, http.MethodGet, collectionPath(r.scope, r.entity, "", query), nil)
	if err != nil {
		return nil, err
	}
	var out []E
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single entity by id.
func (r *Resource[E]) Get(ctx context.Context, id string) (E, error) {
	var out E
	resp, err := r.client.do(ctx, http.MethodGet, collectionPath(r.scope, r.entity, id, nil), nil)
	if err != nil {
		return out, err
	}
	if err := decode(resp, &out); err != nil {
		var zero E
		return zero, err
	}
	return out, nil
}

// Create posts a new entity and returns the server's version of it.
func (r *Resource[E]) Create(ctx context.Context, payload any) (E, error) {
	var out E
	resp, err := r.client.do(ctx, http.MethodPost, collectionPath(r.scope, r.entity, "", nil), payload)
	if err != nil {
		return out, err
	}
	if err := decode(resp, &out); err != nil {
		var zero E
		return zero, err
	}
	return out, nil
}

// Update replaces an entity via PUT and returns the server's version.
func (r *Resource[E]) Update(ctx context.Context, id string, payload any) (E, error) {
	var out E
	resp, err := r.client.do(ctx, http.MethodPut, collectionPath(r.scope, r.entity, id, nil), payload)
	if err != nil {
		return out, err
	}
	if err := decode(resp, &out); err != nil {
		var zero E
		return zero, err
	}
	return out, nil
}

// Patch applies a partial update, used for status-only transitions such as
// deactivate, revoke and cancel.
func (r *Resource[E]) Patch(ctx context.Context, id string, partial map[string]any) (E, error) {
	var out E
	resp, err := r.client.do(ctx, http.MethodPatch, collectionPath(r.scope, r.entity, id, nil), partial)
	if err != nil {
		return out, err
	}
	if err := decode(resp, &out); err != nil {
		var zero E
		return zero, err
	}
	return out, nil
}

// Delete removes an entity. A success response has no body.
func (r *Resource[E]) Delete(ctx context.Context, id string) error {
	resp, err := r.client.do(ctx, http.MethodDelete, collectionPath(r.scope, r.entity, id, nil), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
