package controller

import (
	"context"

	"github.com/talentbase/adminkit.go/pkg/confirm"
	"github.com/talentbase/adminkit.go/pkg/models"
)

// DeleteRequest is the pending outcome of a destructive delete. The caller
// walks the embedded confirmation flow with the user and then calls Resolve;
// nothing touches the network or the collection until the flow has reached a
// terminal step.
type DeleteRequest[E models.Entity] struct {
	Flow *confirm.Flow

	ctrl     *Controller[E]
	entity   E
	resolved bool
}

// RequestDelete begins removing an entity. For non-destructive entity types
// the delete happens immediately and the returned request is nil. For
// destructive ones no request is issued yet; the returned DeleteRequest
// carries the confirmation flow, freshly started at its first step.
func (c *Controller[E]) RequestDelete(ctx context.Context, e E) (*DeleteRequest[E], error) {
	if !c.cfg.Destructive {
		return nil, c.deleteNow(ctx, e.EntityID())
	}
	return &DeleteRequest[E]{
		Flow:   confirm.NewFlow(c.cfg.ConfirmCopy),
		ctrl:   c,
		entity: e,
	}, nil
}

// Resolve applies the flow's outcome: Confirmed issues the hard delete,
// Deactivated issues the soft status patch, Cancelled does nothing. A
// request resolves at most once; the flow is discarded afterwards.
func (d *DeleteRequest[E]) Resolve(ctx context.Context) error {
	outcome, finished := d.Flow.Outcome()
	if !finished || d.resolved {
		return ErrFlowUnresolved
	}
	d.resolved = true

	switch outcome {
	case confirm.Confirmed:
		return d.ctrl.deleteNow(ctx, d.entity.EntityID())
	case confirm.Deactivated:
		return d.ctrl.deactivate(ctx, d.entity.EntityID())
	default: // confirm.Cancelled
		return nil
	}
}

// deleteNow removes the entity remotely and, on success, locally.
func (c *Controller[E]) deleteNow(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed() {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	rctx, done := c.requestContext(ctx)
	defer done()
	err := c.cfg.Client.Delete(rctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed() {
		return ErrClosed
	}
	if err != nil {
		c.lastErr = err
		return err
	}
	c.removeLocked(id)
	c.lastErr = nil
	return nil
}

// deactivate flips the entity inactive via PATCH. The entity stays in the
// collection with the server's updated attributes.
func (c *Controller[E]) deactivate(ctx context.Context, id string) error {
	rctx, done := c.requestContext(ctx)
	defer done()
	updated, err := c.cfg.Client.Patch(rctx, id, map[string]any{"isActive": false})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed() {
		return ErrClosed
	}
	if err != nil {
		c.lastErr = err
		return err
	}
	c.upsertLocked(updated)
	c.lastErr = nil
	return nil
}
