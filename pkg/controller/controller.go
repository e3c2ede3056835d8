// Package controller implements the list/filter/mutation state machine every
// admin screen shares. One Controller owns one collection: it fetches through
// the collection client, reconciles duplicates, derives the filtered view,
// and applies successful mutations locally so the screen never refetches just
// to show what it already knows.
//
// A Controller is the Go rendition of a single-operator screen: state is
// guarded by a mutex, in-flight work is bounded by the loading and submitting
// guards, and Close cancels the controller's lifetime so responses that
// arrive after teardown cannot apply.
package controller

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/talentbase/adminkit.go/pkg/confirm"
	"github.com/talentbase/adminkit.go/pkg/filter"
	"github.com/talentbase/adminkit.go/pkg/logger"
	"github.com/talentbase/adminkit.go/pkg/models"
)

var (
	// ErrRefreshInFlight rejects a refresh while one is already running.
	ErrRefreshInFlight = errors.New("a refresh is already in flight")
	// ErrSubmitInFlight rejects a double-submit.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrClosed is returned once the controller's lifetime has ended.
	ErrClosed = errors.New("controller is closed")
	// ErrNotFound is returned when an id is absent from the collection.
	ErrNotFound = errors.New("entity not present in collection")
	// ErrFlowUnresolved is returned when a delete request is resolved
	// before its confirmation flow reached a terminal step.
	ErrFlowUnresolved = errors.New("confirmation flow has not finished")
	// ErrNoStatusAccessor is returned by status operations on entity types
	// that were configured without one.
	ErrNoStatusAccessor = errors.New("no status accessor configured")
)

// CollectionClient is the remote collection contract the controller drives.
// *adminkit.Resource satisfies it; tests substitute fakes.
type CollectionClient[E models.Entity] interface {
	List(ctx context.Context, query url.Values) ([]E, error)
	Create(ctx context.Context, payload any) (E, error)
	Update(ctx context.Context, id string, payload any) (E, error)
	Patch(ctx context.Context, id string, partial map[string]any) (E, error)
	Delete(ctx context.Context, id string) error
}

// StatusAccessor teaches the controller how to read and flip the
// active/inactive attribute of an entity type. Set returns a modified copy;
// entities in the collection are never mutated in place.
type StatusAccessor[E models.Entity] struct {
	Get func(E) bool
	Set func(E, bool) E
}

// Config wires one controller.
type Config[E models.Entity] struct {
	// Client is the remote collection. Required.
	Client CollectionClient[E]
	// Filter declares how entities match the screen's filter inputs.
	Filter filter.Spec[E]
	// Status enables ToggleStatus and the deactivate outcome of the
	// confirmation flow. Optional.
	Status *StatusAccessor[E]
	// Destructive routes deletes through the staged confirmation flow.
	Destructive bool
	// ConfirmCopy is the dialog text used when Destructive is set.
	ConfirmCopy confirm.Copy
	// Query is the baseline query string sent with every list call.
	Query url.Values
	// Logger receives diagnostics. Defaults to a no-op.
	Logger logger.Logger
}

// Controller owns the collection and mutation state of one screen.
type Controller[E models.Entity] struct {
	cfg      Config[E]
	lifetime context.Context
	cancel   context.CancelFunc

	mu         sync.Mutex
	collection []E
	loading    bool
	submitting bool
	lastErr    error
	filters    *filter.State

	editing  *E
	formOpen bool
	formErr  error
}

// New creates a controller with an empty collection. Call Refresh to
// populate it and Close when the screen unmounts.
func New[E models.Entity](cfg Config[E]) *Controller[E] {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller[E]{
		cfg:      cfg,
		lifetime: ctx,
		cancel:   cancel,
		filters:  filter.NewState(),
	}
}

// Close ends the controller's lifetime. In-flight requests are cancelled and
// their continuations become no-ops.
func (c *Controller[E]) Close() {
	c.cancel()
}

// requestContext derives a context that ends with either the caller's
// context or the controller's lifetime, whichever comes first.
func (c *Controller[E]) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	rctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifetime, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

func (c *Controller[E]) closed() bool {
	return c.lifetime.Err() != nil
}

// Refresh replaces the collection with a fresh fetch. On failure the prior
// collection stays visible and only the error changes; stale data beats a
// blanked screen. A refresh that is already running is not doubled up.
func (c *Controller[E]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed() {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.loading {
		c.mu.Unlock()
		return ErrRefreshInFlight
	}
	c.loading = true
	c.mu.Unlock()

	rctx, done := c.requestContext(ctx)
	defer done()
	fetched, err := c.cfg.Client.List(rctx, c.cfg.Query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if c.closed() {
		return ErrClosed
	}
	if err != nil {
		c.lastErr = err
		c.cfg.Logger.Warn("refresh failed", "error", err.Error())
		return err
	}

	deduped, discarded := Reconcile(fetched)
	if discarded > 0 {
		c.cfg.Logger.Warn("discarded duplicate rows from fetch", "count", discarded)
	}
	c.collection = deduped
	c.lastErr = nil
	return nil
}

// Collection returns a copy of the canonical collection.
func (c *Controller[E]) Collection() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]E(nil), c.collection...)
}

// View returns the filtered subset of the collection in fetch order. It is a
// pure derivation; neither the collection nor the filter state is touched.
func (c *Controller[E]) View() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filter.Apply(c.collection, c.cfg.Filter, c.filters)
}

// Loading reports whether a refresh is in flight.
func (c *Controller[E]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the page-level error from the last failed operation, nil after
// a success.
func (c *Controller[E]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetSearch updates the free-text filter term.
func (c *Controller[E]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SetSearch(term)
}

// Select updates a categorical filter. Dependent child selectors reset.
func (c *Controller[E]) Select(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Select(key, value)
}

// Selected returns the current value of a categorical filter.
func (c *Controller[E]) Selected(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Selected(key)
}

// SetRange updates the numeric range filter.
func (c *Controller[E]) SetRange(min, max *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SetRange(min, max)
}

// DependsOn declares a parent/child relation between categorical filters,
// e.g. DependsOn("module", "course").
func (c *Controller[E]) DependsOn(child, parent string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.DependsOn(child, parent)
}

// OpenCreate opens the form for a new entity.
func (c *Controller[E]) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
	c.formOpen = true
	c.formErr = nil
}

// OpenEdit opens the form pre-filled with an existing entity.
func (c *Controller[E]) OpenEdit(e E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = &e
	c.formOpen = true
	c.formErr = nil
}

// CloseForm discards the form and any inline error.
func (c *Controller[E]) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
	c.formOpen = false
	c.formErr = nil
}

// FormOpen reports whether the create/edit form is showing.
func (c *Controller[E]) FormOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formOpen
}

// Editing returns the entity loaded into the form, if any.
func (c *Controller[E]) Editing() (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		var zero E
		return zero, false
	}
	return *c.editing, true
}

// FormErr returns the inline form error from the last failed submission.
func (c *Controller[E]) FormErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formErr
}

// SubmitCreate validates the payload locally, creates the entity remotely,
// and on success splices the server's version into the collection and closes
// the form. On any failure the form stays open with the error inline and the
// collection is untouched.
func (c *Controller[E]) SubmitCreate(ctx context.Context, payload any) (E, error) {
	var zero E
	if err := c.beginSubmit(payload); err != nil {
		return zero, err
	}

	rctx, done := c.requestContext(ctx)
	defer done()
	created, err := c.cfg.Client.Create(rctx, payload)
	return c.finishSubmit(created, err)
}

// SubmitUpdate is SubmitCreate for an existing entity; the server's version
// replaces the local one by id.
func (c *Controller[E]) SubmitUpdate(ctx context.Context, id string, payload any) (E, error) {
	var zero E
	if err := c.beginSubmit(payload); err != nil {
		return zero, err
	}

	rctx, done := c.requestContext(ctx)
	defer done()
	updated, err := c.cfg.Client.Update(rctx, id, payload)
	return c.finishSubmit(updated, err)
}

func (c *Controller[E]) beginSubmit(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed() {
		return ErrClosed
	}
	if c.submitting {
		return ErrSubmitInFlight
	}
	if err := models.Validate(payload); err != nil {
		c.formErr = err
		return err
	}
	c.submitting = true
	return nil
}

func (c *Controller[E]) finishSubmit(result E, err error) (E, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	var zero E
	if c.closed() {
		return zero, ErrClosed
	}
	if err != nil {
		c.formErr = err
		return zero, err
	}
	c.upsertLocked(result)
	c.editing = nil
	c.formOpen = false
	c.formErr = nil
	return result, nil
}

// upsertLocked splices an entity into the collection: replace by id when
// present, append otherwise. Identity uniqueness holds either way.
func (c *Controller[E]) upsertLocked(e E) {
	id := e.EntityID()
	for i := range c.collection {
		if c.collection[i].EntityID() == id {
			c.collection[i] = e
			return
		}
	}
	c.collection = append(c.collection, e)
}

func (c *Controller[E]) removeLocked(id string) {
	for i := range c.collection {
		if c.collection[i].EntityID() == id {
			c.collection = append(c.collection[:i], c.collection[i+1:]...)
			return
		}
	}
}

func (c *Controller[E]) findLocked(id string) (E, bool) {
	for i := range c.collection {
		if c.collection[i].EntityID() == id {
			return c.collection[i], true
		}
	}
	var zero E
	return zero, false
}

// ToggleStatus optimistically flips the entity's active flag, then issues
// the PATCH. On failure the flip is rolled back; on success the server's
// version of the entity replaces the optimistic one.
func (c *Controller[E]) ToggleStatus(ctx context.Context, id string) error {
	if c.cfg.Status == nil {
		return ErrNoStatusAccessor
	}

	c.mu.Lock()
	if c.closed() {
		c.mu.Unlock()
		return ErrClosed
	}
	current, ok := c.findLocked(id)
	if !ok {
		c.mu.Unlock()
		return ErrNotFound
	}
	wasActive := c.cfg.Status.Get(current)
	c.upsertLocked(c.cfg.Status.Set(current, !wasActive))
	c.mu.Unlock()

	rctx, done := c.requestContext(ctx)
	defer done()
	updated, err := c.cfg.Client.Patch(rctx, id, map[string]any{"isActive": !wasActive})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed() {
		return ErrClosed
	}
	if err != nil {
		// Roll back the optimistic flip, if the entity is still around.
		if e, ok := c.findLocked(id); ok {
			c.upsertLocked(c.cfg.Status.Set(e, wasActive))
		}
		c.lastErr = err
		return err
	}
	c.upsertLocked(updated)
	c.lastErr = nil
	return nil
}
