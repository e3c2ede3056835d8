package controller_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talentbase/adminkit.go/pkg/confirm"
	"github.com/talentbase/adminkit.go/pkg/controller"
	"github.com/talentbase/adminkit.go/pkg/filter"
	"github.com/talentbase/adminkit.go/pkg/models"
)

// fakeClient lets each test script the remote side without HTTP.
type fakeClient struct {
	listFn   func(ctx context.Context, q url.Values) ([]models.Company, error)
	createFn func(ctx context.Context, payload any) (models.Company, error)
	updateFn func(ctx context.Context, id string, payload any) (models.Company, error)
	patchFn  func(ctx context.Context, id string, partial map[string]any) (models.Company, error)
	deleteFn func(ctx context.Context, id string) error
}

var errUnexpectedCall = errors.New("unexpected client call")

func (f *fakeClient) List(ctx context.Context, q url.Values) ([]models.Company, error) {
	if f.listFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listFn(ctx, q)
}

func (f *fakeClient) Create(ctx context.Context, payload any) (models.Company, error) {
	if f.createFn == nil {
		return models.Company{}, errUnexpectedCall
	}
	return f.createFn(ctx, payload)
}

func (f *fakeClient) Update(ctx context.Context, id string, payload any) (models.Company, error) {
	if f.updateFn == nil {
		return models.Company{}, errUnexpectedCall
	}
	return f.updateFn(ctx, id, payload)
}

func (f *fakeClient) Patch(ctx context.Context, id string, partial map[string]any) (models.Company, error) {
	if f.patchFn == nil {
		return models.Company{}, errUnexpectedCall
	}
	return f.patchFn(ctx, id, partial)
}

func (f *fakeClient) Delete(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return errUnexpectedCall
	}
	return f.deleteFn(ctx, id)
}

var companyStatus = &controller.StatusAccessor[models.Company]{
	Get: func(c models.Company) bool { return c.IsActive },
	Set: func(c models.Company, active bool) models.Company {
		c.IsActive = active
		return c
	},
}

func companyFilter() filter.Spec[models.Company] {
	return filter.Spec[models.Company]{
		Text: func(c models.Company) []string { return []string{c.Name, c.Email} },
	}
}

func newController(fc *fakeClient, destructive bool) *controller.Controller[models.Company] {
	return controller.New(controller.Config[models.Company]{
		Client:      fc,
		Filter:      companyFilter(),
		Status:      companyStatus,
		Destructive: destructive,
		ConfirmCopy: confirm.Copy{
			Warning: "Deleting a company cannot be undone.",
			Cascade: "All users, students and enrollments of this company will be removed.",
			Choice:  "You can deactivate the company instead and keep its data.",
		},
	})
}

func seed(t *testing.T, ctrl *controller.Controller[models.Company], fc *fakeClient, rows []models.Company) {
	t.Helper()
	fc.listFn = func(context.Context, url.Values) ([]models.Company, error) {
		return rows, nil
	}
	require.NoError(t, ctrl.Refresh(context.Background()))
}

func TestRefreshReplacesCollectionAndDedupes(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	defer ctrl.Close()

	seed(t, ctrl, fc, []models.Company{
		{ID: "1", Name: "Acme"},
		{ID: "2", Name: "Globex"},
		{ID: "1", Name: "Acme again"},
	})

	got := ctrl.Collection()
	require.Len(t, got, 2)
	require.Equal(t, "Acme", got[0].Name)
	require.NoError(t, ctrl.Err())
	require.False(t, ctrl.Loading())
}

func TestRefreshFailureKeepsStaleCollection(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	defer ctrl.Close()

	seed(t, ctrl, fc, []models.Company{{ID: "1", Name: "Acme"}})

	boom := errors.New("network unreachable")
	fc.listFn = func(context.Context, url.Values) ([]models.Company, error) {
		return nil, boom
	}
	err := ctrl.Refresh(context.Background())
	require.ErrorIs(t, err, boom)

	// Stale-but-visible beats a blanked view.
	require.Len(t, ctrl.Collection(), 1)
	require.ErrorIs(t, ctrl.Err(), boom)
	require.False(t, ctrl.Loading())

	// The operation is retryable in place.
	fc.listFn = func(context.Context, url.Values) ([]models.Company, error) {
		return []models.Company{{ID: "1", Name: "Acme"}, {ID: "2", Name: "Globex"}}, nil
	}
	require.NoError(t, ctrl.Refresh(context.Background()))
	require.Len(t, ctrl.Collection(), 2)
	require.NoError(t, ctrl.Err())
}

func TestRefreshGuardsConcurrentTriggers(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	defer ctrl.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	fc.listFn = func(context.Context, url.Values) ([]models.Company, error) {
		close(started)
		<-release
		return nil, nil
	}

	refreshed := make(chan error, 1)
	go func() { refreshed <- ctrl.Refresh(context.Background()) }()

	<-started
	require.True(t, ctrl.Loading())
	require.ErrorIs(t, ctrl.Refresh(context.Background()), controller.ErrRefreshInFlight)

	close(release)
	require.NoError(t, <-refreshed)
	require.False(t, ctrl.Loading())
}

func TestSubmitCreateSplicesServerVersion(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	defer ctrl.Close()
	seed(t, ctrl, fc, []models.Company{{ID: "1", Name: "Acme"}})

	fc.createFn = func(_ context.Context, payload any) (models.Company, error) {
		// The server normalizes attributes; its version must win.
		return models.Company{ID: "2", Name: "Globex", IsActive: true}, nil
	}

	ctrl.OpenCreate()
	created, err := ctrl.SubmitCreate(context.Background(), models.Company{Name: "  Globex  "})
	require.NoError(t, err)
	require.Equal(t, "2", created.ID)

	got := ctrl.Collection()
	require.Len(t, got, 2)
	require.Equal(t, models.Company{ID: "2", Name: "Globex", IsActive: true}, got[1])
	require.False(t, ctrl.FormOpen())
	require.NoError(t, ctrl.FormErr())

	// The id appears exactly once even if submitted again as an update.
	ids := map[string]int{}
	for _, e := range got {
		ids[e.ID]++
	}
	require.Equal(t, 1, ids["2"])
}

func TestSubmitCreateValidatesLocally(t *testing.T) {
	fc := &fakeClient{} // any client call would fail the test
	ctrl := newController(fc, false)
	defer ctrl.Close()

	ctrl.OpenCreate()
	_, err := ctrl.SubmitCreate(context.Background(), models.Company{Name: "", Email: "not-an-email"})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "Name")
	require.Contains(t, verr.Fields, "Email")
	require.True(t, ctrl.FormOpen())
	require.ErrorAs(t, ctrl.FormErr(), &verr)
}

func TestFailedUpdateLeavesCollectionUntouched(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	defer ctrl.Close()

	rows := []models.Company{
		{ID: "1", Name: "Acme", Email: "ops@acme.test"},
		{ID: "2", Name: "Globex", Email: "ops@globex.test"},
	}
	seed(t, ctrl, fc, rows)
	before := ctrl.Collection()

	serverErr := errors.New("server error (status 500): the server could not process the request")
	fc.updateFn = func(context.Context, string, any) (models.Company, error) {
		return models.Company{}, serverErr
	}

	ctrl.OpenEdit(rows[0])
	_, err := ctrl.SubmitUpdate(context.Background(), "1", models.Company{Name: "Acme Corp", Email: "ops@acme.test"})
	require.ErrorIs(t, err, serverErr)

	require.Equal(t, before, ctrl.Collection())
	require.True(t, ctrl.FormOpen())
	require.ErrorIs(t, ctrl.FormErr(), serverErr)

	editing, ok := ctrl.Editing()
	require.True(t, ok)
	require.Equal(t, rows[0], editing)
}

func TestNonDestructiveDeleteRemovesLocally(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	defer ctrl.Close()
	seed(t, ctrl, fc, []models.Company{{ID: "1"}, {ID: "2"}})

	var deleted []string
	fc.deleteFn = func(_ context.Context, id string) error {
		deleted = append(deleted, id)
		return nil
	}

	req, err := ctrl.RequestDelete(context.Background(), models.Company{ID: "1"})
	require.NoError(t, err)
	require.Nil(t, req)
	require.Equal(t, []string{"1"}, deleted)
	require.Len(t, ctrl.Collection(), 1)
	require.Equal(t, "2", ctrl.Collection()[0].ID)
}

func TestDestructiveDeleteCancelledAtFirstStep(t *testing.T) {
	fc := &fakeClient{} // neither delete nor patch may be called
	ctrl := newController(fc, true)
	defer ctrl.Close()
	seed(t, ctrl, fc, []models.Company{{ID: "1", Name: "Acme"}})
	before := ctrl.Collection()

	req, err := ctrl.RequestDelete(context.Background(), before[0])
	require.NoError(t, err)
	require.NotNil(t, req)
	require.Equal(t, confirm.StepWarning, req.Flow.Step())

	require.NoError(t, req.Flow.Cancel())
	require.NoError(t, req.Resolve(context.Background()))
	require.Equal(t, before, ctrl.Collection())
}

func TestDestructiveDeleteDeactivateInstead(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, true)
	defer ctrl.Close()
	seed(t, ctrl, fc, []models.Company{{ID: "1", Name: "Acme", IsActive: true}})

	var patched map[string]any
	fc.patchFn = func(_ context.Context, id string, partial map[string]any) (models.Company, error) {
		patched = partial
		return models.Company{ID: id, Name: "Acme", IsActive: false}, nil
	}

	req, err := ctrl.RequestDelete(context.Background(), ctrl.Collection()[0])
	require.NoError(t, err)

	// No step is skippable: warning, cascade, then the choice.
	require.NoError(t, req.Flow.Continue())
	require.Equal(t, confirm.StepCascade, req.Flow.Step())
	require.NoError(t, req.Flow.Continue())
	require.Equal(t, confirm.StepChoice, req.Flow.Step())
	require.NoError(t, req.Flow.Deactivate())

	require.NoError(t, req.Resolve(context.Background()))
	require.Equal(t, map[string]any{"isActive": false}, patched)

	got := ctrl.Collection()
	require.Len(t, got, 1) // still present, not removed
	require.False(t, got[0].IsActive)
}

func TestDestructiveDeleteConfirmed(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, true)
	defer ctrl.Close()
	seed(t, ctrl, fc, []models.Company{{ID: "1"}, {ID: "2"}})

	fc.deleteFn = func(context.Context, string) error { return nil }

	req, err := ctrl.RequestDelete(context.Background(), models.Company{ID: "2"})
	require.NoError(t, err)
	require.NoError(t, req.Flow.Continue())
	require.NoError(t, req.Flow.Continue())
	require.NoError(t, req.Flow.ConfirmDelete())
	require.NoError(t, req.Resolve(context.Background()))

	require.Len(t, ctrl.Collection(), 1)

	// A finished request is discarded, not reused.
	require.ErrorIs(t, req.Resolve(context.Background()), controller.ErrFlowUnresolved)
}

func TestResolveBeforeTerminalStepFails(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, true)
	defer ctrl.Close()
	seed(t, ctrl, fc, []models.Company{{ID: "1"}})

	req, err := ctrl.RequestDelete(context.Background(), models.Company{ID: "1"})
	require.NoError(t, err)
	require.ErrorIs(t, req.Resolve(context.Background()), controller.ErrFlowUnresolved)
}

func TestToggleStatusOptimisticRollback(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	defer ctrl.Close()
	seed(t, ctrl, fc, []models.Company{{ID: "1", Name: "Acme", IsActive: true}})

	boom := errors.New("patch rejected")
	fc.patchFn = func(context.Context, string, map[string]any) (models.Company, error) {
		return models.Company{}, boom
	}

	err := ctrl.ToggleStatus(context.Background(), "1")
	require.ErrorIs(t, err, boom)
	require.True(t, ctrl.Collection()[0].IsActive, "failed toggle must roll back")

	fc.patchFn = func(_ context.Context, id string, partial map[string]any) (models.Company, error) {
		require.Equal(t, map[string]any{"isActive": false}, partial)
		return models.Company{ID: id, Name: "Acme", IsActive: false}, nil
	}
	require.NoError(t, ctrl.ToggleStatus(context.Background(), "1"))
	require.False(t, ctrl.Collection()[0].IsActive)
}

func TestViewFiltersWithoutMutating(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	defer ctrl.Close()
	seed(t, ctrl, fc, []models.Company{
		{ID: "1", Name: "Ana"},
		{ID: "2", Name: "Bruno"},
	})

	ctrl.SetSearch("bru")
	view := ctrl.View()
	require.Len(t, view, 1)
	require.Equal(t, "Bruno", view[0].Name)
	require.Len(t, ctrl.Collection(), 2)

	ctrl.SetSearch("")
	require.Len(t, ctrl.View(), 2)
}

func TestDependentFilterResets(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	defer ctrl.Close()

	ctrl.DependsOn("module", "course")
	ctrl.Select("course", "c1")
	ctrl.Select("module", "m1")
	require.Equal(t, "m1", ctrl.Selected("module"))

	ctrl.Select("course", "c2")
	require.Equal(t, "c2", ctrl.Selected("course"))
	require.Empty(t, ctrl.Selected("module"))
}

func TestClosedControllerRefusesOperations(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)
	ctrl.Close()

	require.ErrorIs(t, ctrl.Refresh(context.Background()), controller.ErrClosed)
	_, err := ctrl.SubmitCreate(context.Background(), models.Company{Name: "Acme"})
	require.ErrorIs(t, err, controller.ErrClosed)
}

func TestCloseCancelsInFlightRequest(t *testing.T) {
	fc := &fakeClient{}
	ctrl := newController(fc, false)

	fc.listFn = func(ctx context.Context, _ url.Values) ([]models.Company, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return []models.Company{{ID: "stale"}}, nil
		}
	}

	refreshed := make(chan error, 1)
	go func() { refreshed <- ctrl.Refresh(context.Background()) }()

	// Give the refresh a moment to enter the list call, then tear down.
	time.Sleep(20 * time.Millisecond)
	ctrl.Close()

	require.ErrorIs(t, <-refreshed, controller.ErrClosed)
	require.Empty(t, ctrl.Collection(), "a stale response must not apply after close")
}
