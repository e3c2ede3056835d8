package fakeadmin_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talentbase/adminkit.go/internal/fakeadmin"
)

func TestSeededDuplicatesAreServedVerbatim(t *testing.T) {
	srv := fakeadmin.New()
	defer srv.Close()

	srv.Seed("superadmin/companies",
		fakeadmin.Row{"id": "1", "name": "Ana"},
		fakeadmin.Row{"id": "2", "name": "Bruno"},
		fakeadmin.Row{"id": "1", "name": "Ana-dup"},
	)

	resp, err := http.Get(srv.URL() + "/api/superadmin/companies")
	require.NoError(t, err)
	defer resp.Body.Close()

	var rows []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	// The fake must not dedupe; that is the client's job.
	require.Len(t, rows, 3)
}

func TestInjectedDelaySlowsResponse(t *testing.T) {
	srv := fakeadmin.New()
	defer srv.Close()
	srv.Inject(http.MethodGet, "superadmin/users", fakeadmin.Failure{
		Type:  fakeadmin.FailureDelay,
		Delay: 100 * time.Millisecond,
	})

	start := time.Now()
	resp, err := http.Get(srv.URL() + "/api/superadmin/users")
	require.NoError(t, err)
	resp.Body.Close()
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClearFailuresDisarms(t *testing.T) {
	srv := fakeadmin.New()
	defer srv.Close()
	srv.Inject(http.MethodGet, "superadmin/users", fakeadmin.Failure{
		Type:   fakeadmin.FailureStatus,
		Status: http.StatusServiceUnavailable,
	})

	resp, err := http.Get(srv.URL() + "/api/superadmin/users")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	srv.ClearFailures()
	resp, err = http.Get(srv.URL() + "/api/superadmin/users")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownIDReturns404(t *testing.T) {
	srv := fakeadmin.New()
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL()+"/api/superadmin/companies/nope", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRowsReturnsCopies(t *testing.T) {
	srv := fakeadmin.New()
	defer srv.Close()
	srv.Seed("superadmin/plans", fakeadmin.Row{"id": "p1", "name": "Starter"})

	rows := srv.Rows("superadmin/plans")
	rows[0]["name"] = "mutated"

	require.Equal(t, "Starter", srv.Rows("superadmin/plans")[0]["name"])
}
