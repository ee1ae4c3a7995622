package client

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	"github.com/noah-isme/tapp-client/internal/store"
	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

type call struct {
	method string
	path   string
	body   any
}

// fakeTransport records every call and answers through a scripted handler.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []call
	handler func(method, path string, body any) (json.RawMessage, error)
}

func (f *fakeTransport) record(method, path string, body any) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{method: method, path: path, body: body})
	f.mu.Unlock()
	return f.handler(method, path, body)
}

func (f *fakeTransport) Get(_ context.Context, path string) (json.RawMessage, error) {
	return f.record("GET", path, nil)
}

func (f *fakeTransport) Post(_ context.Context, path string, body any) (json.RawMessage, error) {
	return f.record("POST", path, body)
}

func (f *fakeTransport) Delete(_ context.Context, path string) (json.RawMessage, error) {
	return f.record("DELETE", path, nil)
}

func (f *fakeTransport) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func newTestClient(t *testing.T, handler func(method, path string, body any) (json.RawMessage, error)) (*Client, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{handler: handler}
	d := dispatcher.New(zap.NewNop(), nil)
	c := New(ft, storeWithSession(), d, nil, zap.NewNop())
	return c, ft
}

func storeWithSession() *store.Store {
	s := store.New()
	s.Sessions.ReplaceAll([]models.Session{{ID: 1, Name: "2019 Fall"}})
	s.SetActiveSession(models.Session{ID: 1, Name: "2019 Fall"})
	return s
}

func TestFetchSessionScopedRequiresActiveSession(t *testing.T) {
	ft := &fakeTransport{handler: func(string, string, any) (json.RawMessage, error) {
		t.Fatal("transport must not be reached without an active session")
		return nil, nil
	}}
	c := New(ft, store.New(), dispatcher.New(zap.NewNop(), nil), nil, zap.NewNop())

	_, err := c.fetchApplicantsCore(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrMissingSession.Code))
	assert.Empty(t, ft.recorded())
}

func TestFetchDiscardedWhenSessionChangesInFlight(t *testing.T) {
	var c *Client
	c, _ = newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		// Simulate the user switching sessions while the request is on the
		// wire: by the time the response lands, session 2 is active.
		c.store.SetActiveSession(models.Session{ID: 2, Name: "2020 Winter"})
		return mustRaw(t, []models.Applicant{{ID: 2000, UTORid: "weasleyr"}}), nil
	})

	applicants, err := c.fetchApplicantsCore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, applicants)
	// The stale result never reaches the store.
	assert.Zero(t, c.store.Applicants.Len())
}

func TestFetchSessionScopedAppliesResult(t *testing.T) {
	c, ft := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		return mustRaw(t, []models.Applicant{{ID: 2000, UTORid: "weasleyr"}}), nil
	})

	applicants, err := c.fetchApplicantsCore(context.Background())
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	assert.Equal(t, 1, c.store.Applicants.Len())

	calls := ft.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "GET", calls[0].method)
	assert.Equal(t, "/admin/sessions/1/applicants", calls[0].path)
}

func TestUpsertAssignmentThreeStepProtocol(t *testing.T) {
	c, ft := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		switch {
		case method == "POST" && path == "/admin/sessions/1/assignments":
			return mustRaw(t, models.Assignment{ID: 100, ApplicantID: 2000, PositionID: 10, Hours: 0}), nil
		case method == "POST" && path == "/admin/assignments/100/wage_chunks":
			return mustRaw(t, []models.WageChunk{{ID: 1, AssignmentID: 100, Hours: 90, StartDate: "2019-09-08", EndDate: "2019-12-31"}}), nil
		case method == "GET" && path == "/admin/assignments/100":
			return mustRaw(t, models.Assignment{ID: 100, ApplicantID: 2000, PositionID: 10, Hours: 90}), nil
		}
		t.Fatalf("unexpected call %s %s", method, path)
		return nil, nil
	})

	hours := 90.0
	applicantID, positionID := 2000, 10
	got, err := c.upsertAssignmentCore(context.Background(), models.AssignmentUpsert{
		ApplicantID: &applicantID,
		PositionID:  &positionID,
		WageChunks:  []models.WageChunkUpsert{{Hours: &hours, StartDate: strp("2019-09-08"), EndDate: strp("2019-12-31")}},
	})
	require.NoError(t, err)
	// The returned record carries the hours derived from the new chunks,
	// not the stale value from the first round trip.
	assert.Equal(t, 90.0, got.Hours)

	calls := ft.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, "POST", calls[0].method)
	assert.Equal(t, "/admin/sessions/1/assignments", calls[0].path)
	assert.Equal(t, "POST", calls[1].method)
	assert.Equal(t, "/admin/assignments/100/wage_chunks", calls[1].path)
	assert.Equal(t, "GET", calls[2].method)
	assert.Equal(t, "/admin/assignments/100", calls[2].path)

	stored, ok := c.store.Assignments.Get(100)
	require.True(t, ok)
	assert.Equal(t, 90.0, stored.Hours)
	chunks, fetched := c.store.WageChunksByAssignment.Get(100)
	require.True(t, fetched)
	require.Len(t, chunks, 1)
}

func TestUpsertAssignmentWithoutChunksIsOneRoundTrip(t *testing.T) {
	c, ft := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		return mustRaw(t, models.Assignment{ID: 100, ApplicantID: 2000, PositionID: 10, Hours: 50}), nil
	})

	applicantID, positionID := 2000, 10
	got, err := c.upsertAssignmentCore(context.Background(), models.AssignmentUpsert{
		ApplicantID: &applicantID,
		PositionID:  &positionID,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Hours)
	assert.Len(t, ft.recorded(), 1)
}

func TestUpsertAssignmentFlattensRelations(t *testing.T) {
	c, ft := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		return mustRaw(t, models.Assignment{ID: 100, ApplicantID: 2000, PositionID: 10}), nil
	})

	_, err := c.upsertAssignmentCore(context.Background(), models.AssignmentUpsert{
		Applicant: &models.Applicant{ID: 2000},
		Position:  &models.Position{ID: 10},
	})
	require.NoError(t, err)

	calls := ft.recorded()
	require.Len(t, calls, 1)
	body := mustRaw(t, calls[0].body)
	var posted map[string]any
	require.NoError(t, json.Unmarshal(body, &posted))
	assert.Equal(t, float64(2000), posted["applicant_id"])
	assert.Equal(t, float64(10), posted["position_id"])
	// The nested relation objects never hit the wire.
	assert.NotContains(t, posted, "applicant")
	assert.NotContains(t, posted, "position")
}

func TestOfferVerbRefetchesAssignment(t *testing.T) {
	accepted := "accepted"
	c, ft := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		switch {
		case method == "POST" && path == "/admin/assignments/100/active_offer/accept":
			return nil, nil
		case method == "GET" && path == "/admin/assignments/100":
			return mustRaw(t, models.Assignment{ID: 100, ApplicantID: 2000, PositionID: 10, Hours: 90, ActiveOfferStatus: &accepted}), nil
		}
		t.Fatalf("unexpected call %s %s", method, path)
		return nil, nil
	})

	got, err := c.AcceptOffer(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, got.ActiveOfferStatus)
	assert.Equal(t, "accepted", *got.ActiveOfferStatus)
	require.Len(t, ft.recorded(), 2)
}

func TestUpsertApplicantsRefetchesOnce(t *testing.T) {
	var (
		mu      sync.Mutex
		posts   int
		fetches int
	)
	c, _ := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		mu.Lock()
		defer mu.Unlock()
		if method == "POST" {
			posts++
			return mustRaw(t, models.Applicant{ID: posts}), nil
		}
		fetches++
		return mustRaw(t, []models.Applicant{{ID: 1}, {ID: 2}, {ID: 3}}), nil
	})

	name := "x"
	payloads := []models.ApplicantUpsert{
		{UTORid: &name}, {UTORid: &name}, {UTORid: &name},
	}
	require.NoError(t, c.UpsertApplicants(context.Background(), payloads))

	assert.Equal(t, 3, posts)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 3, c.store.Applicants.Len())
}

func TestDeleteActiveSessionClearsSessionData(t *testing.T) {
	c, _ := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		return nil, nil
	})
	c.store.Assignments.ReplaceAll([]models.Assignment{{ID: 100}})

	require.NoError(t, c.DeleteSession(context.Background(), 1))
	assert.Equal(t, 0, c.store.ActiveSessionID())
	assert.Zero(t, c.store.Assignments.Len())
}

func TestDeleteInactiveSessionKeepsSessionData(t *testing.T) {
	c, _ := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		return nil, nil
	})
	c.store.Sessions.UpsertOne(models.Session{ID: 2})
	c.store.Assignments.ReplaceAll([]models.Assignment{{ID: 100}})

	require.NoError(t, c.DeleteSession(context.Background(), 2))
	assert.Equal(t, 1, c.store.ActiveSessionID())
	assert.Equal(t, 1, c.store.Assignments.Len())
}

func TestUpsertValidationFailsBeforeTransport(t *testing.T) {
	reached := false
	c, _ := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		reached = true
		return nil, nil
	})

	_, err := c.upsertAssignmentCore(context.Background(), models.AssignmentUpsert{Hours: f(-1)})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
	assert.False(t, reached)
}

func TestPublicFetchSwallowsErrorIntoNotification(t *testing.T) {
	ft := &fakeTransport{handler: func(string, string, any) (json.RawMessage, error) {
		return nil, appErrors.Clone(appErrors.ErrTransportFailure, "backend unreachable")
	}}
	d := dispatcher.New(zap.NewNop(), nil)
	var notifications []dispatcher.Notification
	var nmu sync.Mutex
	d.Subscribe(dispatcher.Listener{OnNotification: func(n dispatcher.Notification) {
		nmu.Lock()
		defer nmu.Unlock()
		notifications = append(notifications, n)
	}})
	c := New(ft, storeWithSession(), d, nil, zap.NewNop())

	applicants, err := c.FetchApplicants(context.Background())
	require.NoError(t, err)
	assert.Nil(t, applicants)
	require.Len(t, notifications, 1)
	assert.Equal(t, dispatcher.SeverityError, notifications[0].Severity)
	assert.Equal(t, "Error fetching applicants", notifications[0].Title)
}

func TestFetchInstructorsPropagateReturnsError(t *testing.T) {
	c, _ := newTestClient(t, func(string, string, any) (json.RawMessage, error) {
		return nil, appErrors.Clone(appErrors.ErrTransportFailure, "backend unreachable")
	})

	_, err := c.FetchInstructorsPropagate(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrFetch.Code))
}

func TestRolePrefixFollowsActiveRole(t *testing.T) {
	c, ft := newTestClient(t, func(method, path string, _ any) (json.RawMessage, error) {
		return mustRaw(t, []models.Session{}), nil
	})

	_, err := c.fetchSessionsCore(context.Background())
	require.NoError(t, err)

	c.store.SetActiveRole(models.RoleInstructor)
	_, err = c.fetchSessionsCore(context.Background())
	require.NoError(t, err)

	calls := ft.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, "/admin/sessions", calls[0].path)
	assert.Equal(t, "/instructor/sessions", calls[1].path)
}

func strp(s string) *string { return &s }

func f(v float64) *float64 { return &v }
