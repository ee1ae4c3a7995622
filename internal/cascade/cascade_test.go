package cascade

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/tapp-client/internal/client"
	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	"github.com/noah-isme/tapp-client/internal/state"
	"github.com/noah-isme/tapp-client/internal/store"
	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

// stubTransport answers through a scripted handler and records every path.
type stubTransport struct {
	mu      sync.Mutex
	calls   []string
	handler func(method, path string) (json.RawMessage, error)
}

func (s *stubTransport) record(method, path string) (json.RawMessage, error) {
	s.mu.Lock()
	s.calls = append(s.calls, method+" "+path)
	s.mu.Unlock()
	return s.handler(method, path)
}

func (s *stubTransport) Get(_ context.Context, path string) (json.RawMessage, error) {
	return s.record("GET", path)
}

func (s *stubTransport) Post(_ context.Context, path string, _ any) (json.RawMessage, error) {
	return s.record("POST", path)
}

func (s *stubTransport) Delete(_ context.Context, path string) (json.RawMessage, error) {
	return s.record("DELETE", path)
}

func (s *stubTransport) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubTransport) count(substr string) int {
	n := 0
	for _, c := range s.recorded() {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}

func (s *stubTransport) countExact(call string) int {
	n := 0
	for _, c := range s.recorded() {
		if c == call {
			n++
		}
	}
	return n
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// backendHandler answers the routes a full initialization touches. Overrides
// are matched before the defaults, keyed by path suffix.
func backendHandler(t *testing.T, user models.User, sessions []models.Session, overrides map[string]func() (json.RawMessage, error)) func(method, path string) (json.RawMessage, error) {
	return func(method, path string) (json.RawMessage, error) {
		for suffix, respond := range overrides {
			if strings.HasSuffix(path, suffix) {
				return respond()
			}
		}
		switch {
		case path == "/active_user":
			return mustRaw(t, user), nil
		case strings.HasSuffix(path, "/instructors"):
			return mustRaw(t, []models.Instructor{}), nil
		case strings.HasSuffix(path, "/sessions"):
			return mustRaw(t, sessions), nil
		case strings.Contains(path, "/sessions/"):
			// Every session-scoped collection defaults to empty.
			return json.RawMessage("[]"), nil
		}
		t.Fatalf("unexpected call %s %s", method, path)
		return nil, nil
	}
}

// memMirror keeps the snapshot in memory and records saves.
type memMirror struct {
	mu    sync.Mutex
	snap  state.Snapshot
	saves []state.Snapshot
}

func (m *memMirror) Load(context.Context) (state.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *memMirror) Save(_ context.Context, snap state.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	m.saves = append(m.saves, snap)
	return nil
}

func (m *memMirror) saved() []state.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]state.Snapshot(nil), m.saves...)
}

func newRunner(tr *stubTransport, mirror state.Mirror) (*Runner, *client.Client, *store.Store) {
	s := store.New()
	d := dispatcher.New(zap.NewNop(), nil)
	c := client.New(tr, s, d, nil, zap.NewNop())
	r := New(c, s, mirror, d, zap.NewNop(), tr, nil)
	return r, c, s
}

func f(v float64) *float64 { return &v }

func strp(s string) *string { return &s }

func testUser() models.User {
	return models.User{ID: 1, UTORid: "smithh", Roles: []models.Role{models.RoleAdmin, models.RoleInstructor}}
}

func testSessions() []models.Session {
	return []models.Session{
		{ID: 1, Name: "2019 Fall", StartDate: "2019-09-08", Rate1: 45.55, Rate2: f(47.33)},
		{ID: 2, Name: "2020 Winter", StartDate: "2020-01-05", Rate1: 46.10},
	}
}

func TestBootstrapRestoresPersistedSessionAndLoadsData(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), map[string]func() (json.RawMessage, error){
		"/sessions/1/applicants": func() (json.RawMessage, error) {
			return mustRaw(t, []models.Applicant{{ID: 2000, UTORid: "weasleyr", FirstName: "Ron", LastName: "Weasley"}}), nil
		},
		"/sessions/1/positions": func() (json.RawMessage, error) {
			return mustRaw(t, []models.Position{{ID: 10, PositionCode: "MAT135H1F", StartDate: strp("2019-09-08"), EndDate: strp("2019-12-31")}}), nil
		},
		"/sessions/1/assignments": func() (json.RawMessage, error) {
			return mustRaw(t, []models.Assignment{{ID: 100, ApplicantID: 2000, PositionID: 10, Hours: 90}}), nil
		},
		"/assignments/100/wage_chunks": func() (json.RawMessage, error) {
			return mustRaw(t, []models.WageChunk{{ID: 1, AssignmentID: 100, StartDate: "2019-09-08", EndDate: "2019-12-31", Hours: 90}}), nil
		},
	})
	mirror := &memMirror{snap: state.Snapshot{SessionID: 1, Role: models.RoleAdmin}}
	r, c, s := newRunner(tr, mirror)

	require.NoError(t, r.Bootstrap(context.Background()))

	user, ok := s.ActiveUser()
	require.True(t, ok)
	assert.Equal(t, "smithh", user.UTORid)
	assert.Equal(t, models.RoleAdmin, s.ActiveRole())
	assert.Equal(t, 1, s.ActiveSessionID())
	assert.Equal(t, 2, s.Sessions.Len())
	assert.Equal(t, 1, s.Applicants.Len())
	assert.Equal(t, 1, s.Positions.Len())
	assert.Equal(t, 1, s.Assignments.Len())

	// The persisted snapshot was refreshed during updateGlobals.
	saves := mirror.saved()
	require.NotEmpty(t, saves)
	assert.Equal(t, 1, saves[len(saves)-1].SessionID)
	assert.Equal(t, models.RoleAdmin, saves[len(saves)-1].Role)

	// The denormalized assignment resolves its relations and rates.
	_, err := c.FetchWageChunks(context.Background(), 100)
	require.NoError(t, err)
	assignments := c.Views().Assignments()
	require.Len(t, assignments, 1)
	assert.Equal(t, "weasleyr", assignments[0].Applicant.UTORid)
	assert.Equal(t, "MAT135H1F", assignments[0].Position.PositionCode)
	assert.Equal(t, 90.0, assignments[0].Hours)
}

func TestBootstrapAppliesWageRatesFromSession(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), map[string]func() (json.RawMessage, error){
		"/sessions/1/applicants": func() (json.RawMessage, error) {
			return mustRaw(t, []models.Applicant{{ID: 2000, UTORid: "weasleyr"}}), nil
		},
		"/sessions/1/positions": func() (json.RawMessage, error) {
			return mustRaw(t, []models.Position{{ID: 10, PositionCode: "MAT135H1F"}}), nil
		},
		"/sessions/1/assignments": func() (json.RawMessage, error) {
			return mustRaw(t, []models.Assignment{{ID: 100, ApplicantID: 2000, PositionID: 10, Hours: 90}}), nil
		},
		"/assignments/100/wage_chunks": func() (json.RawMessage, error) {
			return mustRaw(t, []models.WageChunk{{ID: 1, AssignmentID: 100, StartDate: "2019-09-08", EndDate: "2019-12-31", Hours: 90}}), nil
		},
	})
	mirror := &memMirror{snap: state.Snapshot{SessionID: 1}}
	r, c, _ := newRunner(tr, mirror)

	require.NoError(t, r.Bootstrap(context.Background()))
	_, err := c.FetchWageChunks(context.Background(), 100)
	require.NoError(t, err)

	assignments := c.Views().Assignments()
	require.Len(t, assignments, 1)
	require.Len(t, assignments[0].WageChunks, 1)
	// The chunk falls entirely before the rate boundary, so rate1 applies.
	assert.Equal(t, 45.55, assignments[0].WageChunks[0].Rate)
}

func TestBootstrapPrefersPersistedRole(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	mirror := &memMirror{snap: state.Snapshot{Role: models.RoleInstructor}}
	r, _, s := newRunner(tr, mirror)

	require.NoError(t, r.Bootstrap(context.Background()))
	assert.Equal(t, models.RoleInstructor, s.ActiveRole())
	// Session fetches after role resolution go through the role's routes.
	assert.NotZero(t, tr.count("GET /instructor/sessions"))
}

func TestBootstrapSeedFillsMissingPersistedFields(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	// Nothing persisted yet; the configured defaults apply.
	r, _, s := newRunner(tr, &memMirror{})
	r.SeedPreferences(state.Snapshot{SessionID: 2, Role: models.RoleInstructor})

	require.NoError(t, r.Bootstrap(context.Background()))
	assert.Equal(t, models.RoleInstructor, s.ActiveRole())
	assert.Equal(t, 2, s.ActiveSessionID())
}

func TestBootstrapPersistedStateBeatsSeed(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	mirror := &memMirror{snap: state.Snapshot{SessionID: 1, Role: models.RoleAdmin}}
	r, _, s := newRunner(tr, mirror)
	r.SeedPreferences(state.Snapshot{SessionID: 2, Role: models.RoleInstructor})

	require.NoError(t, r.Bootstrap(context.Background()))
	assert.Equal(t, models.RoleAdmin, s.ActiveRole())
	assert.Equal(t, 1, s.ActiveSessionID())
}

func TestBootstrapFallsBackToMostPrivilegedRole(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	// The persisted role is one the user no longer holds.
	mirror := &memMirror{snap: state.Snapshot{Role: models.RoleTA}}
	r, _, s := newRunner(tr, mirror)

	require.NoError(t, r.Bootstrap(context.Background()))
	assert.Equal(t, models.RoleAdmin, s.ActiveRole())
}

func TestBootstrapIgnoresUnknownPersistedSession(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	mirror := &memMirror{snap: state.Snapshot{SessionID: 999}}
	r, _, s := newRunner(tr, mirror)

	require.NoError(t, r.Bootstrap(context.Background()))
	// A session the server did not return cannot become active, and no
	// session-scoped fetch may run without one.
	assert.Equal(t, 0, s.ActiveSessionID())
	assert.Zero(t, tr.count("/sessions/999/"))
}

func TestBootstrapSurvivesInstructorFetchFailure(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), map[string]func() (json.RawMessage, error){
		"/instructors": func() (json.RawMessage, error) {
			return nil, appErrors.Clone(appErrors.ErrTransportFailure, "instructors route down")
		},
	})
	mirror := &memMirror{snap: state.Snapshot{SessionID: 1}}
	r, _, s := newRunner(tr, mirror)

	require.NoError(t, r.Bootstrap(context.Background()))
	assert.Equal(t, 1, s.ActiveSessionID())
	assert.Zero(t, s.Instructors.Len())
}

func TestSelectSessionRejectsUnknownSession(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	r, _, s := newRunner(tr, &memMirror{})
	s.Sessions.ReplaceAll(testSessions())

	err := r.SelectSession(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
	assert.Equal(t, 0, s.ActiveSessionID())
	assert.Empty(t, tr.recorded())
}

func TestSelectSessionClearsAndRefetchesDownstream(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	mirror := &memMirror{}
	r, _, s := newRunner(tr, mirror)
	s.Sessions.ReplaceAll(testSessions())
	s.SetActiveSession(testSessions()[0])
	s.Assignments.ReplaceAll([]models.Assignment{{ID: 100}})

	require.NoError(t, r.SelectSession(context.Background(), 2))

	assert.Equal(t, 2, s.ActiveSessionID())
	// The previous session's data is gone and the new session's collections
	// were fetched; the session list itself is not re-fetched.
	assert.Zero(t, s.Assignments.Len())
	assert.NotZero(t, tr.count("/sessions/2/"))
	assert.Zero(t, tr.countExact("GET /admin/sessions"))
	assert.Zero(t, tr.count("/sessions/1/"))

	saves := mirror.saved()
	require.NotEmpty(t, saves)
	assert.Equal(t, 2, saves[len(saves)-1].SessionID)
}

func TestSelectSessionIsIdempotentForActiveSession(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	r, _, s := newRunner(tr, &memMirror{})
	s.Sessions.ReplaceAll(testSessions())
	s.SetActiveSession(testSessions()[0])

	require.NoError(t, r.SelectSession(context.Background(), 1))
	assert.Empty(t, tr.recorded())
}

func TestUnsetSessionClearsWithoutFetching(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	mirror := &memMirror{}
	r, _, s := newRunner(tr, mirror)
	s.Sessions.ReplaceAll(testSessions())
	s.SetActiveSession(testSessions()[0])
	s.Applicants.ReplaceAll([]models.Applicant{{ID: 2000}})

	require.NoError(t, r.UnsetSession(context.Background()))

	assert.Equal(t, 0, s.ActiveSessionID())
	assert.Zero(t, s.Applicants.Len())
	assert.Zero(t, tr.count("/sessions/1/"))
	saves := mirror.saved()
	require.NotEmpty(t, saves)
	assert.Equal(t, 0, saves[len(saves)-1].SessionID)
}

func TestSelectRoleRequiresHeldRole(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	r, _, s := newRunner(tr, &memMirror{})
	s.SetActiveUser(models.User{ID: 1, UTORid: "smithh", Roles: []models.Role{models.RoleAdmin}})

	err := r.SelectRole(context.Background(), models.RoleTA)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestSelectRoleClearsSessionDataBeforeRefetch(t *testing.T) {
	tr := &stubTransport{}
	tr.handler = backendHandler(t, testUser(), testSessions(), nil)
	r, _, s := newRunner(tr, &memMirror{})
	s.SetActiveUser(testUser())
	s.Sessions.ReplaceAll(testSessions())
	s.SetActiveSession(testSessions()[0])
	s.Assignments.ReplaceAll([]models.Assignment{{ID: 100}})

	require.NoError(t, r.SelectRole(context.Background(), models.RoleInstructor))

	assert.Equal(t, models.RoleInstructor, s.ActiveRole())
	// Role-dependent fetches run against the new role's routes.
	assert.NotZero(t, tr.count("GET /instructor/sessions"))
	assert.Zero(t, tr.count("GET /admin/"))
}

func TestToggleMockAPISwapsTransport(t *testing.T) {
	primary := &stubTransport{}
	primary.handler = backendHandler(t, testUser(), testSessions(), nil)
	mock := &stubTransport{}
	mock.handler = backendHandler(t, testUser(), testSessions(), nil)

	s := store.New()
	d := dispatcher.New(zap.NewNop(), nil)
	c := client.New(primary, s, d, nil, zap.NewNop())
	r := New(c, s, &memMirror{}, d, zap.NewNop(), primary, mock)

	require.NoError(t, r.ToggleMockAPI(context.Background(), true))
	assert.True(t, s.MockAPI())
	assert.NotEmpty(t, mock.recorded())
	mockCalls := len(mock.recorded())

	require.NoError(t, r.ToggleMockAPI(context.Background(), false))
	assert.False(t, s.MockAPI())
	assert.NotEmpty(t, primary.recorded())
	// The mock transport sees no further traffic once toggled off.
	assert.Equal(t, mockCalls, len(mock.recorded()))
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "pageLoad", StagePageLoad.String())
	assert.Equal(t, "fetchSessionDependentData", StageFetchSessionDependentData.String())
	assert.Equal(t, "unknown", Stage(99).String())
}
