// Package cascade is the staged initialization pipeline. Whenever the
// active user, role or session changes, every piece of dependent state has
// to be re-derived in a fixed order; the cascade runs the ordered stages
// at-or-after a starting stage, awaiting each before the next.
package cascade

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/tapp-client/internal/client"
	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	"github.com/noah-isme/tapp-client/internal/state"
	"github.com/noah-isme/tapp-client/internal/store"
	"github.com/noah-isme/tapp-client/internal/transport"
	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

// Stage names one step of the initialization pipeline, in execution order.
type Stage int

const (
	StagePageLoad Stage = iota
	StageToggleMockAPI
	StageSetActiveUser
	StageSetActiveUserRole
	StageFetchInstructors
	StageFetchSessions
	StageSetActiveSession
	StageUpdateGlobals
	StageFetchSessionDependentData
)

var stageNames = map[Stage]string{
	StagePageLoad:                  "pageLoad",
	StageToggleMockAPI:             "toggleMockAPI",
	StageSetActiveUser:             "setActiveUser",
	StageSetActiveUserRole:         "setActiveUserRole",
	StageFetchInstructors:          "fetchInstructors",
	StageFetchSessions:             "fetchSessions",
	StageSetActiveSession:          "setActiveSession",
	StageUpdateGlobals:             "updateGlobals",
	StageFetchSessionDependentData: "fetchSessionDependentData",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Options adjusts how InitFromStage interprets its starting stage.
type Options struct {
	// StartAfter skips the named stage itself and runs only the stages
	// strictly after it, for callers that already performed the stage's
	// work (e.g. a session change that has already set the session).
	StartAfter bool
}

// Runner executes the pipeline over one client and store.
type Runner struct {
	client   *client.Client
	store    *store.Store
	mirror   state.Mirror
	dispatch *dispatcher.Dispatcher
	logger   *zap.Logger

	primary transport.Transport
	mock    transport.Transport

	// mu makes concurrent triggers re-entrant: a second trigger waits for
	// the first full run rather than interleaving stages.
	mu        sync.Mutex
	preferred state.Snapshot
	seed      state.Snapshot
}

// New builds a runner. mock may be nil, in which case the mock-API toggle is
// a no-op.
func New(c *client.Client, s *store.Store, mirror state.Mirror, d *dispatcher.Dispatcher, logger *zap.Logger, primary, mock transport.Transport) *Runner {
	if mirror == nil {
		mirror = state.NopMirror{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		client:   c,
		store:    s,
		mirror:   mirror,
		dispatch: d,
		logger:   logger,
		primary:  primary,
		mock:     mock,
	}
}

// SeedPreferences sets the fallback snapshot consulted for any field the
// mirror has no persisted value for, typically sourced from configuration.
func (r *Runner) SeedPreferences(snap state.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seed = snap
}

// Bootstrap restores the persisted state subset and runs the full pipeline
// from the first stage.
func (r *Runner) Bootstrap(ctx context.Context) error {
	snap, err := r.mirror.Load(ctx)
	if err != nil {
		r.logger.Sugar().Warnw("failed to restore persisted state", "error", err)
	}
	r.mu.Lock()
	if snap.SessionID == 0 {
		snap.SessionID = r.seed.SessionID
	}
	if snap.Role == "" {
		snap.Role = r.seed.Role
	}
	snap.MockAPI = snap.MockAPI || r.seed.MockAPI
	r.preferred = snap
	r.mu.Unlock()
	if snap.MockAPI {
		r.store.SetMockAPI(true)
	}
	return r.InitFromStage(ctx, StagePageLoad, Options{})
}

// SelectSession makes the given session active and re-derives everything
// downstream of the session choice. The session must be present in the
// fetched session list.
func (r *Runner) SelectSession(ctx context.Context, id int) error {
	session, ok := r.store.Sessions.Get(id)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "session is not in the fetched session list")
	}
	if r.store.ActiveSessionID() == id {
		return nil
	}
	r.store.SetActiveSession(session)
	return r.InitFromStage(ctx, StageSetActiveSession, Options{StartAfter: true})
}

// UnsetSession clears the active session and the data scoped to it.
func (r *Runner) UnsetSession(ctx context.Context) error {
	r.store.UnsetActiveSession()
	r.store.ClearSessionData()
	return r.InitFromStage(ctx, StageSetActiveSession, Options{StartAfter: true})
}

// SelectRole switches the client-side view role and re-derives everything
// downstream of the role choice.
func (r *Runner) SelectRole(ctx context.Context, role models.Role) error {
	if user, ok := r.store.ActiveUser(); ok && !user.HasRole(role) {
		return appErrors.Clone(appErrors.ErrValidation, "active user does not hold role "+string(role))
	}
	r.store.ClearSessionData()
	r.store.SetActiveRole(role)
	return r.InitFromStage(ctx, StageSetActiveUserRole, Options{StartAfter: true})
}

// ToggleMockAPI flips the mock-API flag and re-runs the pipeline from the
// toggle stage so every collection is re-fetched through the new transport.
func (r *Runner) ToggleMockAPI(ctx context.Context, on bool) error {
	r.store.SetMockAPI(on)
	return r.InitFromStage(ctx, StageToggleMockAPI, Options{})
}

// InitFromStage runs every stage at-or-after stage (or strictly after, with
// StartAfter) in the fixed pipeline order, awaiting each stage before the
// next. The instructor fetch is the exception: it is fired early and only
// joined at the very end, and its failure never blocks initialization.
func (r *Runner) InitFromStage(ctx context.Context, stage Stage, opts Options) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := stage
	if opts.StartAfter {
		start++
	}
	r.logger.Sugar().Infow("running initialization cascade", "from_stage", start.String(), "trigger_stage", stage.String())

	var instructorsDone chan error

	for s := start; s <= StageFetchSessionDependentData; s++ {
		switch s {
		case StagePageLoad:
			// Anchor stage; the work is the stages after it.

		case StageToggleMockAPI:
			r.applyMockAPIToggle()

		case StageSetActiveUser:
			if _, err := r.client.FetchActiveUser(ctx); err != nil {
				return err
			}

		case StageSetActiveUserRole:
			r.resolveActiveRole()

		case StageFetchInstructors:
			instructorsDone = make(chan error, 1)
			go func() {
				_, err := r.client.FetchInstructorsPropagate(ctx)
				instructorsDone <- err
			}()

		case StageFetchSessions:
			if _, err := r.client.FetchSessions(ctx); err != nil {
				return err
			}

		case StageSetActiveSession:
			r.resolveActiveSession()

		case StageUpdateGlobals:
			if err := r.updateGlobals(ctx); err != nil {
				return err
			}

		case StageFetchSessionDependentData:
			if err := r.fetchSessionDependentData(ctx); err != nil {
				return err
			}
		}
	}

	if instructorsDone != nil {
		// Instructors are non-critical; a failed fetch is logged and
		// swallowed so one broken route cannot block initialization.
		if err := <-instructorsDone; err != nil {
			r.logger.Sugar().Warnw("instructor fetch failed during initialization", "error", err)
		}
	}
	return nil
}

func (r *Runner) applyMockAPIToggle() {
	if r.mock == nil {
		return
	}
	if r.store.MockAPI() {
		r.client.SetTransport(r.mock)
	} else {
		r.client.SetTransport(r.primary)
	}
}

// resolveActiveRole clears session-dependent data synchronously before any
// network call, then picks the persisted role if the user holds it and the
// most privileged held role otherwise. The clear comes first so a consumer
// can never observe the previous role's data while the new role's data
// streams in.
func (r *Runner) resolveActiveRole() {
	r.store.ClearSessionData()

	user, ok := r.store.ActiveUser()
	if !ok {
		return
	}
	role := r.preferred.Role
	if role == "" || !user.HasRole(role) {
		role = user.DefaultRole()
	}
	if role != "" {
		r.store.SetActiveRole(role)
	}
}

// resolveActiveSession makes the target session active only if it is
// actually present in the already-fetched session list; a session the
// server has not returned yet cannot become active.
func (r *Runner) resolveActiveSession() {
	target := r.store.ActiveSessionID()
	if target == 0 {
		target = r.preferred.SessionID
	}
	if target == 0 {
		return
	}
	session, ok := r.store.Sessions.Get(target)
	if !ok {
		r.logger.Sugar().Debugw("target session not present in fetched session list", "session_id", target)
		return
	}
	r.store.SetActiveSession(session)
}

// updateGlobals persists the restart-surviving subset of state.
func (r *Runner) updateGlobals(ctx context.Context) error {
	_, err := dispatcher.Do(ctx, r.dispatch, dispatcher.Operation[struct{}]{
		Name:        "update_globals",
		Description: "persisting global state",
		Run: func(ctx context.Context) (struct{}, error) {
			snap := state.Snapshot{
				SessionID: r.store.ActiveSessionID(),
				Role:      r.store.ActiveRole(),
				MockAPI:   r.store.MockAPI(),
			}
			if err := r.mirror.Save(ctx, snap); err != nil {
				return struct{}{}, appErrors.Wrap(err, appErrors.ErrAPI.Code, appErrors.ErrAPI.Status, "persist global state")
			}
			return struct{}{}, nil
		},
		MapError: func(err error) dispatcher.Notification {
			return dispatcher.Notification{
				Severity: dispatcher.SeverityError,
				Title:    "Error persisting global state",
				Message:  err.Error(),
			}
		},
	})
	return err
}

// fetchSessionDependentData clears the session-scoped collections first and
// then re-fetches them all concurrently; they have no dependencies among
// themselves and each fetch replaces its own slice wholesale.
func (r *Runner) fetchSessionDependentData(ctx context.Context) error {
	if r.store.ActiveSessionID() == 0 {
		r.logger.Sugar().Debugw("skipping session-dependent fetches: no active session")
		return nil
	}
	r.store.ClearSessionData()

	g, gctx := errgroup.WithContext(ctx)
	fetches := []func(context.Context) error{
		func(ctx context.Context) error { _, err := r.client.FetchContractTemplates(ctx); return err },
		func(ctx context.Context) error { _, err := r.client.FetchApplicants(ctx); return err },
		func(ctx context.Context) error { _, err := r.client.FetchPositions(ctx); return err },
		func(ctx context.Context) error { _, err := r.client.FetchApplications(ctx); return err },
		func(ctx context.Context) error { _, err := r.client.FetchAssignments(ctx); return err },
		func(ctx context.Context) error { _, err := r.client.FetchDdahs(ctx); return err },
		func(ctx context.Context) error { _, err := r.client.FetchInstructorPreferences(ctx); return err },
		func(ctx context.Context) error { _, err := r.client.FetchPostings(ctx); return err },
		func(ctx context.Context) error { _, err := r.client.FetchPostingPositions(ctx); return err },
	}
	for _, fetch := range fetches {
		fetch := fetch
		g.Go(func() error {
			return fetch(gctx)
		})
	}
	return g.Wait()
}
