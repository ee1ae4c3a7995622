// Package client holds the per-entity action modules: every fetch, upsert
// and delete against the TAPP backend, routed through the dispatcher and
// applied to the normalized store.
package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	"github.com/noah-isme/tapp-client/internal/store"
	"github.com/noah-isme/tapp-client/internal/telemetry"
	"github.com/noah-isme/tapp-client/internal/transport"
	"github.com/noah-isme/tapp-client/internal/view"
	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

// Client wires the transport, store and dispatcher together.
type Client struct {
	transport transport.Transport
	store     *store.Store
	graph     *view.Graph
	dispatch  *dispatcher.Dispatcher
	validate  *validator.Validate
	metrics   *telemetry.Metrics
	logger    *zap.Logger
}

// New builds a client. The selector graph is created over the given store.
func New(t transport.Transport, s *store.Store, d *dispatcher.Dispatcher, metrics *telemetry.Metrics, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		transport: t,
		store:     s,
		graph:     view.NewGraph(s),
		dispatch:  d,
		validate:  validator.New(),
		metrics:   metrics,
		logger:    logger,
	}
}

// Store exposes the normalized store.
func (c *Client) Store() *store.Store {
	return c.store
}

// Views exposes the denormalizing selector graph.
func (c *Client) Views() *view.Graph {
	return c.graph
}

// SetTransport swaps the transport (used by the mock-API toggle).
func (c *Client) SetTransport(t transport.Transport) {
	c.transport = t
}

// rolePrefix returns the path prefix of the active role, defaulting to
// admin when no role has been selected yet.
func (c *Client) rolePrefix() string {
	role := c.store.ActiveRole()
	if role == "" {
		role = models.RoleAdmin
	}
	return "/" + string(role)
}

// sessionPath builds a session-scoped resource path and reports which
// session the request was issued for, so the result can be discarded if the
// session changes while the request is in flight.
func (c *Client) sessionPath(resource string) (string, int, error) {
	sid := c.store.ActiveSessionID()
	if sid == 0 {
		return "", 0, appErrors.Clone(appErrors.ErrMissingSession, fmt.Sprintf("cannot fetch %s without an active session", resource))
	}
	return fmt.Sprintf("%s/sessions/%d/%s", c.rolePrefix(), sid, resource), sid, nil
}

// sessionStillActive re-validates the session guard after a round trip.
func (c *Client) sessionStillActive(issuedFor int, collection string) bool {
	current := c.store.ActiveSessionID()
	if current == issuedFor {
		return true
	}
	c.logger.Sugar().Debugw("discarding stale fetch result",
		"collection", collection,
		"issued_for_session", issuedFor,
		"active_session", current,
	)
	if c.metrics != nil {
		c.metrics.StaleFetchDiscarded(collection)
	}
	return false
}

func getJSON[T any](ctx context.Context, t transport.Transport, path string) (T, error) {
	var out T
	raw, err := t.Get(ctx, path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, appErrors.Wrap(err, appErrors.ErrTransportFailure.Code, appErrors.ErrTransportFailure.Status, "decode payload for "+path)
	}
	return out, nil
}

func postJSON[T any](ctx context.Context, t transport.Transport, path string, body any) (T, error) {
	var out T
	raw, err := t.Post(ctx, path, body)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, appErrors.Wrap(err, appErrors.ErrTransportFailure.Code, appErrors.ErrTransportFailure.Status, "decode payload for "+path)
	}
	return out, nil
}

// notifyError builds the standard error-to-notification mapping: a single
// free-text message derived from the underlying error.
func notifyError(title string) func(error) dispatcher.Notification {
	return func(err error) dispatcher.Notification {
		return dispatcher.Notification{
			Severity: dispatcher.SeverityError,
			Title:    title,
			Message:  err.Error(),
		}
	}
}

func wrapFetch(err error, what string) error {
	return appErrors.Wrap(err, appErrors.ErrFetch.Code, appErrors.ErrFetch.Status, "fetch "+what)
}

func wrapUpsert(err error, what string) error {
	return appErrors.Wrap(err, appErrors.ErrUpsert.Code, appErrors.ErrUpsert.Status, "upsert "+what)
}

func wrapDelete(err error, what string) error {
	return appErrors.Wrap(err, appErrors.ErrDelete.Code, appErrors.ErrDelete.Status, "delete "+what)
}
