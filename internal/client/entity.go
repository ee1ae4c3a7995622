package client

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

// fetchSessionScoped fetches a session-scoped collection and replaces the
// local copy wholesale. The active session is re-checked after the round
// trip; a result that was issued for a session that is no longer active is
// discarded without error, since the collection has already been cleared or
// refetched for the new session.
func fetchSessionScoped[T any](ctx context.Context, c *Client, resource string, apply func([]T)) ([]T, error) {
	path, issuedFor, err := c.sessionPath(resource)
	if err != nil {
		return nil, err
	}
	records, err := getJSON[[]T](ctx, c.transport, path)
	if err != nil {
		return nil, wrapFetch(err, resource)
	}
	if !c.sessionStillActive(issuedFor, resource) {
		return nil, nil
	}
	apply(records)
	return records, nil
}

// upsertSessionScoped validates and posts a partial record against the
// session-scoped collection route and applies the returned record.
func upsertSessionScoped[T any](ctx context.Context, c *Client, resource string, payload any, apply func(T)) (T, error) {
	var zero T
	if err := c.validate.Struct(payload); err != nil {
		return zero, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+resource+" payload")
	}
	path, _, err := c.sessionPath(resource)
	if err != nil {
		return zero, err
	}
	record, err := postJSON[T](ctx, c.transport, path, payload)
	if err != nil {
		return zero, wrapUpsert(err, resource)
	}
	apply(record)
	return record, nil
}

// deleteByID removes a record through the role-scoped resource route.
func deleteByID(ctx context.Context, c *Client, resource string, id int, apply func(int)) error {
	if _, err := c.transport.Delete(ctx, fmt.Sprintf("%s/%s/%d", c.rolePrefix(), resource, id)); err != nil {
		return wrapDelete(err, resource)
	}
	apply(id)
	return nil
}

// upsertMany fires all upserts concurrently, awaits them, then re-fetches the
// full collection once. The trailing re-fetch reconciles server-side side
// effects that none of the individual upsert responses would reveal.
func upsertMany[U any](ctx context.Context, upsert func(context.Context, U) error, refetch func(context.Context) error, payloads []U) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, payload := range payloads {
		payload := payload
		g.Go(func() error {
			return upsert(gctx, payload)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return refetch(ctx)
}
