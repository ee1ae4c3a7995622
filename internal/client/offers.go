package client

import (
	"context"
	"fmt"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
)

// FetchOfferHistory loads the append-only offer log of one assignment into
// the per-assignment index.
func (c *Client) FetchOfferHistory(ctx context.Context, assignmentID int) ([]models.Offer, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Offer]{
		Name:        "fetch_offer_history",
		Description: "fetching offer history",
		Run: func(ctx context.Context) ([]models.Offer, error) {
			offers, err := getJSON[[]models.Offer](ctx, c.transport, fmt.Sprintf("%s/assignments/%d/active_offer/history", c.rolePrefix(), assignmentID))
			if err != nil {
				return nil, wrapFetch(err, "offer history")
			}
			c.store.OffersByAssignment.Set(assignmentID, offers)
			return offers, nil
		},
		MapError: notifyError("Error fetching offer history"),
	})
}

// offerVerb posts one lifecycle verb against an assignment's active offer
// and then unconditionally re-fetches the assignment, since every offer
// mutation can change assignment-level computed fields.
func (c *Client) offerVerb(ctx context.Context, assignmentID int, verb string) (models.Assignment, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Assignment]{
		Name:        "offer_" + verb,
		Description: fmt.Sprintf("%s offer", verb),
		Run: func(ctx context.Context) (models.Assignment, error) {
			path := fmt.Sprintf("%s/assignments/%d/active_offer/%s", c.rolePrefix(), assignmentID, verb)
			if _, err := c.transport.Post(ctx, path, nil); err != nil {
				return models.Assignment{}, wrapUpsert(err, "offer")
			}
			return c.fetchAssignmentCore(ctx, assignmentID)
		},
		MapError: notifyError(fmt.Sprintf("Error trying to %s offer", verb)),
	})
}

// CreateOffer appends a provisional offer for the assignment.
func (c *Client) CreateOffer(ctx context.Context, assignmentID int) (models.Assignment, error) {
	return c.offerVerb(ctx, assignmentID, "create")
}

// EmailOffer emails the active offer, moving it to pending.
func (c *Client) EmailOffer(ctx context.Context, assignmentID int) (models.Assignment, error) {
	return c.offerVerb(ctx, assignmentID, "email")
}

// NagOffer re-emails a pending offer and bumps its nag count.
func (c *Client) NagOffer(ctx context.Context, assignmentID int) (models.Assignment, error) {
	return c.offerVerb(ctx, assignmentID, "nag")
}

// AcceptOffer marks the active offer accepted.
func (c *Client) AcceptOffer(ctx context.Context, assignmentID int) (models.Assignment, error) {
	return c.offerVerb(ctx, assignmentID, "accept")
}

// RejectOffer marks the active offer rejected.
func (c *Client) RejectOffer(ctx context.Context, assignmentID int) (models.Assignment, error) {
	return c.offerVerb(ctx, assignmentID, "reject")
}

// WithdrawOffer withdraws the active offer.
func (c *Client) WithdrawOffer(ctx context.Context, assignmentID int) (models.Assignment, error) {
	return c.offerVerb(ctx, assignmentID, "withdraw")
}
