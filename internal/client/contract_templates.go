package client

import (
	"context"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
)

func (c *Client) fetchContractTemplatesCore(ctx context.Context) ([]models.ContractTemplate, error) {
	return fetchSessionScoped(ctx, c, "contract_templates", c.store.ContractTemplates.ReplaceAll)
}

// FetchContractTemplates replaces the session's contract template list.
func (c *Client) FetchContractTemplates(ctx context.Context) ([]models.ContractTemplate, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.ContractTemplate]{
		Name:        "fetch_contract_templates",
		Description: "fetching contract templates",
		Run:         c.fetchContractTemplatesCore,
		MapError:    notifyError("Error fetching contract templates"),
	})
}

// UpsertContractTemplate creates or updates a contract template in the
// active session. Template name uniqueness is enforced server side and
// surfaces as a validation error.
func (c *Client) UpsertContractTemplate(ctx context.Context, payload models.ContractTemplateUpsert) (models.ContractTemplate, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.ContractTemplate]{
		Name:        "upsert_contract_template",
		Description: "upserting contract template",
		Run: func(ctx context.Context) (models.ContractTemplate, error) {
			return upsertSessionScoped[models.ContractTemplate](ctx, c, "contract_templates", payload, c.store.ContractTemplates.UpsertOne)
		},
		MapError: notifyError("Error upserting contract template"),
	})
}

// DeleteContractTemplate removes a contract template by id.
func (c *Client) DeleteContractTemplate(ctx context.Context, id int) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_contract_template",
		Description: "deleting contract template",
		Run: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, deleteByID(ctx, c, "contract_templates", id, c.store.ContractTemplates.DeleteOne)
		},
		MapError: notifyError("Error deleting contract template"),
	})
	return err
}
