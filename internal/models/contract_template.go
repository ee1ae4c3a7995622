package models

// ContractTemplate names a contract letter template available to a session.
// Template names are unique per session (enforced server side).
type ContractTemplate struct {
	ID           int    `json:"id"`
	TemplateName string `json:"template_name"`
	TemplateFile string `json:"template_file"`
}

// ContractTemplateUpsert is a partial payload for creating or updating a
// contract template.
type ContractTemplateUpsert struct {
	ID           *int    `json:"id,omitempty"`
	TemplateName *string `json:"template_name,omitempty" validate:"omitempty,min=1"`
	TemplateFile *string `json:"template_file,omitempty"`
}
