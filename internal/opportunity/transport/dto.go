package transport

import (
	"github.com/google/uuid"

	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/internal/opportunity/domain"
)

type OpportunityRecord struct {
	ID               uuid.UUID  `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name" validate:"max=255"`
	AccountID        *uuid.UUID `json:"accountId,omitempty" yaml:"accountId,omitempty"`
	AmountCents      int64      `json:"amountCents" yaml:"amountCents"`
	StageName        string     `json:"stageName" yaml:"stageName" validate:"required,max=100"`
	Type             *string    `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,max=100"`
	PrimaryContactID *uuid.UUID `json:"primaryContactId,omitempty" yaml:"primaryContactId,omitempty"`
	Description      string     `json:"description" yaml:"description"`
	OwnerID          uuid.UUID  `json:"ownerId" yaml:"ownerId"`
}

type TriggerRequest struct {
	Records []OpportunityRecord `json:"records" yaml:"records" validate:"max=200,dive"`
	Prior   []OpportunityRecord `json:"prior,omitempty" yaml:"prior,omitempty" validate:"omitempty,max=200,dive"`
}

type TriggerResponse struct {
	Phase      string                 `json:"phase"`
	Records    []OpportunityRecord    `json:"records"`
	Rejections []automation.Rejection `json:"rejections"`
}

type PhaseRules struct {
	Phase string   `json:"phase"`
	Rules []string `json:"rules"`
}

type RulesResponse struct {
	Phases []PhaseRules `json:"phases"`
}

func (r OpportunityRecord) ToDomain() domain.Opportunity {
	return domain.Opportunity{
		ID:               r.ID,
		Name:             r.Name,
		AccountID:        r.AccountID,
		AmountCents:      r.AmountCents,
		StageName:        r.StageName,
		Type:             r.Type,
		PrimaryContactID: r.PrimaryContactID,
		Description:      r.Description,
		OwnerID:          r.OwnerID,
	}
}

func FromDomain(o domain.Opportunity) OpportunityRecord {
	return OpportunityRecord{
		ID:               o.ID,
		Name:             o.Name,
		AccountID:        o.AccountID,
		AmountCents:      o.AmountCents,
		StageName:        o.StageName,
		Type:             o.Type,
		PrimaryContactID: o.PrimaryContactID,
		Description:      o.Description,
		OwnerID:          o.OwnerID,
	}
}

func ToDomainList(records []OpportunityRecord) []domain.Opportunity {
	out := make([]domain.Opportunity, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToDomain())
	}
	return out
}

// NewTriggerResponse reports the batch's post-rule state.
func NewTriggerResponse(batch *automation.Batch) TriggerResponse {
	records := batch.Records()
	resp := TriggerResponse{
		Phase:      batch.Phase.String(),
		Records:    make([]OpportunityRecord, 0, len(records)),
		Rejections: batch.Rejections(),
	}
	for _, o := range records {
		resp.Records = append(resp.Records, FromDomain(o))
	}
	if resp.Rejections == nil {
		resp.Rejections = []automation.Rejection{}
	}
	return resp
}
