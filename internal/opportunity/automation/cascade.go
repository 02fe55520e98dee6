package automation

import (
	"context"
	"fmt"
	"time"

	"opportunity_automation/internal/opportunity/domain"
)

func (d *Dispatcher) applyDefaultType(_ context.Context, inv *invocation) error {
	for _, it := range inv.batch.Live() {
		if it.New.Type == nil || *it.New.Type == "" {
			defaultType := domain.DefaultOpportunityType
			it.New.Type = &defaultType
		}
	}
	return nil
}

func (d *Dispatcher) annotateStageChange(_ context.Context, inv *invocation) error {
	for _, it := range inv.batch.Live() {
		if it.Old.StageName == it.New.StageName {
			continue
		}
		line := stageChangeLine(it.New.StageName, inv.now)
		if it.New.Description == "" {
			it.New.Description = line
		} else {
			it.New.Description += "\n" + line
		}
	}
	return nil
}

func stageChangeLine(stage string, at time.Time) string {
	return fmt.Sprintf("Stage Change:%s:%s", stage, at.UTC().Format(time.RFC3339))
}

func (d *Dispatcher) backfillCEOContact(ctx context.Context, inv *invocation) error {
	_, err := backfillPrimaryContact(ctx, inv, domain.RoleCEO)
	return err
}

// backfillPrimaryContact fills a null primary contact from the role's contact
// on the record's account. Records that already have one are not touched.
func backfillPrimaryContact(ctx context.Context, inv *invocation, role string) ([]*Item, error) {
	live := inv.batch.Live()
	contacts, err := inv.lookup.ContactsByRole(ctx, live, role)
	if err != nil {
		return nil, err
	}

	var filled []*Item
	for _, it := range live {
		opp := it.Record()
		if opp.PrimaryContactID != nil || opp.AccountID == nil {
			continue
		}
		contact, ok := contacts[*opp.AccountID]
		if !ok {
			continue
		}
		contactID := contact.ID
		opp.PrimaryContactID = &contactID
		filled = append(filled, it)
	}
	return filled, nil
}
