package automation

import (
	"context"
	"fmt"

	"opportunity_automation/internal/opportunity/domain"
	"opportunity_automation/platform/apperr"

	"github.com/google/uuid"
)

const notificationKindDeletion = "opportunity_deleted"

func (d *Dispatcher) createFollowUpTasks(ctx context.Context, inv *invocation) error {
	live := inv.batch.Live()
	if len(live) == 0 {
		return nil
	}

	tasks := make([]domain.Task, 0, len(live))
	for _, it := range live {
		opp := it.Record()
		var contactID *uuid.UUID
		if opp.PrimaryContactID != nil {
			id := *opp.PrimaryContactID
			contactID = &id
		}
		tasks = append(tasks, domain.Task{
			ID:            d.newID(),
			Subject:       domain.FollowUpTaskSubject,
			OpportunityID: opp.ID,
			ContactID:     contactID,
			OwnerID:       opp.OwnerID,
			DueDate:       inv.now.Add(domain.FollowUpTaskDueIn),
			CreatedAt:     inv.now,
		})
	}

	if err := d.store.InsertTasks(ctx, tasks); err != nil {
		return apperr.Wrap(apperr.KindInternal, "task insert failed", err)
	}
	return nil
}

// notifyDeletion sends one message per deleted record to every resolved owner
// address across the batch, not only the record's own owner.
func (d *Dispatcher) notifyDeletion(ctx context.Context, inv *invocation) error {
	live := inv.batch.Live()
	if len(live) == 0 {
		return nil
	}

	owners, err := inv.lookup.Owners(ctx, live)
	if err != nil {
		return err
	}

	recipients := ownerAddresses(owners)
	if len(recipients) == 0 {
		d.log.Debug("no owner addresses resolved for deletion notification", "records", len(live))
		return nil
	}

	messages := make([]Message, 0, len(live))
	for _, it := range live {
		name := it.Record().Name
		messages = append(messages, Message{
			To:      append([]string(nil), recipients...),
			Subject: "Opportunity Deleted : " + name,
			Body:    fmt.Sprintf("Your Opportunity: %s has been deleted.", name),
		})
	}

	if err := d.notifier.Send(ctx, messages); err != nil {
		d.log.NotificationFailed(notificationKindDeletion, len(messages), err)
	}
	return nil
}

// ownerAddresses returns the distinct non-empty emails, ordered by user id.
func ownerAddresses(owners map[uuid.UUID]domain.User) []string {
	ordered := make([]uuid.UUID, 0, len(owners))
	for id := range owners {
		ordered = append(ordered, id)
	}
	sortIDs(ordered)

	seen := make(map[string]struct{}, len(ordered))
	addresses := make([]string, 0, len(ordered))
	for _, id := range ordered {
		email := owners[id].Email
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		addresses = append(addresses, email)
	}
	return addresses
}

func (d *Dispatcher) assignVPSalesContact(ctx context.Context, inv *invocation) error {
	filled, err := backfillPrimaryContact(ctx, inv, domain.RoleVPSales)
	if err != nil {
		return err
	}
	if len(filled) == 0 {
		return nil
	}

	updates := make([]domain.PrimaryContactUpdate, 0, len(filled))
	for _, it := range filled {
		opp := it.Record()
		updates = append(updates, domain.PrimaryContactUpdate{
			OpportunityID: opp.ID,
			ContactID:     *opp.PrimaryContactID,
		})
	}

	if err := d.store.UpdatePrimaryContacts(ctx, updates); err != nil {
		return apperr.Wrap(apperr.KindInternal, "primary contact update failed", err)
	}
	return nil
}
