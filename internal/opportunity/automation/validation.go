package automation

import (
	"context"

	"opportunity_automation/internal/opportunity/domain"
)

func (d *Dispatcher) checkAmountFloor(_ context.Context, inv *invocation) error {
	for _, it := range inv.batch.Live() {
		if it.New.AmountCents < domain.AmountFloorCents {
			d.reject(inv, it, "amount_floor", domain.MsgAmountBelowFloor)
		}
	}
	return nil
}

func (d *Dispatcher) guardBankingClosedWon(ctx context.Context, inv *invocation) error {
	live := inv.batch.Live()
	accounts, err := inv.lookup.Accounts(ctx, live)
	if err != nil {
		return err
	}

	for _, it := range live {
		opp := it.Record()
		if !opp.IsClosed() || opp.StageName != domain.StageClosedWon || opp.AccountID == nil {
			continue
		}
		account, ok := accounts[*opp.AccountID]
		if ok && account.Industry == domain.IndustryBanking {
			d.reject(inv, it, "banking_closed_won_guard", domain.MsgBankingClosedWonDelete)
		}
	}
	return nil
}

func (d *Dispatcher) reject(inv *invocation, it *Item, rule, message string) {
	it.Reject(rule, message)
	d.log.RecordRejected(inv.batch.Phase.String(), it.Record().ID.String(), rule, message)
}
