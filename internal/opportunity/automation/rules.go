package automation

import (
	"context"
	"time"

	"opportunity_automation/internal/opportunity/domain"
)

// capability tags what a rule is allowed to do.
type capability int

const (
	// capValidate rules attach rejections and never mutate.
	capValidate capability = iota + 1
	// capMutate rules change live records in place and make no writes.
	capMutate
	// capSideEffect rules write to other entities; after-phases only.
	capSideEffect
)

func (c capability) String() string {
	switch c {
	case capValidate:
		return "validate"
	case capMutate:
		return "mutate"
	case capSideEffect:
		return "side_effect"
	default:
		return "unknown"
	}
}

// invocation is the state shared by the rules of one Handle call.
type invocation struct {
	batch  *Batch
	lookup *lookup
	now    time.Time
}

type rule struct {
	name       string
	capability capability
	run        func(d *Dispatcher, ctx context.Context, inv *invocation) error
}

// phaseRules is the ordered rule table. Within a phase, validation runs
// before mutation, and mutation before side effects.
var phaseRules = map[domain.Phase][]rule{
	domain.PhaseBeforeInsert: {
		{name: "default_type", capability: capMutate, run: (*Dispatcher).applyDefaultType},
	},
	domain.PhaseAfterInsert: {
		{name: "follow_up_task", capability: capSideEffect, run: (*Dispatcher).createFollowUpTasks},
	},
	domain.PhaseBeforeUpdate: {
		{name: "amount_floor", capability: capValidate, run: (*Dispatcher).checkAmountFloor},
		{name: "stage_change_annotation", capability: capMutate, run: (*Dispatcher).annotateStageChange},
		{name: "ceo_primary_contact", capability: capMutate, run: (*Dispatcher).backfillCEOContact},
	},
	domain.PhaseAfterUpdate: {},
	domain.PhaseBeforeDelete: {
		{name: "banking_closed_won_guard", capability: capValidate, run: (*Dispatcher).guardBankingClosedWon},
	},
	domain.PhaseAfterDelete: {
		{name: "deletion_notification", capability: capSideEffect, run: (*Dispatcher).notifyDeletion},
	},
	domain.PhaseAfterUndelete: {
		{name: "vp_sales_primary_contact", capability: capSideEffect, run: (*Dispatcher).assignVPSalesContact},
	},
}

// RuleNames lists the rule names registered for a phase, in run order.
func RuleNames(phase domain.Phase) []string {
	rules := phaseRules[phase]
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.name)
	}
	return names
}
