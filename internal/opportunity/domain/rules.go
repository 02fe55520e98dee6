package domain

import "time"

const (
	// AmountFloorCents is the minimum amount an updated opportunity may carry (5000 units).
	AmountFloorCents int64 = 500000

	// DefaultOpportunityType is assigned on insert when no type is set.
	DefaultOpportunityType = "New Customer"

	// IndustryBanking is matched exactly (case-sensitive) by the deletion guard.
	IndustryBanking = "Banking"

	// RoleCEO is the contact title used by the update-phase backfill.
	RoleCEO = "CEO"
	// RoleVPSales is the contact title used by the undelete-phase backfill.
	RoleVPSales = "VP Sales"

	// FollowUpTaskSubject is the subject of the companion task created on insert.
	FollowUpTaskSubject = "Call Primary Contact"
	// FollowUpTaskDueIn is the offset from creation time to the task due date.
	FollowUpTaskDueIn = 3 * 24 * time.Hour

	MsgAmountBelowFloor       = "Opportunity amount must be greater than 5000"
	MsgBankingClosedWonDelete = "Cannot delete closed opportunity for a banking account that is won"
)
