package domain

const (
	StageProspecting        = "Prospecting"
	StageQualification      = "Qualification"
	StageNeedsAnalysis      = "Needs Analysis"
	StageValueProposition   = "Value Proposition"
	StageIdDecisionMakers   = "Id. Decision Makers"
	StagePerceptionAnalysis = "Perception Analysis"
	StageProposalPriceQuote = "Proposal/Price Quote"
	StageNegotiationReview  = "Negotiation/Review"
	StageClosedWon          = "Closed Won"
	StageClosedLost         = "Closed Lost"
)

var closedStages = map[string]bool{
	StageClosedWon:  true,
	StageClosedLost: true,
}

// IsClosedStage returns true for the terminal stages.
func IsClosedStage(stage string) bool {
	return closedStages[stage]
}
