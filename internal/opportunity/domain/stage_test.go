package domain

import "testing"

func TestIsClosedStage(t *testing.T) {
	if !IsClosedStage(StageClosedWon) || !IsClosedStage(StageClosedLost) {
		t.Fatal("expected both terminal stages to be closed")
	}
	if IsClosedStage(StageNegotiationReview) {
		t.Fatal("expected an open stage not to be closed")
	}
	if IsClosedStage("closed won") {
		t.Fatal("expected stage matching to be case-sensitive")
	}
}
