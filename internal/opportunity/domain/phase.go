package domain

import "fmt"

// Phase is one of the lifecycle moments at which rules run.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseBeforeInsert
	PhaseAfterInsert
	PhaseBeforeUpdate
	PhaseAfterUpdate
	PhaseBeforeDelete
	PhaseAfterDelete
	PhaseAfterUndelete
)

var phaseNames = map[Phase]string{
	PhaseBeforeInsert:  "before-insert",
	PhaseAfterInsert:   "after-insert",
	PhaseBeforeUpdate:  "before-update",
	PhaseAfterUpdate:   "after-update",
	PhaseBeforeDelete:  "before-delete",
	PhaseAfterDelete:   "after-delete",
	PhaseAfterUndelete: "after-undelete",
}

// AllPhases lists every recognised phase in lifecycle order.
func AllPhases() []Phase {
	return []Phase{
		PhaseBeforeInsert,
		PhaseAfterInsert,
		PhaseBeforeUpdate,
		PhaseAfterUpdate,
		PhaseBeforeDelete,
		PhaseAfterDelete,
		PhaseAfterUndelete,
	}
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePhase maps the wire name (e.g. "before-update") to a Phase.
func ParsePhase(value string) (Phase, error) {
	for phase, name := range phaseNames {
		if name == value {
			return phase, nil
		}
	}
	return PhaseUnknown, fmt.Errorf("unknown phase %q", value)
}

// IsBefore reports whether records in this phase are not yet committed.
func (p Phase) IsBefore() bool {
	return p == PhaseBeforeInsert || p == PhaseBeforeUpdate || p == PhaseBeforeDelete
}

// IsAfter reports whether the batch mutation is already guaranteed to commit.
func (p Phase) IsAfter() bool {
	return p == PhaseAfterInsert || p == PhaseAfterUpdate || p == PhaseAfterDelete || p == PhaseAfterUndelete
}

// HasPrior reports whether the phase carries a prior-state snapshot per record.
func (p Phase) HasPrior() bool {
	return p == PhaseBeforeUpdate || p == PhaseAfterUpdate
}

// IsDelete reports whether the batch records are the ones being deleted.
func (p Phase) IsDelete() bool {
	return p == PhaseBeforeDelete || p == PhaseAfterDelete
}
