package automation

import (
	"fmt"

	"opportunity_automation/internal/opportunity/domain"
	"opportunity_automation/platform/apperr"

	"github.com/google/uuid"
)

// Rejection is a validation failure attached to one record. It blocks only
// that record's commit.
type Rejection struct {
	RecordID uuid.UUID `json:"recordId"`
	Index    int       `json:"index"`
	Rule     string    `json:"rule"`
	Message  string    `json:"message"`
}

// Item pairs a record's prior and current state. Old is nil for insert and
// undelete phases, New is nil for delete phases.
type Item struct {
	Old *domain.Opportunity
	New *domain.Opportunity

	index      int
	rejections []Rejection
}

// Record returns the state rules act on: New when present, otherwise Old.
func (it *Item) Record() *domain.Opportunity {
	if it.New != nil {
		return it.New
	}
	return it.Old
}

// Reject attaches a rejection to this item.
func (it *Item) Reject(rule, message string) {
	it.rejections = append(it.rejections, Rejection{
		RecordID: it.Record().ID,
		Index:    it.index,
		Rule:     rule,
		Message:  message,
	})
}

// Rejected reports whether any rule has rejected this item.
func (it *Item) Rejected() bool {
	return len(it.rejections) > 0
}

// Batch is the set of records presented to one phase invocation.
type Batch struct {
	Phase domain.Phase
	Items []*Item
}

// NewBatch pairs records with their prior state by identifier. Prior state is
// required for every record in update phases and ignored elsewhere. Only
// before-insert records may arrive without an identifier.
func NewBatch(phase domain.Phase, records []domain.Opportunity, prior []domain.Opportunity) (*Batch, error) {
	if phase == domain.PhaseUnknown {
		return nil, apperr.BadRequest("unknown phase")
	}

	priorByID := make(map[uuid.UUID]domain.Opportunity, len(prior))
	if phase.HasPrior() {
		for _, p := range prior {
			priorByID[p.ID] = p
		}
	}

	seen := make(map[uuid.UUID]struct{}, len(records))
	items := make([]*Item, 0, len(records))
	for i := range records {
		record := records[i]
		if record.ID == uuid.Nil && phase != domain.PhaseBeforeInsert {
			return nil, apperr.BadRequest(fmt.Sprintf("record %d has no id", i))
		}
		if record.ID != uuid.Nil {
			if _, dup := seen[record.ID]; dup {
				return nil, apperr.BadRequest(fmt.Sprintf("duplicate record %s in batch", record.ID))
			}
			seen[record.ID] = struct{}{}
		}

		item := &Item{index: i}
		switch {
		case phase.IsDelete():
			item.Old = &record
		case phase.HasPrior():
			old, ok := priorByID[record.ID]
			if !ok {
				return nil, apperr.BadRequest(fmt.Sprintf("missing prior state for record %s", record.ID))
			}
			item.Old = &old
			item.New = &record
		default:
			item.New = &record
		}
		items = append(items, item)
	}

	return &Batch{Phase: phase, Items: items}, nil
}

// Live returns the items no rule has rejected, in batch order.
func (b *Batch) Live() []*Item {
	live := make([]*Item, 0, len(b.Items))
	for _, it := range b.Items {
		if !it.Rejected() {
			live = append(live, it)
		}
	}
	return live
}

// Rejections returns every rejection in batch order.
func (b *Batch) Rejections() []Rejection {
	var out []Rejection
	for _, it := range b.Items {
		out = append(out, it.rejections...)
	}
	return out
}

// Records returns the current state of every record, rejected ones included.
func (b *Batch) Records() []domain.Opportunity {
	out := make([]domain.Opportunity, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, *it.Record())
	}
	return out
}
