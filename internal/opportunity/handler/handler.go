package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/internal/opportunity/domain"
	"opportunity_automation/internal/opportunity/transport"
	"opportunity_automation/platform/httpkit"
	"opportunity_automation/platform/validator"
)

// Dispatcher runs the lifecycle rules for one batch.
type Dispatcher interface {
	Handle(ctx context.Context, batch *automation.Batch) error
}

// Handler handles trigger invocations from the platform.
type Handler struct {
	dispatcher Dispatcher
	val        *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgUnknownPhase     = "unknown phase"
)

// New creates a new trigger handler.
func New(dispatcher Dispatcher, val *validator.Validator) *Handler {
	return &Handler{dispatcher: dispatcher, val: val}
}

// HandleTrigger runs one phase over the posted batch.
// POST /api/v1/opportunities/triggers/:phase
func (h *Handler) HandleTrigger(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	phase, err := domain.ParsePhase(c.Param("phase"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgUnknownPhase, c.Param("phase"))
		return
	}

	var req transport.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	batch, err := automation.NewBatch(phase, transport.ToDomainList(req.Records), transport.ToDomainList(req.Prior))
	if httpkit.HandleError(c, err) {
		return
	}

	if err := h.dispatcher.Handle(c.Request.Context(), batch); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewTriggerResponse(batch))
}

// ListRules reports the rules registered per phase.
// GET /api/v1/opportunities/triggers
func (h *Handler) ListRules(c *gin.Context) {
	phases := domain.AllPhases()
	resp := transport.RulesResponse{Phases: make([]transport.PhaseRules, 0, len(phases))}
	for _, phase := range phases {
		resp.Phases = append(resp.Phases, transport.PhaseRules{
			Phase: phase.String(),
			Rules: automation.RuleNames(phase),
		})
	}
	httpkit.OK(c, resp)
}
