// Package opportunity provides the opportunity automation bounded context module.
package opportunity

import (
	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/internal/opportunity/handler"
	"opportunity_automation/internal/opportunity/repository"
	apphttp "opportunity_automation/internal/http"
	"opportunity_automation/platform/logger"
	"opportunity_automation/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the opportunity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the opportunity module.
func NewModule(pool *pgxpool.Pool, notifier automation.Notifier, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	dispatcher := automation.NewDispatcher(repo, notifier, log)

	return &Module{
		handler: handler.New(dispatcher, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "opportunity"
}

// RegisterRoutes mounts trigger routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	triggers := ctx.Protected.Group("/opportunities/triggers")
	triggers.GET("", m.handler.ListRules)
	triggers.POST("/:phase", m.handler.HandleTrigger)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
