// Package solver wires the solver module's service and handler into fx.
package solver

import (
	"go.uber.org/fx"

	"lpdss/internal/module/solver/handler"
	"lpdss/internal/module/solver/service"
)

// Module provides the solver service and handler for fx injection.
var Module = fx.Module("solver",
	fx.Provide(
		service.NewService,
		handler.NewHandler,
	),
)
