package disbursementengine

import (
	"log/slog"

	httpadapter "remit/contexts/payroll-core/disbursement-engine/adapters/http"
	"remit/contexts/payroll-core/disbursement-engine/application"
	"remit/contexts/payroll-core/disbursement-engine/ports"
)

type Module struct {
	Scanner  application.Scanner
	Executor application.Executor
	Trigger  application.TriggerAdapter
	Handler  httpadapter.Handler
}

type Dependencies struct {
	Directory     ports.Directory
	Ledger        ports.Ledger
	Dispatcher    ports.Dispatcher
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	EngineAccount string
	PayAsset      string
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	scanner := application.Scanner{
		Directory: deps.Directory,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	executor := application.Executor{
		Directory:     deps.Directory,
		Ledger:        deps.Ledger,
		Dispatcher:    deps.Dispatcher,
		Outbox:        deps.Outbox,
		Clock:         deps.Clock,
		IDGen:         deps.IDGenerator,
		EngineAccount: deps.EngineAccount,
		PayAsset:      deps.PayAsset,
		Logger:        deps.Logger,
	}
	trigger := application.TriggerAdapter{
		Scanner:  scanner,
		Executor: executor,
		Logger:   deps.Logger,
	}
	return Module{
		Scanner:  scanner,
		Executor: executor,
		Trigger:  trigger,
		Handler: httpadapter.Handler{
			Trigger: trigger,
			Logger:  deps.Logger,
		},
	}
}
