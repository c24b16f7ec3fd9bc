package dispatchgateway

import (
	"log/slog"

	"remit/contexts/settlement/dispatch-gateway/application"
	"remit/contexts/settlement/dispatch-gateway/ports"
)

type Module struct {
	Service application.Service
}

type Dependencies struct {
	Router          ports.Router
	Ledger          ports.Ledger
	Eligibility     ports.EligibilitySet
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	EngineAccount   string
	FeeAsset        string
	GasLimit        uint64
	AllowOutOfOrder bool
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Router:          deps.Router,
			Ledger:          deps.Ledger,
			Eligibility:     deps.Eligibility,
			Outbox:          deps.Outbox,
			Clock:           deps.Clock,
			IDGen:           deps.IDGenerator,
			EngineAccount:   deps.EngineAccount,
			FeeAsset:        deps.FeeAsset,
			GasLimit:        deps.GasLimit,
			AllowOutOfOrder: deps.AllowOutOfOrder,
			Logger:          deps.Logger,
		},
	}
}
