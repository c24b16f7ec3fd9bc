package registryservice

import (
	"log/slog"

	httpadapter "remit/contexts/payroll-core/registry-service/adapters/http"
	"remit/contexts/payroll-core/registry-service/application"
	"remit/contexts/payroll-core/registry-service/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
}

type Dependencies struct {
	Repository      ports.Repository
	Ledger          ports.Ledger
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	EngineAccount   string
	TreasuryAccount string
	PayAsset        string
	RegistrationFee uint64
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:            deps.Repository,
		Ledger:          deps.Ledger,
		Outbox:          deps.Outbox,
		Clock:           deps.Clock,
		IDGen:           deps.IDGenerator,
		EngineAccount:   deps.EngineAccount,
		TreasuryAccount: deps.TreasuryAccount,
		PayAsset:        deps.PayAsset,
		RegistrationFee: deps.RegistrationFee,
		Logger:          deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}
