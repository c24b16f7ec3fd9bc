package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	disbursementengine "remit/contexts/payroll-core/disbursement-engine"
	engineerrors "remit/contexts/payroll-core/disbursement-engine/domain/errors"
	enginehttp "remit/contexts/payroll-core/disbursement-engine/transport/http"
	registryservice "remit/contexts/payroll-core/registry-service"
	registryerrors "remit/contexts/payroll-core/registry-service/domain/errors"
	registryhttp "remit/contexts/payroll-core/registry-service/transport/http"
	gatewayerrors "remit/contexts/settlement/dispatch-gateway/domain/errors"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "remit/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	registry registryservice.Module
	engine   disbursementengine.Module
}

func New(
	registry registryservice.Module,
	engine disbursementengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		registry: registry,
		engine:   engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/organizations", s.handleRegisterOrganization)
	s.mux.HandleFunc("GET /v1/organizations", s.handleListOrganizations)
	s.mux.HandleFunc("GET /v1/organizations/{org_id}", s.handleGetOrganization)
	s.mux.HandleFunc("PUT /v1/organizations/{org_id}/active", s.handleSetOrganizationActive)
	s.mux.HandleFunc("PUT /v1/organizations/{org_id}/controller", s.handleTransferOwnership)
	s.mux.HandleFunc("GET /v1/organizations/{org_id}/members", s.handleListMembers)

	s.mux.HandleFunc("POST /v1/members", s.handleAddMember)
	s.mux.HandleFunc("GET /v1/members/{member_id}", s.handleGetMember)
	s.mux.HandleFunc("PATCH /v1/members/{member_id}", s.handleUpdateMember)
	s.mux.HandleFunc("PUT /v1/members/{member_id}/active", s.handleSetMemberActive)

	s.mux.HandleFunc("PUT /v1/settings/interval", s.handleSetInterval)
	s.mux.HandleFunc("PUT /v1/destinations/{selector}", s.handleAllowDestination)
	s.mux.HandleFunc("DELETE /v1/destinations/{selector}", s.handleRevokeDestination)
	s.mux.HandleFunc("POST /v1/treasury/withdrawals", s.handleWithdraw)

	s.mux.HandleFunc("POST /v1/automation/check", s.handleAutomationCheck)
	s.mux.HandleFunc("POST /v1/automation/perform", s.handleAutomationPerform)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrInvalidInput):
		writeRegistryError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, registryerrors.ErrOrganizationNotFound):
		writeRegistryError(w, http.StatusNotFound, "organization_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrMemberNotFound):
		writeRegistryError(w, http.StatusNotFound, "member_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrControllerAlreadyRegistered):
		writeRegistryError(w, http.StatusConflict, "controller_already_registered", err.Error())
	case errors.Is(err, registryerrors.ErrRegistrationFeeUnpaid):
		writeRegistryError(w, http.StatusPaymentRequired, "registration_fee_unpaid", err.Error())
	case errors.Is(err, registryerrors.ErrWithdrawFailed):
		writeRegistryError(w, http.StatusConflict, "withdraw_failed", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeEngineDomainError(w http.ResponseWriter, err error) {
	var feeErr gatewayerrors.InsufficientFeeBalanceError
	switch {
	case errors.Is(err, engineerrors.ErrInvalidObligationRef):
		writeEngineError(w, http.StatusBadRequest, "invalid_obligation_ref", err.Error())
	case errors.Is(err, engineerrors.ErrOrganizationNotFound),
		errors.Is(err, engineerrors.ErrMemberNotFound):
		writeEngineError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, engineerrors.ErrOrganizationInactive),
		errors.Is(err, engineerrors.ErrMemberInactive),
		errors.Is(err, engineerrors.ErrMemberNotInOrganization),
		errors.Is(err, engineerrors.ErrNotYetDue):
		writeEngineError(w, http.StatusConflict, "settlement_precondition_failed", err.Error())
	case errors.Is(err, gatewayerrors.ErrDestinationNotEligible):
		writeEngineError(w, http.StatusConflict, "destination_not_eligible", err.Error())
	case errors.As(err, &feeErr):
		writeEngineError(w, http.StatusConflict, "insufficient_fee_balance", err.Error())
	case errors.Is(err, engineerrors.ErrEscrowPullFailed),
		errors.Is(err, gatewayerrors.ErrRouterSendFailed):
		writeEngineError(w, http.StatusBadGateway, "dispatch_failed", err.Error())
	default:
		writeEngineError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeEngineError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, enginehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
