package httpserver

import (
	"encoding/json"
	"net/http"

	enginehttp "remit/contexts/payroll-core/disbursement-engine/transport/http"
)

func (s *Server) handleAutomationCheck(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.CheckReadyHandler(r.Context())
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAutomationPerform(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.PerformReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.PerformReadyHandler(r.Context(), req)
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
