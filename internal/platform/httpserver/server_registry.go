package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	registryhttp "remit/contexts/payroll-core/registry-service/transport/http"
)

func (s *Server) handleRegisterOrganization(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.RegisterOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.RegisterOrganizationHandler(r.Context(), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ListOrganizationsHandler(r.Context())
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(w, r, "org_id")
	if !ok {
		return
	}
	resp, err := s.registry.Handler.GetOrganizationHandler(r.Context(), orgID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetOrganizationActive(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(w, r, "org_id")
	if !ok {
		return
	}
	var req registryhttp.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.SetOrganizationActiveHandler(r.Context(), orgID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(w, r, "org_id")
	if !ok {
		return
	}
	var req registryhttp.TransferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.TransferOwnershipHandler(r.Context(), orgID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(w, r, "org_id")
	if !ok {
		return
	}
	resp, err := s.registry.Handler.ListMembersHandler(r.Context(), orgID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.AddMemberHandler(r.Context(), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := parseID(w, r, "member_id")
	if !ok {
		return
	}
	resp, err := s.registry.Handler.GetMemberHandler(r.Context(), memberID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := parseID(w, r, "member_id")
	if !ok {
		return
	}
	var req registryhttp.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.UpdateMemberHandler(r.Context(), memberID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetMemberActive(w http.ResponseWriter, r *http.Request) {
	memberID, ok := parseID(w, r, "member_id")
	if !ok {
		return
	}
	var req registryhttp.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.SetMemberActiveHandler(r.Context(), memberID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetInterval(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.SetIntervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.registry.Handler.SetIntervalHandler(r.Context(), req); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAllowDestination(w http.ResponseWriter, r *http.Request) {
	selector, ok := parseID(w, r, "selector")
	if !ok {
		return
	}
	if err := s.registry.Handler.AllowDestinationHandler(r.Context(), selector); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRevokeDestination(w http.ResponseWriter, r *http.Request) {
	selector, ok := parseID(w, r, "selector")
	if !ok {
		return
	}
	if err := s.registry.Handler.RevokeDestinationHandler(r.Context(), selector); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.registry.Handler.WithdrawHandler(r.Context(), req); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_path_value", name+" must be a positive integer")
		return 0, false
	}
	return value, true
}
