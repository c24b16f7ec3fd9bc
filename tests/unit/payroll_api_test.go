package unit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	enginehttp "remit/contexts/payroll-core/disbursement-engine/transport/http"
	registryhttp "remit/contexts/payroll-core/registry-service/transport/http"
	"remit/internal/app/bootstrap"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REGISTRATION_FEE", "0")
	t.Setenv("DISBURSE_INTERVAL", "1h")

	app, err := bootstrap.BuildAPI()
	if err != nil {
		t.Fatalf("build api failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response failed: %v", method, path, err)
		}
	}
	return rec
}

func TestOrganizationAndMemberLifecycleOverHTTP(t *testing.T) {
	handler := newTestAPI(t)

	var registered registryhttp.RegisterOrganizationResponse
	rec := doJSON(t, handler, http.MethodPost, "/v1/organizations", registryhttp.RegisterOrganizationRequest{
		Controller: "ctrl-1",
		Name:       "Acme",
	}, &registered)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if registered.Organization.OrgID != 1 || !registered.Organization.Active {
		t.Fatalf("unexpected organization %+v", registered.Organization)
	}

	var member registryhttp.MemberResponse
	rec = doJSON(t, handler, http.MethodPost, "/v1/members", registryhttp.AddMemberRequest{
		OrgID:  registered.Organization.OrgID,
		Name:   "Mira",
		Payout: "payout-1",
		Amount: 250,
	}, &member)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if member.Member.DestinationKind != "local" {
		t.Fatalf("selector 0 must map to a local destination, got %q", member.Member.DestinationKind)
	}
	if member.Member.NextDueAt == "" {
		t.Fatalf("expected a scheduled next due timestamp")
	}

	var fetched registryhttp.GetOrganizationResponse
	rec = doJSON(t, handler, http.MethodGet, "/v1/organizations/1", nil, &fetched)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(fetched.Organization.MemberIDs) != 1 || fetched.Organization.MemberIDs[0] != member.Member.MemberID {
		t.Fatalf("expected the member in scan order, got %v", fetched.Organization.MemberIDs)
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/members/999", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown member, got %d", rec.Code)
	}
}

func TestDestinationEligibilityOverHTTP(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(t, handler, http.MethodPut, "/v1/destinations/7", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodDelete, "/v1/destinations/7", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPut, "/v1/destinations/zero", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-numeric selector, got %d", rec.Code)
	}
}

func TestAutomationEndpointsOverHTTP(t *testing.T) {
	handler := newTestAPI(t)

	// A fresh registry has nothing due.
	var check enginehttp.CheckReadyResponse
	rec := doJSON(t, handler, http.MethodPost, "/v1/automation/check", nil, &check)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if check.Ready || check.ObligationRef != "" {
		t.Fatalf("expected no ready obligation, got %+v", check)
	}

	rec = doJSON(t, handler, http.MethodPost, "/v1/automation/perform", enginehttp.PerformReadyRequest{
		ObligationRef: "not-a-ref",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed obligation ref, got %d: %s", rec.Code, rec.Body.String())
	}
	var errResp enginehttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}
	if errResp.Code != "invalid_obligation_ref" {
		t.Fatalf("unexpected error code %q", errResp.Code)
	}
}

func TestMalformedJSONRejectedOverHTTP(t *testing.T) {
	handler := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/organizations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}
