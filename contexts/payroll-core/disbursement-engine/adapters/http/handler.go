package httpadapter

import (
	"context"
	"encoding/base64"
	"log/slog"

	application "remit/contexts/payroll-core/disbursement-engine/application"
	domainerrors "remit/contexts/payroll-core/disbursement-engine/domain/errors"
	httptransport "remit/contexts/payroll-core/disbursement-engine/transport/http"
)

type Handler struct {
	Trigger application.TriggerAdapter
	Logger  *slog.Logger
}

// CheckReadyHandler godoc
// @Summary Check for a ready obligation
// @Description Runs one due-obligation scan and returns an opaque obligation reference when one is ready.
// @Tags disbursement-engine
// @Accept json
// @Produce json
// @Success 200 {object} httptransport.CheckReadyResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/automation/check [post]
func (h Handler) CheckReadyHandler(ctx context.Context) (httptransport.CheckReadyResponse, error) {
	ready, ref, err := h.Trigger.CheckReady(ctx)
	if err != nil {
		return httptransport.CheckReadyResponse{}, err
	}
	resp := httptransport.CheckReadyResponse{Ready: ready}
	if ready {
		resp.ObligationRef = base64.RawURLEncoding.EncodeToString(ref)
	}
	return resp, nil
}

// PerformReadyHandler godoc
// @Summary Settle a ready obligation
// @Description Settles the obligation identified by a reference from a previous check.
// @Tags disbursement-engine
// @Accept json
// @Produce json
// @Param request body httptransport.PerformReadyRequest true "Obligation reference"
// @Success 200 {object} httptransport.PerformReadyResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/automation/perform [post]
func (h Handler) PerformReadyHandler(ctx context.Context, req httptransport.PerformReadyRequest) (httptransport.PerformReadyResponse, error) {
	ref, err := base64.RawURLEncoding.DecodeString(req.ObligationRef)
	if err != nil {
		return httptransport.PerformReadyResponse{}, domainerrors.ErrInvalidObligationRef
	}

	result, err := h.Trigger.PerformReady(ctx, ref)
	if err != nil {
		return httptransport.PerformReadyResponse{}, err
	}

	resp := httptransport.PerformReadyResponse{
		Outcome:     string(result.Outcome),
		OrgID:       result.OrgID,
		MemberID:    result.MemberID,
		Amount:      result.Amount,
		MessageID:   result.MessageID,
		DeferReason: result.DeferReason,
	}
	if !result.NextDueAt.IsZero() {
		resp.NextDueAt = result.NextDueAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return resp, nil
}
