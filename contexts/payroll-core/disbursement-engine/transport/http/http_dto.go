package httptransport

type CheckReadyResponse struct {
	Ready         bool   `json:"ready"`
	ObligationRef string `json:"obligation_ref,omitempty"`
}

type PerformReadyRequest struct {
	ObligationRef string `json:"obligation_ref"`
}

type PerformReadyResponse struct {
	Outcome     string `json:"outcome"`
	OrgID       uint64 `json:"org_id"`
	MemberID    uint64 `json:"member_id"`
	Amount      uint64 `json:"amount"`
	MessageID   string `json:"message_id,omitempty"`
	DeferReason string `json:"defer_reason,omitempty"`
	NextDueAt   string `json:"next_due_at,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
