package httptransport

type RegisterOrganizationRequest struct {
	Controller string `json:"controller"`
	Name       string `json:"name"`
}

type OrganizationDTO struct {
	OrgID      uint64   `json:"org_id"`
	Controller string   `json:"controller"`
	Name       string   `json:"name"`
	Active     bool     `json:"active"`
	CreatedAt  string   `json:"created_at"`
	MemberIDs  []uint64 `json:"member_ids"`
}

type RegisterOrganizationResponse struct {
	Organization OrganizationDTO `json:"organization"`
}

type GetOrganizationResponse struct {
	Organization OrganizationDTO `json:"organization"`
}

type ListOrganizationsResponse struct {
	Items []OrganizationDTO `json:"items"`
}

type AddMemberRequest struct {
	OrgID               uint64 `json:"org_id"`
	Name                string `json:"name"`
	Payout              string `json:"payout"`
	DestinationSelector uint64 `json:"destination_selector"`
	Amount              uint64 `json:"amount"`
}

type MemberDTO struct {
	MemberID            uint64 `json:"member_id"`
	OrgID               uint64 `json:"org_id"`
	Name                string `json:"name"`
	Payout              string `json:"payout"`
	DestinationKind     string `json:"destination_kind"`
	DestinationSelector uint64 `json:"destination_selector"`
	Amount              uint64 `json:"amount"`
	NextDueAt           string `json:"next_due_at"`
	Active              bool   `json:"active"`
}

type MemberResponse struct {
	Member MemberDTO `json:"member"`
}

type ListMembersResponse struct {
	Items []MemberDTO `json:"items"`
}

// UpdateMemberRequest carries partial updates; absent fields stay unchanged.
type UpdateMemberRequest struct {
	Name                *string `json:"name,omitempty"`
	Payout              *string `json:"payout,omitempty"`
	DestinationSelector *uint64 `json:"destination_selector,omitempty"`
	Amount              *uint64 `json:"amount,omitempty"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

type TransferOwnershipRequest struct {
	NewController string `json:"new_controller"`
}

type SetIntervalRequest struct {
	IntervalSeconds uint64 `json:"interval_seconds"`
}

type WithdrawRequest struct {
	Asset  string `json:"asset"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
