package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"remit/contexts/payroll-core/registry-service/application"
	"remit/contexts/payroll-core/registry-service/domain/entities"
	"remit/contexts/payroll-core/registry-service/ports"
	httptransport "remit/contexts/payroll-core/registry-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// RegisterOrganizationHandler godoc
// @Summary Register an organization
// @Description Registers a new organization under the calling controller and pulls the one-time registration fee.
// @Tags registry-service
// @Accept json
// @Produce json
// @Param request body httptransport.RegisterOrganizationRequest true "Organization details"
// @Success 201 {object} httptransport.RegisterOrganizationResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/organizations [post]
func (h Handler) RegisterOrganizationHandler(ctx context.Context, req httptransport.RegisterOrganizationRequest) (httptransport.RegisterOrganizationResponse, error) {
	org, err := h.Service.RegisterOrganization(ctx, ports.RegisterOrganizationInput{
		Controller: req.Controller,
		Name:       req.Name,
	})
	if err != nil {
		return httptransport.RegisterOrganizationResponse{}, err
	}
	return httptransport.RegisterOrganizationResponse{Organization: mapOrganization(org)}, nil
}

// GetOrganizationHandler godoc
// @Summary Get an organization
// @Tags registry-service
// @Produce json
// @Param org_id path int true "Organization ID"
// @Success 200 {object} httptransport.GetOrganizationResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/organizations/{org_id} [get]
func (h Handler) GetOrganizationHandler(ctx context.Context, orgID uint64) (httptransport.GetOrganizationResponse, error) {
	org, err := h.Service.GetOrganization(ctx, orgID)
	if err != nil {
		return httptransport.GetOrganizationResponse{}, err
	}
	return httptransport.GetOrganizationResponse{Organization: mapOrganization(org)}, nil
}

// ListOrganizationsHandler godoc
// @Summary List organizations
// @Tags registry-service
// @Produce json
// @Success 200 {object} httptransport.ListOrganizationsResponse
// @Router /v1/organizations [get]
func (h Handler) ListOrganizationsHandler(ctx context.Context) (httptransport.ListOrganizationsResponse, error) {
	orgs, err := h.Service.ListOrganizations(ctx)
	if err != nil {
		return httptransport.ListOrganizationsResponse{}, err
	}
	items := make([]httptransport.OrganizationDTO, 0, len(orgs))
	for _, org := range orgs {
		items = append(items, mapOrganization(org))
	}
	return httptransport.ListOrganizationsResponse{Items: items}, nil
}

// SetOrganizationActiveHandler godoc
// @Summary Activate or deactivate an organization
// @Tags registry-service
// @Accept json
// @Produce json
// @Param org_id path int true "Organization ID"
// @Param request body httptransport.SetActiveRequest true "Desired active state"
// @Success 200 {object} httptransport.GetOrganizationResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/organizations/{org_id}/active [put]
func (h Handler) SetOrganizationActiveHandler(ctx context.Context, orgID uint64, req httptransport.SetActiveRequest) (httptransport.GetOrganizationResponse, error) {
	org, err := h.Service.SetOrganizationActive(ctx, orgID, req.Active)
	if err != nil {
		return httptransport.GetOrganizationResponse{}, err
	}
	return httptransport.GetOrganizationResponse{Organization: mapOrganization(org)}, nil
}

// TransferOwnershipHandler godoc
// @Summary Transfer organization control
// @Description Moves an organization under a new controller. The new controller must not already control one.
// @Tags registry-service
// @Accept json
// @Produce json
// @Param org_id path int true "Organization ID"
// @Param request body httptransport.TransferOwnershipRequest true "New controller"
// @Success 200 {object} httptransport.GetOrganizationResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/organizations/{org_id}/controller [put]
func (h Handler) TransferOwnershipHandler(ctx context.Context, orgID uint64, req httptransport.TransferOwnershipRequest) (httptransport.GetOrganizationResponse, error) {
	org, err := h.Service.TransferOwnership(ctx, orgID, req.NewController)
	if err != nil {
		return httptransport.GetOrganizationResponse{}, err
	}
	return httptransport.GetOrganizationResponse{Organization: mapOrganization(org)}, nil
}

// AddMemberHandler godoc
// @Summary Add a member
// @Description Adds a member to an organization with a recurring payout obligation.
// @Tags registry-service
// @Accept json
// @Produce json
// @Param request body httptransport.AddMemberRequest true "Member details"
// @Success 201 {object} httptransport.MemberResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/members [post]
func (h Handler) AddMemberHandler(ctx context.Context, req httptransport.AddMemberRequest) (httptransport.MemberResponse, error) {
	member, err := h.Service.AddMember(ctx, ports.AddMemberInput{
		OrgID:    req.OrgID,
		Name:     req.Name,
		Payout:   req.Payout,
		Selector: req.DestinationSelector,
		Amount:   req.Amount,
	})
	if err != nil {
		return httptransport.MemberResponse{}, err
	}
	return httptransport.MemberResponse{Member: mapMember(member)}, nil
}

// GetMemberHandler godoc
// @Summary Get a member
// @Tags registry-service
// @Produce json
// @Param member_id path int true "Member ID"
// @Success 200 {object} httptransport.MemberResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/members/{member_id} [get]
func (h Handler) GetMemberHandler(ctx context.Context, memberID uint64) (httptransport.MemberResponse, error) {
	member, err := h.Service.GetMember(ctx, memberID)
	if err != nil {
		return httptransport.MemberResponse{}, err
	}
	return httptransport.MemberResponse{Member: mapMember(member)}, nil
}

// ListMembersHandler godoc
// @Summary List an organization's members
// @Tags registry-service
// @Produce json
// @Param org_id path int true "Organization ID"
// @Success 200 {object} httptransport.ListMembersResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/organizations/{org_id}/members [get]
func (h Handler) ListMembersHandler(ctx context.Context, orgID uint64) (httptransport.ListMembersResponse, error) {
	members, err := h.Service.ListMembers(ctx, orgID)
	if err != nil {
		return httptransport.ListMembersResponse{}, err
	}
	items := make([]httptransport.MemberDTO, 0, len(members))
	for _, member := range members {
		items = append(items, mapMember(member))
	}
	return httptransport.ListMembersResponse{Items: items}, nil
}

// UpdateMemberHandler godoc
// @Summary Update a member
// @Description Applies a partial update to a member. The due schedule is never touched here.
// @Tags registry-service
// @Accept json
// @Produce json
// @Param member_id path int true "Member ID"
// @Param request body httptransport.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} httptransport.MemberResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/members/{member_id} [patch]
func (h Handler) UpdateMemberHandler(ctx context.Context, memberID uint64, req httptransport.UpdateMemberRequest) (httptransport.MemberResponse, error) {
	member, err := h.Service.UpdateMember(ctx, memberID, ports.UpdateMemberInput{
		Name:     req.Name,
		Payout:   req.Payout,
		Selector: req.DestinationSelector,
		Amount:   req.Amount,
	})
	if err != nil {
		return httptransport.MemberResponse{}, err
	}
	return httptransport.MemberResponse{Member: mapMember(member)}, nil
}

// SetMemberActiveHandler godoc
// @Summary Activate or deactivate a member
// @Tags registry-service
// @Accept json
// @Produce json
// @Param member_id path int true "Member ID"
// @Param request body httptransport.SetActiveRequest true "Desired active state"
// @Success 200 {object} httptransport.MemberResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/members/{member_id}/active [put]
func (h Handler) SetMemberActiveHandler(ctx context.Context, memberID uint64, req httptransport.SetActiveRequest) (httptransport.MemberResponse, error) {
	member, err := h.Service.SetMemberActive(ctx, memberID, req.Active)
	if err != nil {
		return httptransport.MemberResponse{}, err
	}
	return httptransport.MemberResponse{Member: mapMember(member)}, nil
}

// SetIntervalHandler godoc
// @Summary Set the global disbursement interval
// @Tags registry-service
// @Accept json
// @Produce json
// @Param request body httptransport.SetIntervalRequest true "Interval in seconds"
// @Success 204
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/settings/interval [put]
func (h Handler) SetIntervalHandler(ctx context.Context, req httptransport.SetIntervalRequest) error {
	return h.Service.SetInterval(ctx, time.Duration(req.IntervalSeconds)*time.Second)
}

// AllowDestinationHandler godoc
// @Summary Allow a destination domain
// @Tags registry-service
// @Produce json
// @Param selector path int true "Destination selector"
// @Success 204
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/destinations/{selector} [put]
func (h Handler) AllowDestinationHandler(ctx context.Context, selector uint64) error {
	return h.Service.AllowDestination(ctx, selector)
}

// RevokeDestinationHandler godoc
// @Summary Revoke a destination domain
// @Tags registry-service
// @Produce json
// @Param selector path int true "Destination selector"
// @Success 204
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/destinations/{selector} [delete]
func (h Handler) RevokeDestinationHandler(ctx context.Context, selector uint64) error {
	return h.Service.RevokeDestination(ctx, selector)
}

// WithdrawHandler godoc
// @Summary Withdraw treasury funds
// @Description Moves accumulated treasury balances to an operator account.
// @Tags registry-service
// @Accept json
// @Produce json
// @Param request body httptransport.WithdrawRequest true "Withdrawal details"
// @Success 204
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/treasury/withdrawals [post]
func (h Handler) WithdrawHandler(ctx context.Context, req httptransport.WithdrawRequest) error {
	return h.Service.Withdraw(ctx, req.Asset, req.To, req.Amount)
}

func mapOrganization(org entities.Organization) httptransport.OrganizationDTO {
	return httptransport.OrganizationDTO{
		OrgID:      org.OrgID,
		Controller: org.Controller,
		Name:       org.Name,
		Active:     org.Active,
		CreatedAt:  org.CreatedAt.UTC().Format(time.RFC3339),
		MemberIDs:  append([]uint64(nil), org.MemberIDs...),
	}
}

func mapMember(member entities.Member) httptransport.MemberDTO {
	return httptransport.MemberDTO{
		MemberID:            member.MemberID,
		OrgID:               member.OrgID,
		Name:                member.Name,
		Payout:              member.Payout,
		DestinationKind:     string(member.Destination.Kind),
		DestinationSelector: member.Destination.Selector,
		Amount:              member.Amount,
		NextDueAt:           member.NextDueAt.UTC().Format(time.RFC3339),
		Active:              member.Active,
	}
}
