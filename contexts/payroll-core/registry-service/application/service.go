package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	domainerrors "remit/contexts/payroll-core/registry-service/domain/errors"
	"remit/contexts/payroll-core/registry-service/domain/entities"
	"remit/contexts/payroll-core/registry-service/ports"
)

const sourceService = "registry-service"

type Service struct {
	Repo            ports.Repository
	Ledger          ports.Ledger
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	EngineAccount   string
	TreasuryAccount string
	PayAsset        string
	RegistrationFee uint64
	Logger          *slog.Logger
}

// RegisterOrganization creates an organization for a controller account,
// collecting the one-time registration fee into the treasury first. A
// controller owns at most one organization.
func (s Service) RegisterOrganization(ctx context.Context, input ports.RegisterOrganizationInput) (entities.Organization, error) {
	controller := strings.TrimSpace(input.Controller)
	name := strings.TrimSpace(input.Name)
	if controller == "" || name == "" {
		return entities.Organization{}, domainerrors.ErrInvalidInput
	}

	if _, exists, err := s.Repo.GetOrganizationByController(ctx, controller); err != nil {
		return entities.Organization{}, err
	} else if exists {
		return entities.Organization{}, domainerrors.ErrControllerAlreadyRegistered
	}

	if s.RegistrationFee > 0 {
		if err := s.Ledger.TransferFrom(ctx, s.EngineAccount, controller, s.TreasuryAccount, s.PayAsset, s.RegistrationFee); err != nil {
			return entities.Organization{}, fmt.Errorf("%w: %v", domainerrors.ErrRegistrationFeeUnpaid, err)
		}
	}

	org, err := s.Repo.CreateOrganization(ctx, entities.Organization{
		Controller: controller,
		Name:       name,
		Active:     true,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return entities.Organization{}, err
	}

	s.appendEvent(ctx, "organization.registered", strconv.FormatUint(org.OrgID, 10), map[string]any{
		"org_id":     org.OrgID,
		"controller": org.Controller,
		"name":       org.Name,
	})

	ResolveLogger(s.Logger).Info("organization registered",
		"event", "organization_registered",
		"module", "payroll-core/registry-service",
		"layer", "application",
		"org_id", org.OrgID,
		"controller", org.Controller,
	)
	return org, nil
}

// AddMember appends a member to the organization's scan order. The first due
// timestamp is one interval away from now.
func (s Service) AddMember(ctx context.Context, input ports.AddMemberInput) (entities.Member, error) {
	name := strings.TrimSpace(input.Name)
	payout := strings.TrimSpace(input.Payout)
	if name == "" || payout == "" || input.Amount == 0 {
		return entities.Member{}, domainerrors.ErrInvalidInput
	}
	if _, err := s.Repo.GetOrganization(ctx, input.OrgID); err != nil {
		return entities.Member{}, err
	}

	settings, err := s.Repo.GetSettings(ctx)
	if err != nil {
		return entities.Member{}, err
	}

	member, err := s.Repo.CreateMember(ctx, entities.Member{
		OrgID:       input.OrgID,
		Name:        name,
		Payout:      payout,
		Destination: entities.DestinationFromSelector(input.Selector),
		Amount:      input.Amount,
		NextDueAt:   s.now().Add(settings.Interval),
		Active:      true,
	})
	if err != nil {
		return entities.Member{}, err
	}

	s.appendEvent(ctx, "member.added", strconv.FormatUint(member.OrgID, 10), map[string]any{
		"org_id":    member.OrgID,
		"member_id": member.MemberID,
		"amount":    member.Amount,
		"selector":  member.Destination.Selector,
	})

	ResolveLogger(s.Logger).Info("member added",
		"event", "member_added",
		"module", "payroll-core/registry-service",
		"layer", "application",
		"org_id", member.OrgID,
		"member_id", member.MemberID,
		"next_due_at", member.NextDueAt,
	)
	return member, nil
}

func (s Service) UpdateMember(ctx context.Context, memberID uint64, input ports.UpdateMemberInput) (entities.Member, error) {
	member, err := s.Repo.GetMember(ctx, memberID)
	if err != nil {
		return entities.Member{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return entities.Member{}, domainerrors.ErrInvalidInput
		}
		member.Name = name
	}
	if input.Payout != nil {
		payout := strings.TrimSpace(*input.Payout)
		if payout == "" {
			return entities.Member{}, domainerrors.ErrInvalidInput
		}
		member.Payout = payout
	}
	if input.Selector != nil {
		member.Destination = entities.DestinationFromSelector(*input.Selector)
	}
	if input.Amount != nil {
		if *input.Amount == 0 {
			return entities.Member{}, domainerrors.ErrInvalidInput
		}
		member.Amount = *input.Amount
	}

	if err := s.Repo.UpdateMember(ctx, member); err != nil {
		return entities.Member{}, err
	}

	s.appendEvent(ctx, "member.updated", strconv.FormatUint(member.OrgID, 10), map[string]any{
		"org_id":    member.OrgID,
		"member_id": member.MemberID,
		"amount":    member.Amount,
		"selector":  member.Destination.Selector,
	})
	return member, nil
}

func (s Service) SetMemberActive(ctx context.Context, memberID uint64, active bool) (entities.Member, error) {
	member, err := s.Repo.GetMember(ctx, memberID)
	if err != nil {
		return entities.Member{}, err
	}
	if member.Active == active {
		return member, nil
	}
	member.Active = active
	if err := s.Repo.UpdateMember(ctx, member); err != nil {
		return entities.Member{}, err
	}

	eventType := "member.deactivated"
	if active {
		eventType = "member.activated"
	}
	s.appendEvent(ctx, eventType, strconv.FormatUint(member.OrgID, 10), map[string]any{
		"org_id":    member.OrgID,
		"member_id": member.MemberID,
	})
	return member, nil
}

func (s Service) SetOrganizationActive(ctx context.Context, orgID uint64, active bool) (entities.Organization, error) {
	org, err := s.Repo.GetOrganization(ctx, orgID)
	if err != nil {
		return entities.Organization{}, err
	}
	if org.Active == active {
		return org, nil
	}
	org.Active = active
	if err := s.Repo.UpdateOrganization(ctx, org); err != nil {
		return entities.Organization{}, err
	}

	eventType := "organization.deactivated"
	if active {
		eventType = "organization.activated"
	}
	s.appendEvent(ctx, eventType, strconv.FormatUint(org.OrgID, 10), map[string]any{
		"org_id": org.OrgID,
	})
	return org, nil
}

// TransferOwnership moves an organization to a new controller account. The
// one-organization-per-controller invariant holds across the transfer.
func (s Service) TransferOwnership(ctx context.Context, orgID uint64, newController string) (entities.Organization, error) {
	newController = strings.TrimSpace(newController)
	if newController == "" {
		return entities.Organization{}, domainerrors.ErrInvalidInput
	}

	org, err := s.Repo.GetOrganization(ctx, orgID)
	if err != nil {
		return entities.Organization{}, err
	}
	if org.Controller == newController {
		return org, nil
	}

	if _, exists, err := s.Repo.GetOrganizationByController(ctx, newController); err != nil {
		return entities.Organization{}, err
	} else if exists {
		return entities.Organization{}, domainerrors.ErrControllerAlreadyRegistered
	}

	previous := org.Controller
	org.Controller = newController
	if err := s.Repo.UpdateOrganization(ctx, org); err != nil {
		return entities.Organization{}, err
	}

	s.appendEvent(ctx, "organization.ownership_transferred", strconv.FormatUint(org.OrgID, 10), map[string]any{
		"org_id":              org.OrgID,
		"previous_controller": previous,
		"new_controller":      newController,
	})
	return org, nil
}

func (s Service) SetInterval(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return domainerrors.ErrInvalidInput
	}
	settings, err := s.Repo.GetSettings(ctx)
	if err != nil {
		return err
	}
	settings.Interval = interval
	if err := s.Repo.PutSettings(ctx, settings); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("disbursement interval updated",
		"event", "interval_updated",
		"module", "payroll-core/registry-service",
		"layer", "application",
		"interval", interval.String(),
	)
	return nil
}

func (s Service) AllowDestination(ctx context.Context, selector uint64) error {
	if selector == 0 {
		return domainerrors.ErrInvalidInput
	}
	return s.Repo.AllowDestination(ctx, selector)
}

func (s Service) RevokeDestination(ctx context.Context, selector uint64) error {
	if selector == 0 {
		return domainerrors.ErrInvalidInput
	}
	return s.Repo.RevokeDestination(ctx, selector)
}

// Withdraw moves treasury funds to an external account.
func (s Service) Withdraw(ctx context.Context, asset string, to string, amount uint64) error {
	to = strings.TrimSpace(to)
	asset = strings.TrimSpace(asset)
	if to == "" || asset == "" || amount == 0 {
		return domainerrors.ErrInvalidInput
	}
	if err := s.Ledger.TransferFrom(ctx, s.TreasuryAccount, s.TreasuryAccount, to, asset, amount); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrWithdrawFailed, err)
	}

	ResolveLogger(s.Logger).Info("treasury withdrawal",
		"event", "treasury_withdrawal",
		"module", "payroll-core/registry-service",
		"layer", "application",
		"asset", asset,
		"to", to,
		"amount", amount,
	)
	return nil
}

func (s Service) GetOrganization(ctx context.Context, orgID uint64) (entities.Organization, error) {
	return s.Repo.GetOrganization(ctx, orgID)
}

func (s Service) ListOrganizations(ctx context.Context) ([]entities.Organization, error) {
	return s.Repo.ListOrganizations(ctx)
}

func (s Service) GetMember(ctx context.Context, memberID uint64) (entities.Member, error) {
	return s.Repo.GetMember(ctx, memberID)
}

func (s Service) ListMembers(ctx context.Context, orgID uint64) ([]entities.Member, error) {
	if _, err := s.Repo.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}
	return s.Repo.ListMembers(ctx, orgID)
}

func (s Service) appendEvent(ctx context.Context, eventType string, partitionKey string, payload map[string]any) {
	if s.Outbox == nil {
		return
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: sourceService,
		OccurredAt:    s.now(),
		CorrelationID: eventID,
		SchemaVersion: 1,
		PartitionKey:  partitionKey,
		Data:          data,
	}); err != nil {
		ResolveLogger(s.Logger).Error("registry outbox append failed",
			"event", "registry_outbox_append_failed",
			"module", "payroll-core/registry-service",
			"layer", "application",
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
