package bootstrap

import (
	"context"
	"time"

	engineports "remit/contexts/payroll-core/disbursement-engine/ports"
	"remit/contexts/payroll-core/registry-service/domain/entities"
	registryports "remit/contexts/payroll-core/registry-service/ports"
)

// registryDirectory adapts the registry repository to the engine's directory
// port. The engine only ever sees snapshots, never registry entities.
type registryDirectory struct {
	repo registryports.Repository
}

func (d registryDirectory) ListOrganizations(ctx context.Context) ([]engineports.OrganizationSnapshot, error) {
	orgs, err := d.repo.ListOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	snapshots := make([]engineports.OrganizationSnapshot, 0, len(orgs))
	for _, org := range orgs {
		snapshots = append(snapshots, mapOrganizationSnapshot(org))
	}
	return snapshots, nil
}

func (d registryDirectory) GetOrganization(ctx context.Context, orgID uint64) (engineports.OrganizationSnapshot, error) {
	org, err := d.repo.GetOrganization(ctx, orgID)
	if err != nil {
		return engineports.OrganizationSnapshot{}, err
	}
	return mapOrganizationSnapshot(org), nil
}

func (d registryDirectory) GetMember(ctx context.Context, memberID uint64) (engineports.MemberSnapshot, error) {
	member, err := d.repo.GetMember(ctx, memberID)
	if err != nil {
		return engineports.MemberSnapshot{}, err
	}
	return mapMemberSnapshot(member), nil
}

func (d registryDirectory) ListMembers(ctx context.Context, orgID uint64) ([]engineports.MemberSnapshot, error) {
	members, err := d.repo.ListMembers(ctx, orgID)
	if err != nil {
		return nil, err
	}
	snapshots := make([]engineports.MemberSnapshot, 0, len(members))
	for _, member := range members {
		snapshots = append(snapshots, mapMemberSnapshot(member))
	}
	return snapshots, nil
}

func (d registryDirectory) AdvanceNextDue(ctx context.Context, memberID uint64, interval time.Duration) (time.Time, error) {
	return d.repo.AdvanceNextDue(ctx, memberID, interval)
}

func (d registryDirectory) GetCursors(ctx context.Context) (engineports.Cursors, error) {
	cursors, err := d.repo.GetCursors(ctx)
	if err != nil {
		return engineports.Cursors{}, err
	}
	return engineports.Cursors{Org: cursors.Org, Member: cursors.Member}, nil
}

func (d registryDirectory) PutCursors(ctx context.Context, cursors engineports.Cursors) error {
	return d.repo.PutCursors(ctx, entities.ScanCursors{Org: cursors.Org, Member: cursors.Member})
}

func (d registryDirectory) Interval(ctx context.Context) (time.Duration, error) {
	settings, err := d.repo.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.Interval, nil
}

func mapOrganizationSnapshot(org entities.Organization) engineports.OrganizationSnapshot {
	return engineports.OrganizationSnapshot{
		OrgID:      org.OrgID,
		Controller: org.Controller,
		Active:     org.Active,
		MemberIDs:  append([]uint64(nil), org.MemberIDs...),
	}
}

func mapMemberSnapshot(member entities.Member) engineports.MemberSnapshot {
	return engineports.MemberSnapshot{
		MemberID:  member.MemberID,
		OrgID:     member.OrgID,
		Payout:    member.Payout,
		Selector:  member.Destination.Selector,
		Amount:    member.Amount,
		NextDueAt: member.NextDueAt,
		Active:    member.Active,
	}
}
