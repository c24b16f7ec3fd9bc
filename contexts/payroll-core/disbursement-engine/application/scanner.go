package application

import (
	"context"
	"log/slog"
	"time"

	"remit/contexts/payroll-core/disbursement-engine/ports"
)

// Scanner finds the next ready obligation without mutating any business
// data. Its only side effect is advancing the persisted cursor pair, and only
// so that repeated invocations visit different members first.
type Scanner struct {
	Directory ports.Directory
	Clock     ports.Clock
	Logger    *slog.Logger
}

// FindNextReady visits organizations in cyclic order starting at the org
// cursor for at most one full cycle, skipping inactive ones. The first active
// organization with members is scanned from the member cursor (mod its member
// count); every later organization starts from member index 0, and a completed
// fruitless member cycle resets the member cursor before moving on. The first
// active member whose due timestamp has elapsed wins, and both cursors are
// advanced one past the hit.
//
// At most one obligation is identified per call, and the total work is
// bounded by one full sweep over all organizations and members.
func (s Scanner) FindNextReady(ctx context.Context) (ports.Obligation, bool, error) {
	orgs, err := s.Directory.ListOrganizations(ctx)
	if err != nil {
		return ports.Obligation{}, false, err
	}
	if len(orgs) == 0 {
		return ports.Obligation{}, false, nil
	}

	cursors, err := s.Directory.GetCursors(ctx)
	if err != nil {
		return ports.Obligation{}, false, err
	}

	now := s.now()
	orgStart := mod(cursors.Org, len(orgs))
	memberCursor := cursors.Member

	for i := 0; i < len(orgs); i++ {
		orgIndex := (orgStart + i) % len(orgs)
		org := orgs[orgIndex]
		if !org.Active {
			continue
		}

		members, err := s.Directory.ListMembers(ctx, org.OrgID)
		if err != nil {
			return ports.Obligation{}, false, err
		}
		if len(members) == 0 {
			continue
		}

		memberStart := mod(memberCursor, len(members))
		for j := 0; j < len(members); j++ {
			memberIndex := (memberStart + j) % len(members)
			member := members[memberIndex]
			if !member.Active {
				continue
			}
			if member.NextDueAt.After(now) {
				continue
			}

			next := ports.Cursors{
				Org:    (orgIndex + 1) % len(orgs),
				Member: (memberIndex + 1) % len(members),
			}
			if err := s.Directory.PutCursors(ctx, next); err != nil {
				return ports.Obligation{}, false, err
			}

			ResolveLogger(s.Logger).Debug("ready obligation found",
				"event", "scan_obligation_found",
				"module", "payroll-core/disbursement-engine",
				"layer", "application",
				"org_id", org.OrgID,
				"member_id", member.MemberID,
				"org_cursor", next.Org,
				"member_cursor", next.Member,
			)
			return ports.Obligation{OrgID: org.OrgID, MemberID: member.MemberID}, true, nil
		}

		// Fruitless member cycle: the per-organization cursor does not carry
		// over to the next organization.
		memberCursor = 0
	}

	if err := s.Directory.PutCursors(ctx, ports.Cursors{Org: cursors.Org, Member: memberCursor}); err != nil {
		return ports.Obligation{}, false, err
	}
	return ports.Obligation{}, false, nil
}

func (s Scanner) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func mod(value int, n int) int {
	if n <= 0 {
		return 0
	}
	m := value % n
	if m < 0 {
		m += n
	}
	return m
}
