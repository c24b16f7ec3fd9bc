package application

import (
	"context"
	"testing"
	"time"

	"remit/contexts/payroll-core/disbursement-engine/ports"
)

var scanNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newScanDirectory() *fakeDirectory {
	return &fakeDirectory{
		members:  map[uint64][]ports.MemberSnapshot{},
		interval: 30 * 24 * time.Hour,
	}
}

func dueMember(memberID uint64, orgID uint64) ports.MemberSnapshot {
	return ports.MemberSnapshot{
		MemberID:  memberID,
		OrgID:     orgID,
		Payout:    "payout",
		Amount:    100,
		NextDueAt: scanNow.Add(-time.Hour),
		Active:    true,
	}
}

func notDueMember(memberID uint64, orgID uint64) ports.MemberSnapshot {
	member := dueMember(memberID, orgID)
	member.NextDueAt = scanNow.Add(time.Hour)
	return member
}

func TestFindNextReadyNoOrganizations(t *testing.T) {
	dir := newScanDirectory()
	scanner := Scanner{Directory: dir, Clock: fixedClock{at: scanNow}}

	_, found, err := scanner.FindNextReady(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if found {
		t.Fatalf("expected no obligation")
	}
	if dir.putCalls != 0 {
		t.Fatalf("expected cursors untouched with no organizations, got %d writes", dir.putCalls)
	}
}

func TestFindNextReadyAdvancesBothCursorsPastHit(t *testing.T) {
	dir := newScanDirectory()
	dir.orgs = []ports.OrganizationSnapshot{
		{OrgID: 1, Controller: "ctrl-1", Active: true, MemberIDs: []uint64{10, 11}},
	}
	dir.members[1] = []ports.MemberSnapshot{dueMember(10, 1), dueMember(11, 1)}
	scanner := Scanner{Directory: dir, Clock: fixedClock{at: scanNow}}

	obligation, found, err := scanner.FindNextReady(context.Background())
	if err != nil || !found {
		t.Fatalf("expected obligation, found=%v err=%v", found, err)
	}
	if obligation.MemberID != 10 {
		t.Fatalf("expected member 10 first, got %d", obligation.MemberID)
	}
	if dir.cursors != (ports.Cursors{Org: 0, Member: 1}) {
		t.Fatalf("unexpected cursors after first hit: %+v", dir.cursors)
	}

	obligation, found, err = scanner.FindNextReady(context.Background())
	if err != nil || !found {
		t.Fatalf("expected second obligation, found=%v err=%v", found, err)
	}
	if obligation.MemberID != 11 {
		t.Fatalf("expected member 11 second, got %d", obligation.MemberID)
	}
	if dir.cursors != (ports.Cursors{Org: 0, Member: 0}) {
		t.Fatalf("unexpected cursors after second hit: %+v", dir.cursors)
	}
}

func TestFindNextReadyResetsMemberCursorAfterFruitlessCycle(t *testing.T) {
	dir := newScanDirectory()
	dir.orgs = []ports.OrganizationSnapshot{
		{OrgID: 1, Controller: "ctrl-1", Active: true, MemberIDs: []uint64{10, 11}},
	}
	dir.members[1] = []ports.MemberSnapshot{notDueMember(10, 1), notDueMember(11, 1)}
	dir.cursors = ports.Cursors{Org: 0, Member: 1}
	scanner := Scanner{Directory: dir, Clock: fixedClock{at: scanNow}}

	_, found, err := scanner.FindNextReady(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if found {
		t.Fatalf("expected no obligation")
	}
	if dir.cursors != (ports.Cursors{Org: 0, Member: 0}) {
		t.Fatalf("expected member cursor reset after fruitless cycle, got %+v", dir.cursors)
	}
}

func TestFindNextReadySkipsInactiveOrganizationsAndMembers(t *testing.T) {
	dir := newScanDirectory()
	dir.orgs = []ports.OrganizationSnapshot{
		{OrgID: 1, Controller: "ctrl-1", Active: false, MemberIDs: []uint64{10}},
		{OrgID: 2, Controller: "ctrl-2", Active: true, MemberIDs: []uint64{20, 21}},
	}
	dir.members[1] = []ports.MemberSnapshot{dueMember(10, 1)}
	inactive := dueMember(20, 2)
	inactive.Active = false
	dir.members[2] = []ports.MemberSnapshot{inactive, dueMember(21, 2)}
	scanner := Scanner{Directory: dir, Clock: fixedClock{at: scanNow}}

	obligation, found, err := scanner.FindNextReady(context.Background())
	if err != nil || !found {
		t.Fatalf("expected obligation, found=%v err=%v", found, err)
	}
	if obligation.OrgID != 2 || obligation.MemberID != 21 {
		t.Fatalf("expected org 2 member 21, got org %d member %d", obligation.OrgID, obligation.MemberID)
	}
}

func TestFindNextReadyVisitsLaterOrganizationsFromMemberZero(t *testing.T) {
	dir := newScanDirectory()
	dir.orgs = []ports.OrganizationSnapshot{
		{OrgID: 1, Controller: "ctrl-1", Active: true, MemberIDs: []uint64{10, 11}},
		{OrgID: 2, Controller: "ctrl-2", Active: true, MemberIDs: []uint64{20, 21}},
	}
	dir.members[1] = []ports.MemberSnapshot{notDueMember(10, 1), notDueMember(11, 1)}
	dir.members[2] = []ports.MemberSnapshot{dueMember(20, 2), dueMember(21, 2)}
	// A stale member cursor from org 1 must not skip org 2's first member.
	dir.cursors = ports.Cursors{Org: 0, Member: 1}
	scanner := Scanner{Directory: dir, Clock: fixedClock{at: scanNow}}

	obligation, found, err := scanner.FindNextReady(context.Background())
	if err != nil || !found {
		t.Fatalf("expected obligation, found=%v err=%v", found, err)
	}
	if obligation.OrgID != 2 || obligation.MemberID != 20 {
		t.Fatalf("expected org 2 member 20, got org %d member %d", obligation.OrgID, obligation.MemberID)
	}
}

func TestFindNextReadyWrapsOrgCursorBeyondRange(t *testing.T) {
	dir := newScanDirectory()
	dir.orgs = []ports.OrganizationSnapshot{
		{OrgID: 1, Controller: "ctrl-1", Active: true, MemberIDs: []uint64{10}},
	}
	dir.members[1] = []ports.MemberSnapshot{dueMember(10, 1)}
	// Cursors may be stale after organizations were removed.
	dir.cursors = ports.Cursors{Org: 7, Member: 9}
	scanner := Scanner{Directory: dir, Clock: fixedClock{at: scanNow}}

	obligation, found, err := scanner.FindNextReady(context.Background())
	if err != nil || !found {
		t.Fatalf("expected obligation, found=%v err=%v", found, err)
	}
	if obligation.MemberID != 10 {
		t.Fatalf("expected member 10, got %d", obligation.MemberID)
	}
}
