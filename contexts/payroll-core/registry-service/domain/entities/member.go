package entities

import "time"

type DestinationKind string

const (
	DestinationLocal  DestinationKind = "local"
	DestinationRemote DestinationKind = "remote"
)

// Destination is the settlement target of a member. The selector identifies a
// remote settlement domain; the zero selector always maps to the local kind,
// so the kind tag is decided once at data entry rather than re-derived from a
// magic number on every settlement.
type Destination struct {
	Kind     DestinationKind
	Selector uint64
}

func DestinationFromSelector(selector uint64) Destination {
	if selector == 0 {
		return Destination{Kind: DestinationLocal}
	}
	return Destination{Kind: DestinationRemote, Selector: selector}
}

func (d Destination) IsRemote() bool {
	return d.Kind == DestinationRemote
}

type Member struct {
	MemberID    uint64
	OrgID       uint64
	Name        string
	Payout      string
	Destination Destination
	// Amount is the periodic payable in the smallest ledger unit.
	Amount    uint64
	NextDueAt time.Time
	Active    bool
}

// DueAt reports whether the member's obligation is ready at the given time.
func (m Member) DueAt(now time.Time) bool {
	return !m.NextDueAt.After(now)
}
