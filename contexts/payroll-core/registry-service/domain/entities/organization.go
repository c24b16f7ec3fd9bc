package entities

import "time"

type Organization struct {
	OrgID      uint64
	Controller string
	Name       string
	Active     bool
	CreatedAt  time.Time
	// MemberIDs preserves insertion order; the scanner visits members in
	// exactly this order.
	MemberIDs []uint64
}

// ScanCursors is the global cursor pair the scanner advances between
// invocations. Any value is a valid starting point; the pair exists only for
// fairness, never for correctness.
type ScanCursors struct {
	Org    int
	Member int
}

// EngineSettings holds the mutable engine-wide knobs.
type EngineSettings struct {
	Interval time.Duration
}
