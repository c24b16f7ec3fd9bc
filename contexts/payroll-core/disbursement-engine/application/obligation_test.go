package application

import (
	"context"
	"errors"
	"testing"

	domainerrors "remit/contexts/payroll-core/disbursement-engine/domain/errors"
	"remit/contexts/payroll-core/disbursement-engine/ports"
)

func TestObligationRefRoundTrip(t *testing.T) {
	original := ports.Obligation{OrgID: 42, MemberID: 7_000_000_001}
	ref := EncodeObligationRef(original)
	if len(ref) != 16 {
		t.Fatalf("expected 16-byte reference, got %d", len(ref))
	}

	decoded, err := DecodeObligationRef(ref)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch: %+v != %+v", decoded, original)
	}
}

func TestDecodeObligationRefRejectsBadLength(t *testing.T) {
	for _, ref := range [][]byte{nil, {}, make([]byte, 8), make([]byte, 17)} {
		if _, err := DecodeObligationRef(ref); !errors.Is(err, domainerrors.ErrInvalidObligationRef) {
			t.Fatalf("expected invalid reference error for length %d, got %v", len(ref), err)
		}
	}
}

func TestTriggerAdapterCheckThenPerform(t *testing.T) {
	dir, _, _, _, executor := newExecutorWorld()
	trigger := TriggerAdapter{
		Scanner:  Scanner{Directory: dir, Clock: fixedClock{at: scanNow}},
		Executor: executor,
	}

	ready, ref, err := trigger.CheckReady(context.Background())
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !ready {
		t.Fatalf("expected a ready obligation")
	}

	result, err := trigger.PerformReady(context.Background(), ref)
	if err != nil {
		t.Fatalf("perform failed: %v", err)
	}
	if result.Outcome != ports.OutcomeExecuted {
		t.Fatalf("expected executed outcome, got %s", result.Outcome)
	}
	if result.OrgID != 1 || result.MemberID != 10 {
		t.Fatalf("unexpected obligation settled: %+v", result)
	}

	// The member is no longer due, so the next check finds nothing.
	ready, _, err = trigger.CheckReady(context.Background())
	if err != nil {
		t.Fatalf("second check failed: %v", err)
	}
	if ready {
		t.Fatalf("expected no ready obligation after settlement")
	}
}

func TestTriggerAdapterPerformRejectsMalformedRef(t *testing.T) {
	trigger := TriggerAdapter{}
	if _, err := trigger.PerformReady(context.Background(), []byte("short")); !errors.Is(err, domainerrors.ErrInvalidObligationRef) {
		t.Fatalf("expected invalid reference error, got %v", err)
	}
}
