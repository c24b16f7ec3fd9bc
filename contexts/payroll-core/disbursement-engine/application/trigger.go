package application

import (
	"context"
	"log/slog"

	"remit/contexts/payroll-core/disbursement-engine/ports"
)

// TriggerAdapter is the thin boundary the external automation collaborator
// calls: CheckReady finds at most one ready obligation, PerformReady settles
// the obligation named by an opaque reference from a previous check.
type TriggerAdapter struct {
	Scanner  Scanner
	Executor Executor
	Logger   *slog.Logger
}

func (t TriggerAdapter) CheckReady(ctx context.Context) (bool, []byte, error) {
	obligation, found, err := t.Scanner.FindNextReady(ctx)
	if err != nil {
		return false, nil, err
	}
	if !found {
		return false, nil, nil
	}
	return true, EncodeObligationRef(obligation), nil
}

func (t TriggerAdapter) PerformReady(ctx context.Context, ref []byte) (ports.SettlementResult, error) {
	obligation, err := DecodeObligationRef(ref)
	if err != nil {
		return ports.SettlementResult{}, err
	}
	return t.Executor.Settle(ctx, obligation.OrgID, obligation.MemberID)
}
