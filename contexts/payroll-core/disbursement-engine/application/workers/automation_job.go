package workers

import (
	"context"
	"log/slog"

	application "remit/contexts/payroll-core/disbursement-engine/application"
	domainerrors "remit/contexts/payroll-core/disbursement-engine/domain/errors"
	"remit/contexts/payroll-core/disbursement-engine/ports"
)

// AutomationJob is the in-process automation collaborator: one check, and if
// an obligation is ready, one perform. A failed settlement never stops the
// loop; it is local to that obligation and retried naturally on a later tick.
type AutomationJob struct {
	Trigger application.TriggerAdapter
	Logger  *slog.Logger
}

func (j AutomationJob) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)

	ready, ref, err := j.Trigger.CheckReady(ctx)
	if err != nil {
		logger.Error("automation check failed",
			"event", "automation_check_failed",
			"module", "payroll-core/disbursement-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if !ready {
		return nil
	}

	result, err := j.Trigger.PerformReady(ctx, ref)
	if err != nil {
		level := slog.LevelError
		if domainerrors.IsPrecondition(err) {
			// The obligation went stale between check and perform; nothing
			// was mutated and the next tick rescans.
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "automation perform failed",
			"event", "automation_perform_failed",
			"module", "payroll-core/disbursement-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return nil
	}

	if result.Outcome == ports.OutcomeDeferred {
		logger.Debug("automation cycle deferred settlement",
			"event", "automation_cycle_deferred",
			"module", "payroll-core/disbursement-engine",
			"layer", "worker",
			"org_id", result.OrgID,
			"member_id", result.MemberID,
			"reason", result.DeferReason,
		)
		return nil
	}

	logger.Info("automation cycle settled obligation",
		"event", "automation_cycle_settled",
		"module", "payroll-core/disbursement-engine",
		"layer", "worker",
		"org_id", result.OrgID,
		"member_id", result.MemberID,
		"outcome", string(result.Outcome),
		"message_id", result.MessageID,
	)
	return nil
}
