package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	gatewayports "remit/contexts/settlement/dispatch-gateway/ports"
)

var ErrUnknownDestination = errors.New("no fee schedule for destination")

// Ledger is the slice of the token ledger the router draws funds through.
type Ledger interface {
	TransferFrom(ctx context.Context, spender string, owner string, to string, asset string, amount uint64) error
}

// Memory simulates the cross-domain token router for local and test
// deployments. Fees are a flat per-destination schedule in the fee asset;
// Send draws the fee and the payout from the sender through the ledger and
// parks the payout on a per-domain holding account.
type Memory struct {
	mu       sync.Mutex
	fees     map[uint64]uint64
	ledger   Ledger
	account  string
	feeAsset string
}

func NewMemory(ledger Ledger, feeAsset string) *Memory {
	return &Memory{
		fees:     make(map[uint64]uint64),
		ledger:   ledger,
		account:  "token-router",
		feeAsset: feeAsset,
	}
}

// SetFee installs the flat delivery fee for a destination selector.
func (m *Memory) SetFee(selector uint64, fee uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fees[selector] = fee
}

func (m *Memory) QuoteFee(_ context.Context, descriptor gatewayports.Descriptor) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fee, ok := m.fees[descriptor.DestinationSelector]
	if !ok {
		return 0, fmt.Errorf("%w: selector %d", ErrUnknownDestination, descriptor.DestinationSelector)
	}
	return fee, nil
}

func (m *Memory) Send(ctx context.Context, sender string, descriptor gatewayports.Descriptor) (string, error) {
	fee, err := m.QuoteFee(ctx, descriptor)
	if err != nil {
		return "", err
	}

	if err := m.ledger.TransferFrom(ctx, m.account, sender, m.account, m.feeAsset, fee); err != nil {
		return "", fmt.Errorf("collect delivery fee: %w", err)
	}
	holding := fmt.Sprintf("domain-%d-holding", descriptor.DestinationSelector)
	if err := m.ledger.TransferFrom(ctx, m.account, sender, holding, descriptor.Asset, descriptor.Amount); err != nil {
		return "", fmt.Errorf("collect payout: %w", err)
	}
	return uuid.NewString(), nil
}
