package ledger

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

// Memory is an in-process token ledger with per-asset balances and
// owner-to-spender allowances. It stands in for the external settlement
// ledger in local and test deployments.
type Memory struct {
	mu         sync.Mutex
	balances   map[string]map[string]uint64
	allowances map[string]map[string]map[string]uint64
}

func NewMemory() *Memory {
	return &Memory{
		balances:   make(map[string]map[string]uint64),
		allowances: make(map[string]map[string]map[string]uint64),
	}
}

// Mint credits an account out of thin air. Test and bootstrap helper.
func (m *Memory) Mint(account string, asset string, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credit(account, asset, amount)
}

func (m *Memory) BalanceOf(_ context.Context, account string, asset string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account][asset], nil
}

func (m *Memory) Allowance(_ context.Context, owner string, spender string, asset string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowances[owner][spender][asset], nil
}

func (m *Memory) Approve(_ context.Context, owner string, spender string, asset string, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setAllowance(owner, spender, asset, amount)
	return nil
}

// TransferFrom moves amount of asset from owner to the destination account on
// behalf of spender, drawing down the spender's allowance. An owner moving
// its own funds needs no allowance.
func (m *Memory) TransferFrom(_ context.Context, spender string, owner string, to string, asset string, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balances[owner][asset] < amount {
		return ErrInsufficientBalance
	}
	if spender != owner {
		allowed := m.allowances[owner][spender][asset]
		if allowed < amount {
			return ErrInsufficientAllowance
		}
		m.setAllowance(owner, spender, asset, allowed-amount)
	}

	m.balances[owner][asset] -= amount
	m.credit(to, asset, amount)
	return nil
}

func (m *Memory) setAllowance(owner string, spender string, asset string, amount uint64) {
	spenders, ok := m.allowances[owner]
	if !ok {
		spenders = make(map[string]map[string]uint64)
		m.allowances[owner] = spenders
	}
	assets, ok := spenders[spender]
	if !ok {
		assets = make(map[string]uint64)
		spenders[spender] = assets
	}
	assets[asset] = amount
}

func (m *Memory) credit(account string, asset string, amount uint64) {
	assets, ok := m.balances[account]
	if !ok {
		assets = make(map[string]uint64)
		m.balances[account] = assets
	}
	assets[asset] += amount
}
