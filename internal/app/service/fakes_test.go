package service

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
)

type fakeBridge struct {
	accounts   []string
	accountErr error
	balance    *big.Int
	balanceErr error
	history    []entity.Transaction
	historyErr error

	calls atomic.Int32
}

func (f *fakeBridge) RequestAccounts(context.Context) ([]string, error) {
	f.calls.Add(1)
	return f.accounts, f.accountErr
}

func (f *fakeBridge) GetBalance(context.Context, string) (*big.Int, error) {
	f.calls.Add(1)
	return f.balance, f.balanceErr
}

func (f *fakeBridge) GetHistory(context.Context, string) ([]entity.Transaction, error) {
	f.calls.Add(1)
	return f.history, f.historyErr
}

// staticProvider returns b, which may be nil to model a missing wallet.
type staticProvider struct {
	b *fakeBridge
}

func (p staticProvider) Bridge() port.WalletBridge {
	if p.b == nil {
		return nil
	}
	return p.b
}

type fakeSource struct {
	readyErr error
	txs      []entity.Transaction
	err      error
	calls    atomic.Int32
}

func (f *fakeSource) Name() string { return "fake" }
func (f *fakeSource) Ready() error { return f.readyErr }

func (f *fakeSource) RecentTransactions(context.Context, string) ([]entity.Transaction, error) {
	f.calls.Add(1)
	return f.txs, f.err
}

var errBoom = errors.New("boom")
