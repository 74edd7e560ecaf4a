package port

import (
	"context"
	"math/big"

	"wallet_dashboard/internal/domain/entity"
)

// WalletBridge is the capability a wallet exposes to the dashboard.
// Implementations never hold keys; they pass requests through to the wallet.
type WalletBridge interface {
	// RequestAccounts asks the wallet for account access. It may wait for the
	// user to approve, so callers must not impose a deadline of their own.
	RequestAccounts(ctx context.Context) ([]string, error)

	// GetBalance returns the latest native balance in smallest units.
	GetBalance(ctx context.Context, address string) (*big.Int, error)

	// GetHistory returns recent transactions touching address, oldest first.
	GetHistory(ctx context.Context, address string) ([]entity.Transaction, error)
}

// BridgeProvider hands out the wallet bridge, or nil when none is present.
type BridgeProvider interface {
	Bridge() WalletBridge
}

// TransactionSource retrieves the recent transactions shown for an account.
type TransactionSource interface {
	// Name identifies the strategy in logs and metrics.
	Name() string
	// Ready fails fast, without network calls, when the source cannot be used.
	Ready() error
	// RecentTransactions returns the windowed history, newest first.
	RecentTransactions(ctx context.Context, address string) ([]entity.Transaction, error)
}
