package port

import (
	"context"

	"wallet_dashboard/internal/domain/entity"
)

// WalletConnector obtains the active account from the wallet bridge.
type WalletConnector interface {
	Connect(ctx context.Context) (string, error)
}

// AccountService fetches balance and recent history for an account.
type AccountService interface {
	FetchAccountData(ctx context.Context, address string) (entity.AccountData, error)
}
