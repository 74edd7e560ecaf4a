package service

import (
	"context"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"
)

// ChainStrategyName identifies the bridge history source.
const ChainStrategyName = "chain"

// ChainHistorySource implements port.TransactionSource by asking the wallet
// bridge for the account's history.
type ChainHistorySource struct {
	bridges port.BridgeProvider
	window  utils.Window
}

// NewChainHistorySource creates a source that truncates history with window.
func NewChainHistorySource(bp port.BridgeProvider, window utils.Window) *ChainHistorySource {
	return &ChainHistorySource{bridges: bp, window: window}
}

func (s *ChainHistorySource) Name() string { return ChainStrategyName }

// Ready has nothing to check; bridge presence is checked by the caller.
func (s *ChainHistorySource) Ready() error { return nil }

// RecentTransactions windows the oldest-first bridge history and returns it newest first.
func (s *ChainHistorySource) RecentTransactions(ctx context.Context, address string) ([]entity.Transaction, error) {
	b := s.bridges.Bridge()
	if !DetectBridge(b) {
		return nil, entity.NewWalletError(entity.KindBridgeUnavailable, "detect wallet", nil)
	}
	history, err := b.GetHistory(ctx, address)
	if err != nil {
		return nil, entity.NewWalletError(entity.KindFetchFailed, "get history", err)
	}
	return utils.Reverse(utils.ApplyWindow(history, s.window)), nil
}
