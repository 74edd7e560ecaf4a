package service

import (
	"context"
	"errors"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"
)

// AccountServiceImpl implements port.AccountService.
type AccountServiceImpl struct {
	bridges port.BridgeProvider
	source  port.TransactionSource
	netDef  entity.NetworkDefinition
	logger  port.Logger
}

// NewAccountService creates a new instance of AccountServiceImpl.
func NewAccountService(
	bp port.BridgeProvider,
	source port.TransactionSource,
	netDef entity.NetworkDefinition,
	l port.Logger,
) port.AccountService {
	return &AccountServiceImpl{
		bridges: bp,
		source:  source,
		netDef:  netDef,
		logger:  l,
	}
}

// FetchAccountData reads the balance through the wallet bridge and the recent
// transactions through the configured source. When only the transactions
// fail, the returned data still carries the balance next to the error.
func (s *AccountServiceImpl) FetchAccountData(ctx context.Context, address string) (entity.AccountData, error) {
	data := entity.AccountData{Address: address}
	strategy := s.source.Name()
	started := time.Now()
	defer func() {
		metrics.FetchDuration.WithLabelValues(strategy).Observe(time.Since(started).Seconds())
	}()

	if err := s.source.Ready(); err != nil {
		s.logger.Error("Transaction source is not configured", "strategy", strategy, "error", err)
		return data, s.fail(strategy, err)
	}

	b := s.bridges.Bridge()
	if !DetectBridge(b) {
		s.logger.Warn("Account fetch requested but no wallet bridge is available", "address", address)
		return data, s.fail(strategy, entity.NewWalletError(entity.KindBridgeUnavailable, "detect wallet", nil))
	}

	s.logger.Debug("Fetching balance", "address", address, "network", s.netDef.Name)
	raw, err := b.GetBalance(ctx, address)
	if err != nil {
		s.logger.Error("Failed to fetch balance", "address", address, "error", err)
		return data, s.fail(strategy, entity.NewWalletError(entity.KindFetchFailed, "get balance", err))
	}
	data.RawBalance = raw
	data.Balance = utils.FormatUnits(raw, s.netDef.Decimals)

	s.logger.Debug("Fetching recent transactions", "address", address, "strategy", strategy)
	txs, err := s.source.RecentTransactions(ctx, address)
	if err != nil {
		s.logger.Error("Failed to fetch transactions", "address", address, "strategy", strategy, "error", err)
		var we *entity.WalletError
		if !errors.As(err, &we) {
			err = entity.NewWalletError(entity.KindFetchFailed, "recent transactions", err)
		}
		return data, s.fail(strategy, err)
	}
	data.Transactions = txs

	metrics.FetchTotal.WithLabelValues(strategy, metrics.OutcomeOK).Inc()
	s.logger.Info("Fetched account data",
		"address", address, "balance", data.Balance, "transactions", len(txs), "strategy", strategy)
	return data, nil
}

func (s *AccountServiceImpl) fail(strategy string, err error) error {
	metrics.FetchTotal.WithLabelValues(strategy, entity.KindOf(err).String()).Inc()
	return err
}
