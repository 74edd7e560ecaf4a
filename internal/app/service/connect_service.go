package service

import (
	"context"
	"errors"
	"strings"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
)

// DetectBridge reports whether a wallet capability is present. It performs no I/O.
func DetectBridge(b port.WalletBridge) bool {
	return b != nil
}

// ConnectServiceImpl implements port.WalletConnector.
type ConnectServiceImpl struct {
	bridges port.BridgeProvider
	logger  port.Logger
}

// NewConnectService creates a new ConnectServiceImpl.
func NewConnectService(bp port.BridgeProvider, l port.Logger) port.WalletConnector {
	return &ConnectServiceImpl{bridges: bp, logger: l}
}

// Connect asks the wallet for account access and returns the first address.
// ctx should carry no deadline: the wallet may be waiting on the user.
func (s *ConnectServiceImpl) Connect(ctx context.Context) (string, error) {
	b := s.bridges.Bridge()
	if !DetectBridge(b) {
		s.logger.Warn("Connect requested but no wallet bridge is available")
		metrics.ConnectTotal.WithLabelValues(entity.KindBridgeUnavailable.String()).Inc()
		return "", entity.NewWalletError(entity.KindBridgeUnavailable, "detect wallet", nil)
	}

	accounts, err := b.RequestAccounts(ctx)
	if err != nil {
		s.logger.Error("Wallet rejected account request", "error", err)
		metrics.ConnectTotal.WithLabelValues(entity.KindConnectionRejected.String()).Inc()
		return "", entity.NewWalletError(entity.KindConnectionRejected, "request accounts", err)
	}
	if len(accounts) == 0 {
		s.logger.Warn("Wallet granted access to no accounts")
		metrics.ConnectTotal.WithLabelValues(entity.KindConnectionRejected.String()).Inc()
		return "", entity.NewWalletError(entity.KindConnectionRejected, "request accounts", errors.New("no accounts authorized"))
	}

	address := strings.TrimSpace(accounts[0])
	if !common.IsHexAddress(address) {
		s.logger.Error("Wallet returned a malformed address", "address", address)
		metrics.ConnectTotal.WithLabelValues(entity.KindConnectionRejected.String()).Inc()
		return "", entity.NewWalletError(entity.KindConnectionRejected, "request accounts", errors.New("malformed address "+address))
	}

	s.logger.Info("Wallet connected", "address", address, "authorized_accounts", len(accounts))
	metrics.ConnectTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return address, nil
}
