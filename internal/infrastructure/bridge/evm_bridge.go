package bridge

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"wallet_dashboard/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// JSON-RPC error code for an unknown method.
const methodNotFoundCode = -32601

// EVMBridge implements port.WalletBridge over a wallet's JSON-RPC endpoint.
type EVMBridge struct {
	rpcClient      *rpc.Client
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	history        *historyScanner
}

// NewEVMBridge wraps an already dialed RPC client.
func NewEVMBridge(rpcClient *rpc.Client, netDef entity.NetworkDefinition, opts Options) *EVMBridge {
	ethClient := ethclient.NewClient(rpcClient)
	return &EVMBridge{
		rpcClient:      rpcClient,
		ethClient:      ethClient,
		netDef:         netDef,
		rpcCallTimeout: opts.RPCCallTimeout,
		history:        newHistoryScanner(ethClient, netDef, opts),
	}
}

// RequestAccounts asks the wallet for account access via eth_requestAccounts.
// Wallets that do not implement it (plain nodes, signers) are asked with eth_accounts.
// No timeout is added: the wallet may be waiting for the user.
func (b *EVMBridge) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	err := b.rpcClient.CallContext(ctx, &accounts, "eth_requestAccounts")
	if err != nil && isMethodNotFound(err) {
		accounts = nil
		err = b.rpcClient.CallContext(ctx, &accounts, "eth_accounts")
	}
	if err != nil {
		return nil, fmt.Errorf("account request failed: %w", err)
	}
	return accounts, nil
}

// GetBalance fetches the latest native balance in wei.
func (b *EVMBridge) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address %q", address)
	}
	callCtx, cancel := b.withCallTimeout(ctx)
	defer cancel()

	balance, err := b.ethClient.BalanceAt(callCtx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance for %s on %s: %w", address, b.netDef.Name, err)
	}
	if balance == nil {
		return big.NewInt(0), nil
	}
	return balance, nil
}

// GetHistory scans recent blocks for transactions sent from or to address, oldest first.
func (b *EVMBridge) GetHistory(ctx context.Context, address string) ([]entity.Transaction, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address %q", address)
	}
	return b.history.Scan(ctx, common.HexToAddress(address))
}

// Definition returns the network definition for this bridge.
func (b *EVMBridge) Definition() entity.NetworkDefinition {
	return b.netDef
}

// Close releases the underlying RPC connection.
func (b *EVMBridge) Close() {
	b.rpcClient.Close()
}

func (b *EVMBridge) withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.rpcCallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.rpcCallTimeout)
}

func isMethodNotFound(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == methodNotFoundCode
}
