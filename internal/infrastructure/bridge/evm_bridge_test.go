package bridge

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/logger"
)

const testAccount = "0xAbCd000000000000000000000000000000001234"

type userRejectedError struct{}

func (userRejectedError) Error() string  { return "User rejected the request." }
func (userRejectedError) ErrorCode() int { return 4001 }

// walletService answers the eth_ namespace like a browser wallet would.
type walletService struct {
	accounts []string
	reject   bool
	balance  *big.Int
	requests atomic.Int32
}

func (w *walletService) RequestAccounts() ([]string, error) {
	w.requests.Add(1)
	if w.reject {
		return nil, userRejectedError{}
	}
	return w.accounts, nil
}

func (w *walletService) GetBalance(addr common.Address, block string) (*hexutil.Big, error) {
	if addr != common.HexToAddress(testAccount) {
		return (*hexutil.Big)(big.NewInt(0)), nil
	}
	return (*hexutil.Big)(w.balance), nil
}

// nodeService only knows eth_accounts, like a signer without EIP-1193 support.
type nodeService struct {
	accounts []string
}

func (n *nodeService) Accounts() ([]string, error) {
	return n.accounts, nil
}

func newInProcBridge(t *testing.T, svc any) *EVMBridge {
	t.Helper()
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", svc))
	t.Cleanup(srv.Stop)

	client := rpc.DialInProc(srv)
	b := NewEVMBridge(client, entity.Ethereum, Options{})
	t.Cleanup(b.Close)
	return b
}

func TestEVMBridgeRequestAccounts(t *testing.T) {
	svc := &walletService{accounts: []string{testAccount}}
	b := newInProcBridge(t, svc)

	accounts, err := b.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{testAccount}, accounts)
	assert.Equal(t, int32(1), svc.requests.Load())
}

func TestEVMBridgeRequestAccountsRejected(t *testing.T) {
	b := newInProcBridge(t, &walletService{reject: true})

	_, err := b.RequestAccounts(context.Background())
	require.Error(t, err)

	var rpcErr rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, 4001, rpcErr.ErrorCode())
}

func TestEVMBridgeFallsBackToAccounts(t *testing.T) {
	b := newInProcBridge(t, &nodeService{accounts: []string{testAccount}})

	accounts, err := b.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{testAccount}, accounts)
}

func TestEVMBridgeGetBalance(t *testing.T) {
	raw, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	b := newInProcBridge(t, &walletService{balance: raw})

	balance, err := b.GetBalance(context.Background(), testAccount)
	require.NoError(t, err)
	assert.Equal(t, 0, raw.Cmp(balance))

	_, err = b.GetBalance(context.Background(), "not-an-address")
	assert.Error(t, err)
}

func TestProviderWithoutEndpointHasNoBridge(t *testing.T) {
	p := NewProvider("", entity.Ethereum, Options{}, logger.Nop{})
	assert.Nil(t, p.Bridge())
}

func TestProviderDialsOnceAndCaches(t *testing.T) {
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", &walletService{accounts: []string{testAccount}}))
	t.Cleanup(srv.Stop)

	var dials atomic.Int32
	p := NewProvider("inproc://wallet", entity.Ethereum, Options{}, logger.Nop{}).
		WithDialer(func(ctx context.Context, endpoint string) (*rpc.Client, error) {
			dials.Add(1)
			return rpc.DialInProc(srv), nil
		})
	t.Cleanup(p.Close)

	first := p.Bridge()
	require.NotNil(t, first)
	second := p.Bridge()
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), dials.Load())
}

func TestProviderDialFailureMeansNoBridge(t *testing.T) {
	p := NewProvider("http://127.0.0.1:1", entity.Ethereum, Options{}, logger.Nop{}).
		WithDialer(func(ctx context.Context, endpoint string) (*rpc.Client, error) {
			return nil, errors.New("connection refused")
		})

	b := p.Bridge()
	assert.Nil(t, b)
	assert.True(t, b == nil, "must be a nil interface, not a typed nil")
}

func TestProviderConcurrentCallersShareOneDial(t *testing.T) {
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", &walletService{accounts: []string{testAccount}}))
	t.Cleanup(srv.Stop)

	gate := make(chan struct{})
	var dials atomic.Int32
	p := NewProvider("inproc://wallet", entity.Ethereum, Options{}, logger.Nop{}).
		WithDialer(func(ctx context.Context, endpoint string) (*rpc.Client, error) {
			dials.Add(1)
			<-gate
			return rpc.DialInProc(srv), nil
		})
	t.Cleanup(p.Close)

	const callers = 8
	results := make(chan port.WalletBridge, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- p.Bridge()
		}()
	}
	require.Eventually(t, func() bool { return dials.Load() == 1 }, time.Second, 5*time.Millisecond)

	// the provider's lock is free while the dial is in flight
	assert.Nil(t, p.cached())

	close(gate)
	wg.Wait()
	close(results)

	var first port.WalletBridge
	for b := range results {
		require.NotNil(t, b)
		if first == nil {
			first = b
		}
		assert.Same(t, first, b)
	}
	assert.Equal(t, int32(1), dials.Load())
}
