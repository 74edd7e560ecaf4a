package bridge

import (
	"context"
	"sync"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"

	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/sync/singleflight"
)

const defaultDialTimeout = 10 * time.Second

// DialFunc opens the RPC connection to the wallet endpoint.
type DialFunc func(ctx context.Context, endpoint string) (*rpc.Client, error)

// Provider implements port.BridgeProvider. It dials the configured endpoint
// once and caches the bridge; with no endpoint there is no bridge at all.
type Provider struct {
	endpoint    string
	netDef      entity.NetworkDefinition
	opts        Options
	dial        DialFunc
	dialTimeout time.Duration
	logger      port.Logger

	dials  singleflight.Group
	mu     sync.Mutex
	bridge *EVMBridge
}

// NewProvider creates a Provider for endpoint. An empty endpoint means no wallet.
func NewProvider(endpoint string, netDef entity.NetworkDefinition, opts Options, logger port.Logger) *Provider {
	return &Provider{
		endpoint:    endpoint,
		netDef:      netDef,
		opts:        opts,
		dial:        rpc.DialContext,
		dialTimeout: defaultDialTimeout,
		logger:      logger,
	}
}

// WithDialer replaces how the endpoint is dialed. Used with in-process servers.
func (p *Provider) WithDialer(dial DialFunc) *Provider {
	p.dial = dial
	return p
}

// Bridge returns the cached bridge, dialing on first use.
// It returns a nil interface when no wallet endpoint is configured or it cannot be dialed.
// Concurrent callers share one dial; the lock is never held while dialing.
func (p *Provider) Bridge() port.WalletBridge {
	if p.endpoint == "" {
		return nil
	}
	if b := p.cached(); b != nil {
		return b
	}

	v, err, _ := p.dials.Do(p.endpoint, func() (any, error) {
		if b := p.cached(); b != nil {
			return b, nil
		}

		p.logger.Info("Dialing wallet bridge", "endpoint", p.endpoint, "network", p.netDef.Name)
		ctx, cancel := context.WithTimeout(context.Background(), p.dialTimeout)
		defer cancel()

		client, err := p.dial(ctx, p.endpoint)
		if err != nil {
			return nil, err
		}

		b := NewEVMBridge(client, p.netDef, p.opts)
		p.mu.Lock()
		p.bridge = b
		p.mu.Unlock()
		p.logger.Info("Wallet bridge ready", "endpoint", p.endpoint)
		return b, nil
	})
	if err != nil {
		p.logger.Error("Failed to dial wallet bridge", "endpoint", p.endpoint, "error", err)
		return nil
	}
	return v.(*EVMBridge)
}

func (p *Provider) cached() *EVMBridge {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bridge
}

// Close releases the cached connection, if any.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bridge != nil {
		p.bridge.Close()
		p.bridge = nil
	}
}
