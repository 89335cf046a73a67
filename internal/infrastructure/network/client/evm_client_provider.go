package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/configloader"

	"golang.org/x/time/rate"
)

// DefinitionLookup resolves a chain ID to its network definition.
type DefinitionLookup interface {
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)
}

// Provider dials and caches one EVMClient per chain.
type Provider struct {
	networks          DefinitionLookup
	clients           map[uint64]*EVMClient
	mu                sync.Mutex
	logger            port.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
	limiter           *rate.Limiter
	dial              func(entity.NetworkDefinition) (*EVMClient, error)
}

// NewProvider creates a Provider. A zero rate limit disables throttling of
// contract calls made through Backend.
func NewProvider(cfg configloader.RPCConfig, networks DefinitionLookup, log port.Logger) *Provider {
	p := &Provider{
		networks:          networks,
		clients:           make(map[uint64]*EVMClient),
		logger:            log,
		connectionTimeout: time.Duration(cfg.ConnectionTimeoutSeconds) * time.Second,
		rpcCallTimeout:    time.Duration(cfg.CallTimeoutSeconds) * time.Second,
	}
	if cfg.RateLimit > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
	}
	p.dial = func(def entity.NetworkDefinition) (*EVMClient, error) {
		return NewEVMClient(def, p.connectionTimeout, p.rpcCallTimeout)
	}
	return p
}

// GetClient returns the cached client for chainID, dialing it on first use.
func (p *Provider) GetClient(chainID uint64) (*EVMClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, exists := p.clients[chainID]; exists {
		return c, nil
	}

	netDef, ok := p.networks.GetNetworkDefinitionByChainID(chainID)
	if !ok {
		return nil, fmt.Errorf("no network definition for chain %d", chainID)
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc_primary", netDef.PrimaryRPCURL)
	newClient, err := p.dial(netDef)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[chainID] = newClient
	return newClient, nil
}

// Backend returns a contract backend for chainID, rate limited when configured.
func (p *Provider) Backend(chainID uint64) (port.ChainBackend, error) {
	c, err := p.GetClient(chainID)
	if err != nil {
		return nil, err
	}
	if p.limiter == nil {
		return c.Eth(), nil
	}
	return NewRateLimitedBackend(c.Eth(), p.limiter), nil
}

// GetBalances implements port.BalanceReader.
func (p *Provider) GetBalances(ctx context.Context, chainID uint64, queries []entity.BalanceQuery) ([]entity.Balance, error) {
	c, err := p.GetClient(chainID)
	if err != nil {
		return nil, err
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return c.GetBalances(ctx, queries)
}

// Close closes every cached client.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		c.Close()
		delete(p.clients, id)
	}
}
