// Package sdk is the entry point for reading Financer protocol state and
// building entry function payloads for an external signer.
package sdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"financer/config"
	"financer/core/composer"
	"financer/core/resources"
	"financer/core/types"
	"financer/observability"
)

// SDK bundles the protocol modules for one network. It holds only immutable
// configuration and is safe for concurrent use.
type SDK struct {
	network   config.Network
	options   config.Options
	resources resources.Accessor
	logger    *slog.Logger
	now       func() time.Time

	misc       *Misc
	masterChef *MasterChef
	swap       *Swap
}

type settings struct {
	accessor     resources.Accessor
	resourceOpts []resources.Option
	overrides    map[string]string
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures the SDK.
type Option func(*settings)

// WithAccessor replaces the fullnode client with a custom resource accessor.
func WithAccessor(acc resources.Accessor) Option {
	return func(s *settings) {
		s.accessor = acc
	}
}

// WithResourceOptions forwards options to the fullnode resource client.
func WithResourceOptions(opts ...resources.Option) Option {
	return func(s *settings) {
		s.resourceOpts = append(s.resourceOpts, opts...)
	}
}

// WithOverrides replaces individual entries of the network table. Keys use
// the form accepted by config.Options.ApplyOverrides.
func WithOverrides(overrides map[string]string) Option {
	return func(s *settings) {
		if s.overrides == nil {
			s.overrides = make(map[string]string, len(overrides))
		}
		for k, v := range overrides {
			s.overrides[k] = v
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for reward projections.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs an SDK bound to a fullnode and a network table.
func New(nodeURL string, network config.Network, opts ...Option) (*SDK, error) {
	st := settings{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&st)
		}
	}

	options, err := config.OptionsFor(network).ApplyOverrides(st.overrides)
	if err != nil {
		return nil, fmt.Errorf("sdk: %w", err)
	}

	acc := st.accessor
	if acc == nil {
		clientOpts := append([]resources.Option{resources.WithLogger(st.logger)}, st.resourceOpts...)
		client, err := resources.New(nodeURL, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("sdk: %w", err)
		}
		acc = client
	}

	s := &SDK{
		network:   network,
		options:   options,
		resources: acc,
		logger:    st.logger,
		now:       st.now,
	}
	s.misc = &Misc{sdk: s}
	s.masterChef = &MasterChef{sdk: s}
	s.swap = &Swap{sdk: s}
	return s, nil
}

// FromConfig constructs an SDK from a loaded configuration file.
func FromConfig(cfg *config.Config, opts ...Option) (*SDK, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sdk: config required")
	}
	base := []Option{
		WithResourceOptions(
			resources.WithTimeout(cfg.Timeout()),
			resources.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
			resources.WithAuthToken(cfg.AuthToken),
		),
		WithOverrides(cfg.Overrides),
	}
	return New(cfg.NodeURL, cfg.Network, append(base, opts...)...)
}

// Network returns the selected network.
func (s *SDK) Network() config.Network {
	if s == nil {
		return config.Mainnet
	}
	return s.network
}

// NetworkOptions returns a copy of the active network table.
func (s *SDK) NetworkOptions() config.Options {
	if s == nil {
		return config.OptionsFor(config.Mainnet)
	}
	return s.options.Clone()
}

// Resources returns the underlying resource accessor.
func (s *SDK) Resources() resources.Accessor {
	if s == nil {
		return nil
	}
	return s.resources
}

// Misc returns the airdrop and AutoFin vault module.
func (s *SDK) Misc() *Misc {
	if s == nil {
		return nil
	}
	return s.misc
}

// MasterChef returns the farming module.
func (s *SDK) MasterChef() *MasterChef {
	if s == nil {
		return nil
	}
	return s.masterChef
}

// Swap returns the AMM module.
func (s *SDK) Swap() *Swap {
	if s == nil {
		return nil
	}
	return s.swap
}

// GetBalance returns the balance of coinType held by address.
func (s *SDK) GetBalance(ctx context.Context, address, coinType string) (decimal.Decimal, error) {
	if s == nil {
		return decimal.Zero, fmt.Errorf("sdk: instance required")
	}
	store, err := resources.Fetch[types.CoinStore](ctx, s.resources, address, composer.ComposeCoinStore(s.options.Modules.CoinStore, coinType))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sdk: balance of %s: %w", coinType, err)
	}
	return store.Data.Coin.Value.Decimal(), nil
}

// IsRegistered reports whether address holds a CoinStore for coinType.
func (s *SDK) IsRegistered(ctx context.Context, address, coinType string) (bool, error) {
	if _, err := s.GetBalance(ctx, address, coinType); err != nil {
		if errors.Is(err, resources.ErrResourceNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *SDK) payload(kind string, payload types.EntryFunctionPayload) types.EntryFunctionPayload {
	observability.Payloads().RecordPayload(kind)
	s.logger.Debug("sdk: payload built", "kind", kind, "function", payload.Function)
	return payload
}
