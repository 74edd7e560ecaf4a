package bridge

import (
	"time"

	"wallet_dashboard/internal/config"
	"wallet_dashboard/internal/pkg/utils"
)

// Options tune the bridge's chain reads.
type Options struct {
	RPCCallTimeout    time.Duration
	ScanTimeout       time.Duration
	HistoryScanBlocks int
	MaxConcurrent     int
	RateLimit         int
	BurstLimit        int
	TimestampLayout   string
	Location          *time.Location
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}
	return Options{
		RPCCallTimeout:    cfg.RPCTimeout(),
		ScanTimeout:       3 * cfg.RPCTimeout(),
		HistoryScanBlocks: cfg.Wallet.HistoryScanBlocks,
		MaxConcurrent:     cfg.Wallet.MaxConcurrent,
		RateLimit:         cfg.Wallet.RateLimit,
		BurstLimit:        cfg.Wallet.BurstLimit,
		TimestampLayout:   cfg.Explorer.TimestampLayout,
		Location:          loc,
	}
}

func (o Options) withDefaults() Options {
	if o.HistoryScanBlocks <= 0 {
		o.HistoryScanBlocks = 128
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 8
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 20
	}
	if o.BurstLimit <= 0 {
		o.BurstLimit = o.MaxConcurrent
	}
	if o.TimestampLayout == "" {
		o.TimestampLayout = utils.DefaultTimestampLayout
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}
