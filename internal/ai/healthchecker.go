package ai

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthProber is the probe surface of the client, split out so the checker
// can be tested without a live provider.
type HealthProber interface {
	HealthCheck(ctx context.Context) bool
}

// ProviderHealthChecker monitors the chat-completion provider. The service
// stays up when the provider is down; this only feeds /api/health/ai.
type ProviderHealthChecker struct {
	prober       HealthProber
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewProviderHealthChecker creates a new provider health checker.
func NewProviderHealthChecker(prober HealthProber, log zerolog.Logger, probeTimeout time.Duration) *ProviderHealthChecker {
	hc := &ProviderHealthChecker{
		prober:       prober,
		log:          log,
		probeTimeout: probeTimeout,
	}
	hc.healthy.Store(0) // start unhealthy until first successful probe
	return hc
}

// Name returns the checker name.
func (hc *ProviderHealthChecker) Name() string {
	return "ai"
}

// IsHealthy returns the cached health status (non-blocking).
func (hc *ProviderHealthChecker) IsHealthy() bool {
	return hc.healthy.Load() == 1
}

// Start begins periodic health checking.
func (hc *ProviderHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		to := hc.probeTimeout
		if to <= 0 {
			to = 5 * time.Second
		}
		checkCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()

		if hc.prober.HealthCheck(checkCtx) {
			hc.healthy.Store(1)
		} else {
			hc.log.Warn().Str("checker", hc.Name()).Msg("ai provider health check failed")
			hc.healthy.Store(0)
		}
	}

	// Initial check
	check()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
