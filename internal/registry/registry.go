package registry

import (
	"secure-print-release/config"
	"time"
)

// Registry : all in-memory state of the service, created once at start and passed by handle
type Registry struct {
	Metadata    *MetadataStore
	Active      *ActiveSet
	PrintTokens *PrintTokenRegistry
	RateLimiter *RateLimiter
}

func New(cfg config.JobsConfig, now func() time.Time) *Registry {
	return &Registry{
		Metadata:    NewMetadataStore(),
		Active:      NewActiveSet(),
		PrintTokens: NewPrintTokenRegistry(cfg.PrintTokenTTL, now),
		RateLimiter: NewRateLimiter(cfg.RateLimit, cfg.RateWindow, now),
	}
}
