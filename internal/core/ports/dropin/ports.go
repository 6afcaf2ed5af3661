package dropinports

import (
	"context"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

// Parser turns one fragment's raw text into its settings
type Parser interface {
	Parse(name string, data []byte) (dropin.Settings, error)
}

// Source enumerates and parses the files of one domain
type Source interface {
	Load(ctx context.Context, domain dropin.Domain) (dropin.Sources, error)
	Name() string
}

// Resolver computes the effective configuration of a snapshot
type Resolver interface {
	Resolve(ctx context.Context, src dropin.Sources) dropin.Result
}

// Catalog lists the configured domains
type Catalog interface {
	DomainList() []dropin.Domain
	Domain(name string) (dropin.Domain, bool)
}
