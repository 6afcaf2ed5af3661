// Package audit resolves configured drop-in domains: it loads each
// domain's fragments through a Source and hands the snapshot to the
// resolver.
package audit

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"kilometers.ai/dropin/internal/core/domain/dropin"
	dropinports "kilometers.ai/dropin/internal/core/ports/dropin"
)

// ErrUnknownDomain is returned for a domain name that is not configured
var ErrUnknownDomain = errors.New("unknown domain")

// Service resolves domains from a catalog
type Service struct {
	catalog     dropinports.Catalog
	source      dropinports.Source
	resolver    dropinports.Resolver
	maxParallel int
	logger      hclog.Logger
	now         func() time.Time
}

// NewService creates a new audit service
func NewService(catalog dropinports.Catalog, source dropinports.Source, resolver dropinports.Resolver, maxParallel int, logger hclog.Logger) *Service {
	if maxParallel < 1 {
		maxParallel = 1
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{
		catalog:     catalog,
		source:      source,
		resolver:    resolver,
		maxParallel: maxParallel,
		logger:      logger.Named("audit"),
		now:         time.Now,
	}
}

// Domains returns the configured domains
func (s *Service) Domains() []dropin.Domain {
	return s.catalog.DomainList()
}

// Resolve loads and resolves one domain
func (s *Service) Resolve(ctx context.Context, name string) (Report, error) {
	domain, ok := s.catalog.Domain(name)
	if !ok {
		return Report{}, oops.
			In("audit").
			With("domain", name).
			Wrapf(ErrUnknownDomain, "cannot resolve %q", name)
	}
	return s.resolveDomain(ctx, domain)
}

func (s *Service) resolveDomain(ctx context.Context, domain dropin.Domain) (Report, error) {
	src, err := s.source.Load(ctx, domain)
	if err != nil {
		return Report{}, oops.
			In("audit").
			With("domain", domain.Name, "source", s.source.Name()).
			Wrapf(err, "failed to load fragments")
	}

	result := s.resolver.Resolve(ctx, src)
	s.logger.Debug("resolved domain",
		"domain", domain.Name,
		"fragments", src.Count(),
		"keys", result.Len(),
		"shadowed", len(result.FilesShadowed()))

	return Report{Domain: domain, Result: result, ResolvedAt: s.now()}, nil
}

// ResolveMany resolves the named domains concurrently. An empty list
// resolves every configured domain. Reports are ordered by domain name.
func (s *Service) ResolveMany(ctx context.Context, names []string) ([]Report, error) {
	domains := make([]dropin.Domain, 0, len(names))
	if len(names) == 0 {
		domains = s.catalog.DomainList()
	}
	for _, name := range names {
		d, ok := s.catalog.Domain(name)
		if !ok {
			return nil, oops.
				In("audit").
				With("domain", name).
				Wrapf(ErrUnknownDomain, "cannot resolve %q", name)
		}
		domains = append(domains, d)
	}

	reports := make([]Report, len(domains))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, d := range domains {
		g.Go(func() error {
			report, err := s.resolveDomain(ctx, d)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Domain.Name < reports[j].Domain.Name })
	return reports, nil
}

// ResolveAll resolves every configured domain
func (s *Service) ResolveAll(ctx context.Context) ([]Report, error) {
	return s.ResolveMany(ctx, nil)
}

// Lookup returns the entry in effect for key in the named domain
func (s *Service) Lookup(ctx context.Context, name, key string) (dropin.ResolvedEntry, bool, error) {
	report, err := s.Resolve(ctx, name)
	if err != nil {
		return dropin.ResolvedEntry{}, false, err
	}
	entry, ok := report.Result.Entry(key)
	return entry, ok, nil
}
