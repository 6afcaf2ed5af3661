// Package resolve computes the effective configuration of a drop-in
// hierarchy: one optional base file plus fragments from an administrator
// tree and a vendor tree.
//
// Precedence, lowest first:
//
//	base, then every surviving fragment sorted by basename
//
// A vendor fragment is dropped entirely when the admin tree holds a file
// with the same basename, whatever either file contains. Every function in
// this package is pure and safe for concurrent use.
package resolve

import (
	"context"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

// Resolve runs the whole pipeline over one snapshot
func Resolve(src dropin.Sources) dropin.Result {
	survivors, shadowed := Shadow(src.Admin, src.Vendor)

	overrides := make([]dropin.Fragment, 0, len(src.Admin)+len(survivors))
	overrides = append(overrides, src.Admin...)
	overrides = append(overrides, survivors...)

	chain := BuildChain(src.Base, Order(overrides))
	return Merge(chain, shadowed)
}

// Resolver adapts Resolve to the application's resolver port
type Resolver struct{}

// NewResolver creates a new Resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve resolves src. The context is accepted for interface symmetry;
// resolution never blocks.
func (r *Resolver) Resolve(_ context.Context, src dropin.Sources) dropin.Result {
	return Resolve(src)
}
