// internal/rules/resolve.go
package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/soluna/dayrate/internal/types"
)

/*
 * Rule resolution pipeline.
 *
 * Orchestrates precedence between a product-scoped rule set and the global
 * fallback set: the product set is consulted first and a product match wins
 * unconditionally, even when a global rule would match "better". Only when
 * the product set yields nothing does the global set get a turn.
 *
 * Variants resolve through their parent: rules are always looked up under
 * the parent item's identifier, never the child's. The Loader supplies the
 * mapping along with the raw record sets.
 *
 * Rule sets are loaded fresh from the store on every call and the resolver
 * retains no references between calls. Each resolution is a pure function
 * of (stored rules, context); identical inputs yield identical outputs.
 */

// Loader supplies raw rule records per scope. Implementations map a product
// identifier or the global singleton to whatever the host stores rules in.
type Loader interface {
	// ProductRules returns the raw pricing rules stored for a product.
	// A product with no stored rules returns an empty list, not an error.
	ProductRules(ctx context.Context, productID string) ([]types.Record, error)

	// GlobalRules returns the raw global fallback pricing rules.
	GlobalRules(ctx context.Context) ([]types.Record, error)

	// BlackoutRules returns the raw global blackout records.
	BlackoutRules(ctx context.Context) ([]types.Record, error)

	// ParentProduct maps a variant to its parent item identifier. Products
	// without a parent map to themselves.
	ParentProduct(ctx context.Context, productID string) (string, error)
}

// Quote is the outcome of a priced resolution.
type Quote struct {
	ProductID string             `json:"product_id"`
	Context   types.Context      `json:"context"`
	Base      float64            `json:"base_price"`
	Adjusted  float64            `json:"adjusted_price"`
	Rule      *types.PricingRule `json:"rule,omitempty"`
}

// Resolver evaluates stored rule sets against contexts.
type Resolver struct {
	loader   Loader
	clock    Clock
	loc      *time.Location
	decimals int
}

// NewResolver creates a resolver. decimals is the host currency's decimal
// precision; a nil clock uses the system clock and a nil location UTC.
func NewResolver(loader Loader, clock Clock, loc *time.Location, decimals int) *Resolver {
	if clock == nil {
		clock = SystemClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loader: loader, clock: clock, loc: loc, decimals: decimals}
}

// Now returns the evaluation context for the current instant in the
// resolver's location. Callers that default to "today" derive it here once
// and pass it into every call.
func (r *Resolver) Now() types.Context {
	return ContextAt(r.clock.Now(), r.loc)
}

// Resolve picks the pricing rule governing the context for a product.
// Product rules take precedence over global rules; within a set the last
// matching rule in stored order wins. Returns nil with no error when
// nothing matches.
func (r *Resolver) Resolve(ctx context.Context, productID string, ec types.Context) (*types.PricingRule, error) {
	parent, err := r.loader.ParentProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("resolve parent of %s: %w", productID, err)
	}

	records, err := r.loader.ProductRules(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("load product rules for %s: %w", parent, err)
	}
	if match := r.match(records, ec); match != nil {
		return match, nil
	}

	records, err = r.loader.GlobalRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load global rules: %w", err)
	}
	return r.match(records, ec), nil
}

// Quote resolves the governing rule and applies it to the base price.
// With no matching rule the adjusted price equals the rounded base.
func (r *Resolver) Quote(ctx context.Context, productID string, base float64, ec types.Context) (Quote, error) {
	rule, err := r.Resolve(ctx, productID, ec)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		ProductID: productID,
		Context:   ec,
		Base:      base,
		Adjusted:  AdjustPrice(base, rule, r.decimals),
		Rule:      rule,
	}, nil
}

// IsBlackedOut reports whether the date is unavailable according to the
// stored blackout records. dow may be nil; it is derived from the date.
func (r *Resolver) IsBlackedOut(ctx context.Context, date string, dow *int) (bool, error) {
	records, err := r.loader.BlackoutRules(ctx)
	if err != nil {
		return false, fmt.Errorf("load blackout rules: %w", err)
	}
	blackouts := make([]types.BlackoutRule, 0, len(records))
	for _, raw := range records {
		blackouts = append(blackouts, NormalizeBlackout(raw))
	}
	return IsDateBlackedOut(blackouts, date, dow), nil
}

// match normalizes raw records, filters to applicable rules, and picks the
// winning match. Read-path normalization never re-clamps stored dates.
func (r *Resolver) match(records []types.Record, ec types.Context) *types.PricingRule {
	normalized := make([]types.PricingRule, 0, len(records))
	for _, raw := range records {
		normalized = append(normalized, NormalizeRule(raw))
	}
	return FindMatch(FilterApplicable(normalized, r.decimals), ec)
}
