// Package store persists rule sets as scoped key-value payloads.
//
// One row per scope: "global" for the fallback pricing set, "product:<id>"
// for a product's own set, "blackout" for the blackout records. The payload
// is the JSON-encoded list of raw rule records exactly as the normalizer
// consumes them; each save replaces the scope's payload atomically and
// stamps a fresh UUIDv7 revision. The store implements rules.Loader, so a
// Resolver can read straight from it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/soluna/dayrate/internal/core/db"
	"github.com/soluna/dayrate/internal/log"
	"github.com/soluna/dayrate/internal/types"
)

// Well-known scope keys.
const (
	ScopeGlobal   = "global"
	ScopeBlackout = "blackout"
)

// ProductScope returns the scope key for a product's rule set.
func ProductScope(productID string) string {
	return "product:" + productID
}

// Store reads and writes scoped rule sets.
type Store struct {
	q *db.Queries
}

// New creates a store over loaded queries.
func New(q *db.Queries) *Store {
	return &Store{q: q}
}

// Get returns the raw records stored under a scope. A scope with nothing
// stored yields an empty list, not an error.
func (s *Store) Get(ctx context.Context, scope string) ([]types.Record, error) {
	var payload string
	err := s.q.Get(ctx, "get-rule-set", &payload, scope)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load rule set %s: %w", scope, err)
	}

	var decoded any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("decode rule set %s: %w", scope, err)
	}
	records, err := types.DecodeRecordList(decoded)
	if err != nil {
		return nil, fmt.Errorf("decode rule set %s: %w", scope, err)
	}
	return records, nil
}

// Replace stores a cleaned record list under a scope, replacing the prior
// payload atomically. Returns the new revision id.
func (s *Store) Replace(ctx context.Context, scope string, records []types.Record) (types.RevisionID, error) {
	if records == nil {
		records = []types.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode rule set %s: %w", scope, err)
	}

	rev := types.NewRevisionID()
	updatedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.q.Exec(ctx, "upsert-rule-set", scope, string(payload), string(rev), updatedAt); err != nil {
		return "", fmt.Errorf("save rule set %s: %w", scope, err)
	}

	log.L().Info("rule set saved",
		zap.String("scope", scope),
		zap.Int("records", len(records)),
		zap.String("revision", string(rev)))
	return rev, nil
}

// Revision returns the revision id of a stored scope.
// Returns ErrScopeNotFound when nothing is stored under the scope.
func (s *Store) Revision(ctx context.Context, scope string) (types.RevisionID, error) {
	var rev string
	err := s.q.Get(ctx, "get-rule-set-revision", &rev, scope)
	if errors.Is(err, sql.ErrNoRows) {
		return "", types.ErrScopeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load revision for %s: %w", scope, err)
	}
	return types.RevisionID(rev), nil
}

// Delete removes a scope and its payload.
func (s *Store) Delete(ctx context.Context, scope string) error {
	if _, err := s.q.Exec(ctx, "delete-rule-set", scope); err != nil {
		return fmt.Errorf("delete rule set %s: %w", scope, err)
	}
	return nil
}

// Scopes lists every stored scope key.
func (s *Store) Scopes(ctx context.Context) ([]string, error) {
	var scopes []string
	if err := s.q.Select(ctx, "list-scopes", &scopes); err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}
	return scopes, nil
}

// SetParent records a variant's parent item. Rule lookups for the child
// resolve through the parent's scope from then on.
func (s *Store) SetParent(ctx context.Context, childID, parentID string) error {
	if _, err := s.q.Exec(ctx, "set-parent-product", childID, parentID); err != nil {
		return fmt.Errorf("set parent of %s: %w", childID, err)
	}
	return nil
}

// ProductRules implements rules.Loader.
func (s *Store) ProductRules(ctx context.Context, productID string) ([]types.Record, error) {
	return s.Get(ctx, ProductScope(productID))
}

// GlobalRules implements rules.Loader.
func (s *Store) GlobalRules(ctx context.Context) ([]types.Record, error) {
	return s.Get(ctx, ScopeGlobal)
}

// BlackoutRules implements rules.Loader.
func (s *Store) BlackoutRules(ctx context.Context) ([]types.Record, error) {
	return s.Get(ctx, ScopeBlackout)
}

// ParentProduct implements rules.Loader. A product with no recorded parent
// maps to itself.
func (s *Store) ParentProduct(ctx context.Context, productID string) (string, error) {
	var parent string
	err := s.q.Get(ctx, "get-parent-product", &parent, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return productID, nil
	}
	if err != nil {
		return "", fmt.Errorf("load parent of %s: %w", productID, err)
	}
	return parent, nil
}
