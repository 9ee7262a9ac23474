package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// OverrideKeyPrefix prefixes every stored override document key.
const OverrideKeyPrefix = "acl:user:"

// OverrideKey derives the storage key for a (tenant, user) pair. The exact
// shape acl:user:<tenantId>:<userId> is a compatibility contract with
// external inspection and migration tooling; tenant before user, decimal
// integers, colon-delimited.
func OverrideKey(tenantID, userID int64) string {
	return fmt.Sprintf("%s%d:%d", OverrideKeyPrefix, tenantID, userID)
}

// ParseOverrideKey inverts OverrideKey. Used by maintenance scans iterating
// stored documents.
func ParseOverrideKey(key string) (tenantID, userID int64, ok bool) {
	rest, found := strings.CutPrefix(key, OverrideKeyPrefix)
	if !found {
		return 0, 0, false
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	tenantID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	userID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return tenantID, userID, true
}

// OverrideStore persists per-(tenant,user) override documents.
type OverrideStore interface {
	GetOverrides(ctx context.Context, tenantID, userID int64) (OverrideDocument, error)
	SetOverrides(ctx context.Context, tenantID, userID int64, doc OverrideDocument) error
}

// RedisOverrideStore keeps override documents as JSON values in Redis. A SET
// of the full document is atomic per key, which gives the required
// last-writer-wins full-replace semantics without a merge protocol.
type RedisOverrideStore struct {
	client *redis.Client
}

// NewRedisOverrideStore constructs a store.
func NewRedisOverrideStore(client *redis.Client) *RedisOverrideStore {
	return &RedisOverrideStore{client: client}
}

// GetOverrides returns the stored document, or an empty document when none
// exists. Absence is not an error.
func (s *RedisOverrideStore) GetOverrides(ctx context.Context, tenantID, userID int64) (OverrideDocument, error) {
	payload, err := s.client.Get(ctx, OverrideKey(tenantID, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return OverrideDocument{Add: []string{}, Remove: []string{}}, nil
		}
		if ctx.Err() != nil {
			return OverrideDocument{}, ctx.Err()
		}
		return OverrideDocument{}, fmt.Errorf("%w: get overrides: %v", ErrDependencyUnavailable, err)
	}

	var doc OverrideDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return OverrideDocument{}, fmt.Errorf("acl: decode override document: %w", err)
	}
	if doc.Add == nil {
		doc.Add = []string{}
	}
	if doc.Remove == nil {
		doc.Remove = []string{}
	}
	return doc, nil
}

// SetOverrides replaces the stored document in full. Documents are never
// auto-deleted; clearing means writing empty sets.
func (s *RedisOverrideStore) SetOverrides(ctx context.Context, tenantID, userID int64, doc OverrideDocument) error {
	if doc.Add == nil {
		doc.Add = []string{}
	}
	if doc.Remove == nil {
		doc.Remove = []string{}
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("acl: encode override document: %w", err)
	}
	if err := s.client.Set(ctx, OverrideKey(tenantID, userID), payload, 0).Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: set overrides: %v", ErrDependencyUnavailable, err)
	}
	return nil
}
