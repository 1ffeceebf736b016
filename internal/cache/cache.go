package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// Cache stores fetched snapshot payloads between runs. Traffic estimates
// update monthly upstream, so re-running an analysis within the TTL reuses
// the cached dataset instead of burning an actor run.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// DomainSetKey derives a stable cache key for a set of domains. Order and
// case of the input do not matter: the same set always maps to one entry.
func DomainSetKey(domains []string) string {
	normalized := make([]string, 0, len(domains))
	for _, d := range domains {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(d)))
	}
	sort.Strings(normalized)

	sum := sha256.Sum256([]byte(strings.Join(normalized, ",")))
	return "prevet:v1:" + hex.EncodeToString(sum[:])
}
