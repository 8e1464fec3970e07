package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/turtacn/timexnorm/pkg/errors"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// ResultCache stores normalisation results keyed by domain, reference date
// and expression text.  Only context-free results belong here: an anaphoric
// expression depends on document state and must never be cached.
type ResultCache struct {
	cache Cache
	ttl   time.Duration
}

// NewResultCache wraps cache.  A zero ttl uses the cache default.
func NewResultCache(cache Cache, ttl time.Duration) *ResultCache {
	return &ResultCache{cache: cache, ttl: ttl}
}

// ResultKey is the cache key of one normalisation.  The expression is
// lower-cased and whitespace-collapsed before hashing.
func ResultKey(domain timex.Domain, ref, expr string) string {
	canonical := strings.Join(strings.Fields(strings.ToLower(expr)), " ")
	sum := sha1.Sum([]byte(canonical))
	return "result:" + string(domain) + ":" + ref + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached result and whether it was present.  The surface
// text is restored from expr since equal keys may differ in case.
func (r *ResultCache) Get(ctx context.Context, domain timex.Domain, ref, expr string) (timex.Result, bool, error) {
	var res timex.Result
	err := r.cache.Get(ctx, ResultKey(domain, ref, expr), &res)
	if errors.IsCode(err, errors.ErrCodeNotFound) {
		return timex.Result{}, false, nil
	}
	if err != nil {
		return timex.Result{}, false, err
	}
	res.SurfaceText = expr
	return res, true, nil
}

// Put stores res for the triple.
func (r *ResultCache) Put(ctx context.Context, domain timex.Domain, ref, expr string, res timex.Result) error {
	return r.cache.Set(ctx, ResultKey(domain, ref, expr), res, r.ttl)
}

// Purge drops every cached result of domain.
func (r *ResultCache) Purge(ctx context.Context, domain timex.Domain) (int64, error) {
	return r.cache.DeleteByPrefix(ctx, "result:"+string(domain)+":")
}

//Personal.AI order the ending
