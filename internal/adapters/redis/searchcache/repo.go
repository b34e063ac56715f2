// Package searchcache is a read-through cache in front of an advocate repository.
//
// Cache entries are keyed by a generation counter, the policy's field set and a
// hash of the normalized term. Create bumps the generation, orphaning every
// entry at once; orphans expire by TTL. Cache failures are logged and the
// underlying repository is used directly.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/metrics"
	"github.com/solace-advocates/advocate-directory-api/internal/ports/out/advocaterepo"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
)

const (
	keyPrefix     = "advocates:search:"
	generationKey = keyPrefix + "generation"

	dialTimeout = 5 * time.Second
)

// Repo decorates an advocaterepo.Repository with a search result cache.
type Repo struct {
	next    advocaterepo.Repository
	store   Store
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	group singleflight.Group
}

var _ advocaterepo.Repository = (*Repo)(nil)

func New(next advocaterepo.Repository, store Store, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *Repo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repo{
		next:    next,
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

func (r *Repo) Create(ctx context.Context, a advocaterepo.Advocate) error {
	if err := r.next.Create(ctx, a); err != nil {
		return err
	}
	if _, err := r.store.Incr(ctx, generationKey); err != nil {
		r.logger.Warn("search cache invalidation failed", "error", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AdvocateID) (advocaterepo.Advocate, error) {
	return r.next.GetByID(ctx, id)
}

func (r *Repo) List(ctx context.Context) ([]advocaterepo.Advocate, error) {
	return r.Search(ctx, advocaterepo.Query{Policy: search.DefaultPolicy()})
}

func (r *Repo) Search(ctx context.Context, q advocaterepo.Query) ([]advocaterepo.Advocate, error) {
	key, ok := r.key(ctx, q)
	if !ok {
		return r.next.Search(ctx, q)
	}

	if b, hit, err := r.store.Get(ctx, key); err != nil {
		r.metrics.ObserveCache("error")
		r.logger.Warn("search cache read failed", "error", err)
	} else if hit {
		var out []advocaterepo.Advocate
		if err := json.Unmarshal(b, &out); err == nil {
			r.metrics.ObserveCache("hit")
			return normalize(out), nil
		}
		r.logger.Warn("search cache entry undecodable", "key", key)
	}
	r.metrics.ObserveCache("miss")

	// The call is shared by every caller waiting on key, so it must not end
	// when the caller that started it goes away.
	ch := r.group.DoChan(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		res, err := r.next.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(res); err == nil {
			if err := r.store.Set(ctx, key, b, r.ttl); err != nil {
				r.logger.Warn("search cache write failed", "error", err)
			}
		}
		return res, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneAll(res.Val.([]advocaterepo.Advocate)), nil
	}
}

// Wrap puts a Redis-backed cache in front of next. An empty url returns next
// unchanged. The returned func releases the Redis client.
func Wrap(ctx context.Context, next advocaterepo.Repository, url string, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) (advocaterepo.Repository, func() error, error) {
	if url == "" {
		return next, func() error { return nil }, nil
	}
	client, err := NewRedisClient(ctx, url, dialTimeout)
	if err != nil {
		return nil, nil, err
	}
	return New(next, NewRedisStore(client), ttl, logger, m), client.Close, nil
}

// key builds the cache key, or reports false when the generation cannot be read.
func (r *Repo) key(ctx context.Context, q advocaterepo.Query) (string, bool) {
	gen := "0"
	b, ok, err := r.store.Get(ctx, generationKey)
	if err != nil {
		r.metrics.ObserveCache("error")
		r.logger.Warn("search cache generation read failed", "error", err)
		return "", false
	}
	if ok {
		if _, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			gen = string(b)
		}
	}

	fields := q.Policy.Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, string(f))
	}
	sum := sha256.Sum256([]byte(search.Normalize(q.Term)))
	return fmt.Sprintf("%sg%s:%s:%s", keyPrefix, gen, strings.Join(names, ","), hex.EncodeToString(sum[:])), true
}

func normalize(as []advocaterepo.Advocate) []advocaterepo.Advocate {
	if as == nil {
		return []advocaterepo.Advocate{}
	}
	for i := range as {
		if as[i].Specialties == nil {
			as[i].Specialties = []string{}
		}
	}
	return as
}

func cloneAll(as []advocaterepo.Advocate) []advocaterepo.Advocate {
	out := make([]advocaterepo.Advocate, len(as))
	for i, a := range as {
		out[i] = a
		out[i].Specialties = domain.CloneSpecialties(a.Specialties)
	}
	return out
}
