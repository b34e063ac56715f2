package searchcache_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	memadvocaterepo "github.com/solace-advocates/advocate-directory-api/internal/adapters/memory/advocaterepo"
	"github.com/solace-advocates/advocate-directory-api/internal/adapters/redis/searchcache"
	"github.com/solace-advocates/advocate-directory-api/internal/domain"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/metrics"
	"github.com/solace-advocates/advocate-directory-api/internal/ports/out/advocaterepo"
	"github.com/solace-advocates/advocate-directory-api/internal/search"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failAll error
	gets    int
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string][]byte{}} }

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.failAll != nil {
		return nil, false, s.failAll
	}
	b, ok := s.data[key]
	return b, ok, nil
}

func (s *fakeStore) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *fakeStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return 0, s.failAll
	}
	n, _ := strconv.ParseInt(string(s.data[key]), 10, 64)
	n++
	s.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

type countingRepo struct {
	advocaterepo.Repository
	mu       sync.Mutex
	searches int
}

func (c *countingRepo) Search(ctx context.Context, q advocaterepo.Query) ([]advocaterepo.Advocate, error) {
	c.mu.Lock()
	c.searches++
	c.mu.Unlock()
	return c.Repository.Search(ctx, q)
}

func (c *countingRepo) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searches
}

// blockingRepo holds every Search until release is closed, failing early if
// the search context is cancelled.
type blockingRepo struct {
	advocaterepo.Repository
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingRepo) Search(ctx context.Context, q advocaterepo.Query) ([]advocaterepo.Advocate, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.release:
	}
	return b.Repository.Search(ctx, q)
}

func seed(t *testing.T, repo advocaterepo.Repository, firstName, city string) advocaterepo.Advocate {
	t.Helper()
	a := advocaterepo.Advocate{
		ID:        domain.AdvocateID(uuid.NewString()),
		FirstName: firstName,
		LastName:  "Doe",
		City:      city,
		Degree:    "MD",
	}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	return a
}

func TestRepo_ServesRepeatSearchFromCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	inner := &countingRepo{Repository: memadvocaterepo.NewRepo()}
	seed(t, inner, "Jane", "Austin")
	m := metrics.New()
	repo := searchcache.New(inner, newFakeStore(), time.Minute, nil, m)

	for _, term := range []string{"austin", "AUSTIN", "Austin"} {
		res, err := repo.Search(ctx, advocaterepo.Query{Term: term})
		if err != nil {
			t.Fatalf("Search(%q) err=%v", term, err)
		}
		if len(res) != 1 || res[0].FirstName != "Jane" {
			t.Fatalf("Search(%q)=%+v", term, res)
		}
		if res[0].Specialties == nil {
			t.Fatalf("expected non-nil specialties from cache")
		}
	}
	if got := inner.count(); got != 1 {
		t.Fatalf("underlying searches=%d, want 1", got)
	}
	if got := promtestutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); got != 2 {
		t.Fatalf("cache hits=%v, want 2", got)
	}
	if got := promtestutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got != 1 {
		t.Fatalf("cache misses=%v, want 1", got)
	}
}

func TestRepo_PolicyIsPartOfKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	inner := &countingRepo{Repository: memadvocaterepo.NewRepo()}
	repo := searchcache.New(inner, newFakeStore(), time.Minute, nil, nil)

	if _, err := repo.Search(ctx, advocaterepo.Query{Term: "cbt", Policy: search.DefaultPolicy()}); err != nil {
		t.Fatalf("Search() err=%v", err)
	}
	if _, err := repo.Search(ctx, advocaterepo.Query{Term: "cbt", Policy: search.ExtendedPolicy()}); err != nil {
		t.Fatalf("Search() err=%v", err)
	}
	if got := inner.count(); got != 2 {
		t.Fatalf("underlying searches=%d, want 2", got)
	}
}

func TestRepo_CreateInvalidates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	inner := &countingRepo{Repository: memadvocaterepo.NewRepo()}
	repo := searchcache.New(inner, newFakeStore(), time.Minute, nil, nil)
	seed(t, repo, "Jane", "Austin")

	res, err := repo.List(ctx)
	if err != nil || len(res) != 1 {
		t.Fatalf("List()=%v err=%v", res, err)
	}
	seed(t, repo, "John", "Boston")

	res, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if len(res) != 2 {
		t.Fatalf("List() after Create len=%d, want 2", len(res))
	}
	if got := inner.count(); got != 2 {
		t.Fatalf("underlying searches=%d, want 2", got)
	}
}

func TestRepo_StoreFailureFallsThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	inner := &countingRepo{Repository: memadvocaterepo.NewRepo()}
	seed(t, inner, "Jane", "Austin")
	store := newFakeStore()
	store.failAll = errors.New("connection refused")
	m := metrics.New()
	repo := searchcache.New(inner, store, time.Minute, nil, m)

	for i := 0; i < 2; i++ {
		res, err := repo.Search(ctx, advocaterepo.Query{Term: "jane"})
		if err != nil {
			t.Fatalf("Search() err=%v", err)
		}
		if len(res) != 1 {
			t.Fatalf("Search() len=%d, want 1", len(res))
		}
	}
	if got := inner.count(); got != 2 {
		t.Fatalf("underlying searches=%d, want 2", got)
	}
	if got := promtestutil.ToFloat64(m.CacheLookups.WithLabelValues("error")); got != 2 {
		t.Fatalf("cache errors=%v, want 2", got)
	}

	// Create still succeeds when invalidation fails.
	seed(t, repo, "John", "Boston")
}

func TestRepo_RepositoryErrorIsNotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mem := memadvocaterepo.NewRepo()
	inner := &countingRepo{Repository: mem}
	repo := searchcache.New(inner, newFakeStore(), time.Minute, nil, nil)

	boom := errors.New("db down")
	mem.FailReads(boom)
	if _, err := repo.Search(ctx, advocaterepo.Query{Term: "x"}); !errors.Is(err, boom) {
		t.Fatalf("Search() err=%v, want %v", err, boom)
	}

	mem.FailReads(nil)
	res, err := repo.Search(ctx, advocaterepo.Query{Term: "x"})
	if err != nil {
		t.Fatalf("Search() after recovery err=%v", err)
	}
	if res == nil || len(res) != 0 {
		t.Fatalf("Search()=%#v, want empty non-nil", res)
	}
}

func TestRepo_SharedSearchOutlivesCancelledCaller(t *testing.T) {
	t.Parallel()

	mem := memadvocaterepo.NewRepo()
	seed(t, mem, "Jane", "Austin")
	inner := &blockingRepo{Repository: mem, started: make(chan struct{}), release: make(chan struct{})}
	store := newFakeStore()
	repo := searchcache.New(inner, store, time.Minute, nil, nil)
	q := advocaterepo.Query{Term: "austin"}

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	errA := make(chan error, 1)
	go func() {
		_, err := repo.Search(ctxA, q)
		errA <- err
	}()
	<-inner.started

	type result struct {
		res []advocaterepo.Advocate
		err error
	}
	doneB := make(chan result, 1)
	go func() {
		res, err := repo.Search(context.Background(), q)
		doneB <- result{res: res, err: err}
	}()

	// Each caller reads the generation and the entry before joining the search.
	deadline := time.Now().Add(5 * time.Second)
	for store.getCount() < 4 {
		if time.Now().After(deadline) {
			t.Fatalf("second caller never reached the cache")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("cancelled caller err=%v, want %v", err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("cancelled caller did not return")
	}

	close(inner.release)
	select {
	case r := <-doneB:
		if r.err != nil {
			t.Fatalf("Search() err=%v", r.err)
		}
		if len(r.res) != 1 || r.res[0].FirstName != "Jane" {
			t.Fatalf("Search()=%+v", r.res)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("second caller did not return")
	}
}

func TestWrap_EmptyURLLeavesRepositoryUncached(t *testing.T) {
	t.Parallel()

	mem := memadvocaterepo.NewRepo()
	repo, closeFn, err := searchcache.Wrap(context.Background(), mem, "", time.Minute, nil, nil)
	if err != nil {
		t.Fatalf("Wrap() err=%v", err)
	}
	if repo != advocaterepo.Repository(mem) {
		t.Fatalf("Wrap() returned %T, want the repository itself", repo)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close err=%v", err)
	}
}
