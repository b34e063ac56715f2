package advocaterepo

import (
	"context"
	"errors"
	"sync"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
	"github.com/solace-advocates/advocate-directory-api/internal/ports/out/advocaterepo"
)

// Repo is an in-memory implementation of advocaterepo.Repository.
// Natural scan order is insertion order. It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	order []domain.AdvocateID
	byID  map[domain.AdvocateID]advocaterepo.Advocate

	// failWith, when set, is returned by every read. Tests use it to
	// simulate a store outage.
	failWith error
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.AdvocateID]advocaterepo.Advocate),
	}
}

// FailReads makes subsequent reads return err; nil restores normal behavior.
func (r *Repo) FailReads(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

func (r *Repo) Create(ctx context.Context, a advocaterepo.Advocate) error {
	_ = ctx
	if a.ID == "" {
		return errors.New("advocate id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; ok {
		return advocaterepo.ErrAlreadyExists
	}
	r.byID[a.ID] = cloneAdvocate(a)
	r.order = append(r.order, a.ID)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AdvocateID) (advocaterepo.Advocate, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return advocaterepo.Advocate{}, r.failWith
	}
	a, ok := r.byID[id]
	if !ok {
		return advocaterepo.Advocate{}, advocaterepo.ErrNotFound
	}
	return cloneAdvocate(a), nil
}

func (r *Repo) List(ctx context.Context) ([]advocaterepo.Advocate, error) {
	return r.Search(ctx, advocaterepo.Query{})
}

func (r *Repo) Search(ctx context.Context, q advocaterepo.Query) ([]advocaterepo.Advocate, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failWith != nil {
		return nil, r.failWith
	}

	out := make([]advocaterepo.Advocate, 0, len(r.order))
	for _, id := range r.order {
		a := r.byID[id]
		if !q.Policy.Matches(advocaterepo.ToDomain(a), q.Term) {
			continue
		}
		out = append(out, cloneAdvocate(a))
	}
	return out, nil
}

func cloneAdvocate(a advocaterepo.Advocate) advocaterepo.Advocate {
	out := a
	out.Specialties = domain.CloneSpecialties(a.Specialties)
	return out
}
