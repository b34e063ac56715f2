// Package directory implements the advocate directory view: a search box over
// a table of advocates with debounced input, a minimum visible loading
// duration and latest-request-wins result handling.
//
// The view owns all display state. Frontends (the terminal client, tests)
// drive it through SetSearchTerm/Clear and read it back with Snapshot or
// Render after a signal on Changes.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
	clockport "github.com/solace-advocates/advocate-directory-api/internal/ports/out/clock"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
)

const (
	DefaultDebounce   = 200 * time.Millisecond
	DefaultMinLoading = 500 * time.Millisecond

	MessageLoading      = "Loading advocates..."
	MessageInitialError = "We couldn't fetch advocates. Please try again by refreshing the page"
	MessageSearchError  = "Error loading advocates"
	MessageEmpty        = "No advocates found"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Strategy selects where filtering happens.
type Strategy string

const (
	// StrategyServer sends every debounced term to the search endpoint.
	StrategyServer Strategy = "server"
	// StrategyClient fetches the full list once and filters it locally.
	StrategyClient Strategy = "client"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyServer, StrategyClient:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown directory strategy %q (expected server|client)", s)
	}
}

// Source fetches advocates matching a term. An empty term means all advocates.
type Source interface {
	Fetch(ctx context.Context, term string) ([]domain.Advocate, error)
}

type Config struct {
	Source Source
	Clock  clockport.Scheduler

	// Debounce is the input inactivity window before a search runs.
	Debounce time.Duration
	// MinLoading is the shortest time the loading state stays visible for a
	// fetch. It never delays a fetch that is already slower.
	MinLoading time.Duration

	Strategy Strategy
	// Policy is used by StrategyClient. The zero value is the default policy.
	Policy search.Policy
}

// Snapshot is a copy of the view's display state.
type Snapshot struct {
	State State
	// Term is the current contents of the search box.
	Term string
	// Query is the term the displayed advocates were produced for.
	Query     string
	Advocates []domain.Advocate
	// Message is the user-facing text for the loading, error and empty states.
	Message string
}

// Empty reports whether a completed search produced no advocates.
func (s Snapshot) Empty() bool {
	return s.State == StateReady && len(s.Advocates) == 0
}

type request struct {
	id      uint64
	term    string
	initial bool
	cancel  context.CancelFunc
	floor   clockport.Timer

	floorElapsed bool
	done         bool
	result       []domain.Advocate
	err          error
}

// View is safe for concurrent use.
type View struct {
	src      Source
	clk      clockport.Scheduler
	debounce time.Duration
	floor    time.Duration
	strategy Strategy
	policy   search.Policy

	changes chan struct{}

	mu        sync.Mutex
	ctx       context.Context
	cancelCtx context.CancelFunc
	mounted   bool
	closed    bool

	state     State
	term      string
	query     string
	advocates []domain.Advocate
	message   string

	debounceTimer clockport.Timer
	debounceGen   uint64

	seq     uint64
	current *request

	// all holds the full list under StrategyClient once loaded.
	all    []domain.Advocate
	loaded bool
}

func New(cfg Config) (*View, error) {
	if cfg.Source == nil {
		return nil, errors.New("directory: nil source")
	}
	if cfg.Clock == nil {
		return nil, errors.New("directory: nil clock")
	}
	if cfg.Debounce < 0 || cfg.MinLoading < 0 {
		return nil, errors.New("directory: negative debounce or loading floor")
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyServer
	}
	if _, err := ParseStrategy(string(cfg.Strategy)); err != nil {
		return nil, err
	}
	return &View{
		src:       cfg.Source,
		clk:       cfg.Clock,
		debounce:  cfg.Debounce,
		floor:     cfg.MinLoading,
		strategy:  cfg.Strategy,
		policy:    cfg.Policy,
		changes:   make(chan struct{}, 1),
		state:     StateIdle,
		advocates: []domain.Advocate{},
	}, nil
}

// Changes signals after every display state change. Signals coalesce; read
// Snapshot for the current state.
func (v *View) Changes() <-chan struct{} {
	return v.changes
}

// Mount starts the initial load. Only the first call has an effect.
// ctx bounds every fetch the view makes.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted || v.closed {
		return
	}
	v.mounted = true
	v.ctx, v.cancelCtx = context.WithCancel(ctx)
	v.startLocked(v.term, true)
}

// SetSearchTerm records new search box contents and restarts the debounce
// window. The search runs once the window elapses without another change.
func (v *View) SetSearchTerm(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || term == v.term {
		return
	}
	v.term = term
	v.notifyLocked()
	if !v.mounted {
		return
	}

	if v.debounceTimer != nil {
		v.debounceTimer.Stop()
	}
	v.debounceGen++
	gen := v.debounceGen
	v.debounceTimer = v.clk.AfterFunc(v.debounce, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed || gen != v.debounceGen {
			return
		}
		v.debounceTimer = nil
		v.startLocked(term, false)
	})
}

// Clear empties the search box.
func (v *View) Clear() {
	v.SetSearchTerm("")
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := Snapshot{
		State:     v.state,
		Term:      v.term,
		Query:     v.query,
		Message:   v.message,
		Advocates: make([]domain.Advocate, 0, len(v.advocates)),
	}
	for _, a := range v.advocates {
		out.Advocates = append(out.Advocates, a.Clone())
	}
	return out
}

// Close stops pending timers and abandons in-flight fetches.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.debounceTimer != nil {
		v.debounceTimer.Stop()
		v.debounceTimer = nil
	}
	v.abandonLocked()
	if v.cancelCtx != nil {
		v.cancelCtx()
	}
}

func (v *View) abandonLocked() {
	if v.current == nil {
		return
	}
	if v.current.floor != nil {
		v.current.floor.Stop()
	}
	v.current.cancel()
	v.current = nil
}

// startLocked supersedes any in-flight request and begins a new one.
func (v *View) startLocked(term string, initial bool) {
	v.abandonLocked()
	v.seq++
	ctx, cancel := context.WithCancel(v.ctx)
	req := &request{id: v.seq, term: term, initial: initial, cancel: cancel}
	v.current = req

	v.state = StateLoading
	v.message = MessageLoading
	v.notifyLocked()

	if v.strategy == StrategyClient && v.loaded {
		req.done = true
		req.floorElapsed = true
		req.result = v.policy.Filter(v.all, term)
		v.finishLocked(req)
		return
	}

	if v.floor > 0 {
		req.floor = v.clk.AfterFunc(v.floor, func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			req.floorElapsed = true
			if req.done {
				v.finishLocked(req)
			}
		})
	} else {
		req.floorElapsed = true
	}

	fetchTerm := term
	if v.strategy == StrategyClient {
		fetchTerm = ""
	}
	go v.fetch(ctx, req, fetchTerm)
}

func (v *View) fetch(ctx context.Context, req *request, fetchTerm string) {
	res, err := v.src.Fetch(ctx, fetchTerm)

	v.mu.Lock()
	defer v.mu.Unlock()
	if req != v.current {
		return
	}
	req.done = true
	req.err = err
	if err == nil {
		if v.strategy == StrategyClient {
			v.all = res
			v.loaded = true
			res = v.policy.Filter(res, req.term)
		}
		req.result = res
	}
	if req.floorElapsed {
		v.finishLocked(req)
	}
}

// finishLocked applies req's outcome unless a newer request has started.
func (v *View) finishLocked(req *request) {
	if req != v.current || v.closed {
		return
	}
	v.current = nil
	req.cancel()

	if req.err != nil {
		v.state = StateError
		v.advocates = []domain.Advocate{}
		v.query = req.term
		if req.initial {
			v.message = MessageInitialError
		} else {
			v.message = MessageSearchError
		}
		v.notifyLocked()
		return
	}

	v.state = StateReady
	v.query = req.term
	v.advocates = make([]domain.Advocate, 0, len(req.result))
	for _, a := range req.result {
		v.advocates = append(v.advocates, a.Clone())
	}
	v.message = ""
	if len(v.advocates) == 0 {
		v.message = MessageEmpty
	}
	v.notifyLocked()
}

func (v *View) notifyLocked() {
	select {
	case v.changes <- struct{}{}:
	default:
	}
}
