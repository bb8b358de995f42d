package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status of a single check or of the whole report.
type Status string

const (
	Healthy   Status = "Healthy"
	Unhealthy Status = "Unhealthy"
)

// Entry is the outcome of one check.
type Entry struct {
	Status      Status         `json:"status"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data"`
}

// Report aggregates all checks. Status is Unhealthy if any entry is.
type Report struct {
	Status  Status           `json:"status"`
	Results map[string]Entry `json:"results"`
}

// Checker inspects one dependency of the site.
type Checker interface {
	Check(ctx context.Context) Entry
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) Entry

func (f CheckFunc) Check(ctx context.Context) Entry { return f(ctx) }

// Registry holds named checks and runs them concurrently.
type Registry struct {
	timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Checker
}

// NewRegistry creates a Registry whose checks each get the given deadline.
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{timeout: timeout, checks: make(map[string]Checker)}
}

// Register adds or replaces the check stored under name.
func (r *Registry) Register(name string, c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = c
}

// Names lists registered checks in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.checks))
	for n := range r.checks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run executes every check. A check that does not answer before its
// deadline is reported Unhealthy.
func (r *Registry) Run(ctx context.Context) Report {
	r.mu.RLock()
	checks := make(map[string]Checker, len(r.checks))
	for n, c := range r.checks {
		checks[n] = c
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		results = make(map[string]Entry, len(checks))
	)
	g, gctx := errgroup.WithContext(ctx)
	for name, c := range checks {
		name, c := name, c
		g.Go(func() error {
			e := r.runOne(gctx, c)
			mu.Lock()
			results[name] = e
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{Status: Healthy, Results: results}
	for _, e := range results {
		if e.Status != Healthy {
			rep.Status = Unhealthy
			break
		}
	}
	return rep
}

func (r *Registry) runOne(ctx context.Context, c Checker) Entry {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	done := make(chan Entry, 1)
	go func() { done <- c.Check(ctx) }()

	select {
	case e := <-done:
		if e.Status == "" {
			e.Status = Healthy
		}
		if e.Data == nil {
			e.Data = map[string]any{}
		}
		return e
	case <-ctx.Done():
		return Entry{
			Status:      Unhealthy,
			Description: "check timed out: " + ctx.Err().Error(),
			Data:        map[string]any{},
		}
	}
}
