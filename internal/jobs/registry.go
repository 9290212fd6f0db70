package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Registry is the process-wide map of job id to job record. Every read
// returns a deep copy; every write is atomic with respect to readers.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Record
	now  func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Record), now: time.Now}
}

// Create stores a queued record with every step pending.
func (r *Registry) Create(id string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; ok {
		return Record{}, fmt.Errorf("create %s: %w", id, ErrDuplicateID)
	}
	rec := newRecord(id, r.now())
	r.jobs[id] = &rec
	return rec.clone(), nil
}

// Get returns a copy of the record for id.
func (r *Registry) Get(id string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.jobs[id]
	if !ok {
		return Record{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return rec.clone(), nil
}

// Merge applies the non-nil fields of patch. Unknown ids are ignored and
// reported as false. Progress is clamped to 0..100 and never decreases. A
// finished job keeps its status, result, and error. A move to completed
// without a result, or to failed without an error message, is refused as a
// whole and reported as false.
func (r *Registry) Merge(id string, patch Patch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok {
		return false
	}
	if !rec.Status.IsTerminal() && patch.Status != nil {
		switch *patch.Status {
		case StatusCompleted:
			if patch.Result == nil {
				return false
			}
		case StatusFailed:
			if patch.Error == nil || *patch.Error == "" {
				return false
			}
		}
	}
	if patch.Progress != nil {
		rec.Progress = mergeProgress(rec.Progress, *patch.Progress)
	}
	if !rec.Status.IsTerminal() {
		if patch.Status != nil {
			rec.Status = *patch.Status
		}
		rec.Result = nil
		rec.Error = ""
		switch rec.Status {
		case StatusCompleted:
			res := *patch.Result
			rec.Result = &res
		case StatusFailed:
			rec.Error = *patch.Error
		}
	}
	rec.UpdatedAt = r.now()
	return true
}

// SetStep moves a step to status and stamps it. Unknown jobs or steps and
// steps already done, skipped, or errored are left unchanged.
func (r *Registry) SetStep(id string, step StepID, status StepStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok {
		return false
	}
	for i := range rec.Steps {
		if rec.Steps[i].ID != step {
			continue
		}
		if rec.Steps[i].Status.IsTerminal() {
			return false
		}
		now := r.now()
		rec.Steps[i].Status = status
		rec.Steps[i].UpdatedAt = now
		rec.UpdatedAt = now
		return true
	}
	return false
}

// Len reports the number of jobs held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// Counts returns the number of jobs per status.
func (r *Registry) Counts() map[Status]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[Status]int, 4)
	for _, rec := range r.jobs {
		counts[rec.Status]++
	}
	return counts
}

// List returns copies of every record, newest first.
func (r *Registry) List() []Record {
	r.mu.RLock()
	out := make([]Record, 0, len(r.jobs))
	for _, rec := range r.jobs {
		out = append(out, rec.clone())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func mergeProgress(current, next int) int {
	next = min(max(next, 0), 100)
	return max(current, next)
}
