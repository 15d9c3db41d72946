package progress

import (
	"context"
	"github.com/viant/wfcloud/internal/clock"
	"sync"
	"time"
)

// Delta represents an incremental counter change.
type Delta struct {
	Total     int
	Converted int
	Failed    int
	Nodes     int
	Changed   int
}

// Counters represents a point in time view of batch counters.
type Counters struct {
	Batch     string
	StartedAt time.Time

	TotalDocuments     int
	ConvertedDocuments int
	FailedDocuments    int
	Nodes              int
	ChangedNodes       int
}

// Pending returns number of documents neither converted nor failed
func (c Counters) Pending() int {
	return c.TotalDocuments - c.ConvertedDocuments - c.FailedDocuments
}

// Progress keeps aggregated batch counters. It is safe for concurrent use.
type Progress struct {
	counters Counters
	mux      sync.Mutex
	onChange func(Counters)
}

// Update applies the supplied delta. The onChange callback (if any) receives
// a copy taken while the lock is held and is invoked outside the critical
// section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mux.Lock()
	p.counters.TotalDocuments += d.Total
	p.counters.ConvertedDocuments += d.Converted
	p.counters.FailedDocuments += d.Failed
	p.counters.Nodes += d.Nodes
	p.counters.ChangedNodes += d.Changed
	snapshot := p.counters
	cb := p.onChange
	p.mux.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Pending returns number of documents neither converted nor failed
func (p *Progress) Pending() int {
	if p == nil {
		return 0
	}
	return p.Snapshot().Pending()
}

// Snapshot returns a copy of the counters suitable for read-only inspection.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.counters
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables the callback.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.onChange = cb
	p.mux.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new tracker, embeds it in a derived context and
// returns both.
func WithNewTracker(ctx context.Context, batch string, onChange func(Counters)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		counters: Counters{Batch: batch, StartedAt: clock.Now()},
		onChange: onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies the delta to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
