package services

import (
	"fmt"
	"maps"
	"office-locator-service/internal/domain"
	"slices"
	"sync"
	"sync/atomic"
)

// Zoom levels handed to the view layer.
const (
	OverviewZoom = 4
	RecenterZoom = 12
	OfficeZoom   = 14
)

// OverviewCenter is shown before any reference location is known.
var OverviewCenter = domain.Coordinate{Lon: -98.35, Lat: 39.5}

// Focus is a map position for the view layer.
type Focus struct {
	Center domain.Coordinate
	Zoom   int
}

// Snapshot is an immutable view of the engine state.
// Version increases with every published change. Metadata maps of the
// ranked offices are private copies and must be treated as read-only.
type Snapshot struct {
	Version     uint64
	Reference   *domain.ReferenceLocation
	Result      domain.RankedResult
	OfficeCount int
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Engine keeps the ranked office list current as the office dataset or the
// reference location changes. Every change triggers a full re-rank and a new
// Snapshot; results are never patched in place.
//
// Reference locations are installed with a ticket taken from NextTicket.
// A ticket older than the installed one is rejected, so the most recently
// issued resolution wins regardless of completion order.
type Engine struct {
	unit Unit
	seq  atomic.Uint64

	// held from state change through subscriber delivery so observers
	// see snapshots in Version order
	pubMu sync.Mutex

	mu        sync.RWMutex
	offices   []domain.OfficeRecord
	reference *domain.ReferenceLocation
	refTicket uint64
	snapshot  Snapshot

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
}

func NewEngine(unit Unit) *Engine {
	return &Engine{
		unit: unit,
		snapshot: Snapshot{
			Result: domain.RankedResult{Unit: unit.Name, Offices: []domain.RankedOffice{}},
		},
	}
}

// NextTicket issues the sequence number for a new resolution request.
func (e *Engine) NextTicket() uint64 {
	return e.seq.Add(1)
}

// SetOffices replaces the office dataset and re-ranks.
func (e *Engine) SetOffices(offices []domain.OfficeRecord) Snapshot {
	owned := make([]domain.OfficeRecord, len(offices))
	for i, o := range offices {
		o.Metadata = maps.Clone(o.Metadata)
		owned[i] = o
	}

	e.pubMu.Lock()
	defer e.pubMu.Unlock()

	e.mu.Lock()
	e.offices = owned
	snap := e.publishLocked()
	e.mu.Unlock()

	e.notify(snap)
	return snap
}

// InstallReference installs ref if ticket is newer than the ticket of the
// current reference. It reports whether ref was installed.
func (e *Engine) InstallReference(ticket uint64, ref domain.ReferenceLocation) (Snapshot, bool) {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()

	e.mu.Lock()
	if ticket <= e.refTicket {
		snap := e.snapshot
		e.mu.Unlock()
		return snap, false
	}
	e.reference = &ref
	e.refTicket = ticket
	snap := e.publishLocked()
	e.mu.Unlock()

	e.notify(snap)
	return snap, true
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// Reference returns the installed reference location, if any.
func (e *Engine) Reference() (domain.ReferenceLocation, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.reference == nil {
		return domain.ReferenceLocation{}, false
	}
	return *e.reference, true
}

// Recenter returns the focus for the last known reference location.
// Without one it returns the overview focus and ErrNoReference.
func (e *Engine) Recenter() (Focus, error) {
	ref, ok := e.Reference()
	if !ok {
		return Focus{Center: OverviewCenter, Zoom: OverviewZoom}, domain.ErrNoReference
	}
	return Focus{Center: ref.Coordinate, Zoom: RecenterZoom}, nil
}

// FocusOffice returns the focus for an office of the current ranking.
func (e *Engine) FocusOffice(id string) (Focus, error) {
	snap := e.Snapshot()
	o, ok := snap.Result.Find(id)
	if !ok {
		return Focus{}, fmt.Errorf("focus office %q: %w", id, domain.ErrUnknownOffice)
	}
	return Focus{Center: o.Coordinate, Zoom: OfficeZoom}, nil
}

// Subscribe registers fn to receive every new snapshot. The returned func
// removes the subscription. fn runs on the goroutine that caused the change,
// one snapshot at a time in Version order, and must not call SetOffices or
// InstallReference.
func (e *Engine) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscriber{id: id, fn: fn})

	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		e.subs = slices.DeleteFunc(e.subs, func(s subscriber) bool { return s.id == id })
	}
}

// publishLocked recomputes the ranking. e.mu must be held for writing.
func (e *Engine) publishLocked() Snapshot {
	result := domain.RankedResult{Unit: e.unit.Name, Offices: []domain.RankedOffice{}}
	var ref *domain.ReferenceLocation
	if e.reference != nil {
		r := *e.reference
		ref = &r
		result = Rank(e.offices, r, e.unit)
	}

	e.snapshot = Snapshot{
		Version:     e.snapshot.Version + 1,
		Reference:   ref,
		Result:      result,
		OfficeCount: len(e.offices),
	}
	return e.snapshot
}

func (e *Engine) notify(snap Snapshot) {
	e.subMu.Lock()
	subs := slices.Clone(e.subs)
	e.subMu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}
