package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/platform/obs"
	"office-locator-service/internal/ports"
	"strings"
	"sync/atomic"
	"time"
)

const DefaultLookupTimeout = 5 * time.Second

// Resolution is the outcome of a successful location resolution.
// Applied is false when the result was superseded by a newer request
// and therefore discarded.
type Resolution struct {
	Reference domain.ReferenceLocation
	Applied   bool
	Snapshot  Snapshot
}

// LocationProvider resolves reference locations from the device capability
// or a textual lookup and installs them into the Engine.
//
// Failures never modify the engine: the previous reference location and
// ranking stay as they were.
type LocationProvider struct {
	engine        *Engine
	geocoder      ports.Geocoder
	device        ports.DeviceLocator
	lookupTimeout time.Duration
	now           func() time.Time

	// highest ticket issued to a textual lookup
	lastLookup atomic.Uint64
}

func NewLocationProvider(
	engine *Engine,
	geocoder ports.Geocoder,
	device ports.DeviceLocator,
	lookupTimeout time.Duration,
) *LocationProvider {
	if lookupTimeout <= 0 {
		lookupTimeout = DefaultLookupTimeout
	}
	return &LocationProvider{
		engine:        engine,
		geocoder:      geocoder,
		device:        device,
		lookupTimeout: lookupTimeout,
		now:           time.Now,
	}
}

// ResolveDevice requests a one-shot position from the device locator.
func (p *LocationProvider) ResolveDevice(ctx context.Context) (_ Resolution, err error) {
	defer obs.Time(ctx, "location.ResolveDevice")(&err)

	return p.ResolveWith(ctx, p.device)
}

// ResolveWith resolves a device position through locator instead of the
// provider's default. Used when each caller carries its own capability,
// e.g. a browser reporting its own fix.
func (p *LocationProvider) ResolveWith(ctx context.Context, locator ports.DeviceLocator) (Resolution, error) {
	if locator == nil {
		return Resolution{}, fmt.Errorf("resolve device: %w: geolocation is not supported", domain.ErrLocationUnavailable)
	}

	ticket := p.engine.NextTicket()

	c, err := locator.CurrentPosition(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrLocationUnavailable) {
			return Resolution{}, fmt.Errorf("resolve device: %w", err)
		}
		return Resolution{}, fmt.Errorf("resolve device: %w: %v", domain.ErrLocationUnavailable, err)
	}
	if err := c.Validate(); err != nil {
		return Resolution{}, fmt.Errorf("resolve device: %w: %v", domain.ErrLocationUnavailable, err)
	}

	ref := domain.ReferenceLocation{
		Coordinate: c,
		Source:     domain.SourceDevice,
		ResolvedAt: p.now(),
	}
	snap, applied := p.engine.InstallReference(ticket, ref)
	if !applied {
		slog.InfoContext(ctx, "device fix discarded: newer reference installed",
			slog.Uint64("ticket", ticket),
		)
	}

	return Resolution{Reference: ref, Applied: applied, Snapshot: snap}, nil
}

// Lookup geocodes a free-text address or ZIP and installs the first
// candidate as the reference location. A blank query is a no-op.
func (p *LocationProvider) Lookup(ctx context.Context, query string) (_ Resolution, err error) {
	defer obs.Time(ctx, "location.Lookup")(&err)

	q := strings.TrimSpace(query)
	if q == "" {
		return Resolution{Snapshot: p.engine.Snapshot()}, nil
	}

	if p.geocoder == nil {
		return Resolution{}, fmt.Errorf("lookup %q: %w: no geocoder configured", q, domain.ErrLookupFailed)
	}

	ticket := p.engine.NextTicket()
	p.markLookup(ticket)

	lookupCtx, cancel := context.WithTimeout(ctx, p.lookupTimeout)
	defer cancel()

	c, err := p.geocoder.Geocode(lookupCtx, q)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoMatchFound), errors.Is(err, domain.ErrLookupFailed):
			return Resolution{}, fmt.Errorf("lookup %q: %w", q, err)
		default:
			return Resolution{}, fmt.Errorf("lookup %q: %w: %v", q, domain.ErrLookupFailed, err)
		}
	}
	if err := c.Validate(); err != nil {
		return Resolution{}, fmt.Errorf("lookup %q: %w: %v", q, domain.ErrLookupFailed, err)
	}

	ref := domain.ReferenceLocation{
		Coordinate: c,
		Source:     domain.SourceLookup,
		RawInput:   q,
		ResolvedAt: p.now(),
	}

	if ticket < p.lastLookup.Load() {
		slog.InfoContext(ctx, "lookup result discarded: superseded by newer lookup",
			slog.String("query", q),
			slog.Uint64("ticket", ticket),
		)
		return Resolution{Reference: ref, Snapshot: p.engine.Snapshot()}, nil
	}

	snap, applied := p.engine.InstallReference(ticket, ref)
	return Resolution{Reference: ref, Applied: applied, Snapshot: snap}, nil
}

func (p *LocationProvider) markLookup(ticket uint64) {
	for {
		cur := p.lastLookup.Load()
		if ticket <= cur || p.lastLookup.CompareAndSwap(cur, ticket) {
			return
		}
	}
}
