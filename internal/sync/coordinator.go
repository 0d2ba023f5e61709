package sync

import (
	"context"
	"io"
	"log/slog"
	"strings"
	gosync "sync"
	"time"

	"github.com/doorstep-crm/doorstep/internal/mirror"
	"github.com/doorstep-crm/doorstep/internal/record"
)

// Coordinator applies logical writes across the record store and the
// relational mirror.
//
// Thread-safety: Coordinator methods are safe from any goroutine. Logical
// writes hold the writes mutex end to end, so a find-or-create never races
// another write between its lookup and its insert; the record store and the
// mirror additionally serialize their own mutations. Pending geocode
// resolutions are tracked per prospect so DeleteProspect can cancel them.
type Coordinator struct {
	records     *record.Store
	mirror      *mirror.Mirror
	geocoder    Geocoder
	locator     Locator
	logger      *slog.Logger
	defaultList string

	// writes serializes whole logical writes (match, insert, append,
	// mirror), not just the individual store mutations inside them.
	writes gosync.Mutex

	mu      gosync.Mutex
	pending map[string]context.CancelFunc
	closed  bool
	wg      gosync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithGeocoder supplies the external address-resolution collaborator.
// Without one, prospects simply stay unlocated.
func WithGeocoder(g Geocoder) Option {
	return func(c *Coordinator) { c.geocoder = g }
}

// WithLocator supplies the external location-sensing collaborator.
// Without one, knock coordinates default to (0, 0).
func WithLocator(l Locator) Option {
	return func(c *Coordinator) { c.locator = l }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithDefaultList overrides the list assigned to prospects created by a
// knock at an unseen address. Blank falls back to record.DefaultList.
func WithDefaultList(list string) Option {
	return func(c *Coordinator) { c.defaultList = list }
}

// New creates a Coordinator over the given stores.
func New(records *record.Store, m *mirror.Mirror, opts ...Option) *Coordinator {
	c := &Coordinator{
		records: records,
		mirror:  m,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		pending: make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RecordKnock records a visit attempt at an address for the given actor.
//
// The address is matched against the actor's existing prospects by
// normalized-address identity. On a match the knock is appended and, when
// the prospect has a mirror row, mirrored. Otherwise a new prospect is
// created with default name and list, inserted into the mirror to capture a
// row id, and the first knock row is mirrored using that id. The returned
// prospect reflects the record store after the write.
func (c *Coordinator) RecordKnock(ctx context.Context, actorEmail, address, status string) (record.Prospect, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return record.Prospect{}, record.ErrEmptyAddress
	}

	c.writes.Lock()
	defer c.writes.Unlock()

	coord := Coordinate{}
	if c.locator != nil {
		if cur, ok := c.locator.Current(); ok {
			coord = cur
		}
	}
	knock := record.Knock{
		Date:      time.Now(),
		Status:    status,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		UserEmail: actorEmail,
	}

	if existing, ok := c.records.FindByAddress(actorEmail, address); ok {
		updated, err := c.records.AppendKnock(existing.ID, knock)
		if err != nil {
			return record.Prospect{}, err
		}
		if updated.MirrorRowID != 0 {
			c.mirrorKnock(ctx, updated.ID, updated.MirrorRowID, knock)
		}
		return updated, nil
	}

	created, err := c.records.InsertProspect("", address, c.defaultList, actorEmail)
	if err != nil {
		return record.Prospect{}, err
	}
	updated, err := c.records.AppendKnock(created.ID, knock)
	if err != nil {
		return record.Prospect{}, err
	}

	if rowID, ok := c.mirrorProspect(ctx, updated); ok {
		updated.MirrorRowID = rowID
		c.mirrorKnock(ctx, updated.ID, rowID, knock)
	}

	c.resolveAsync(updated.ID, updated.Address)
	return updated, nil
}

// AddProspect explicitly creates a prospect with the given fields, mirrors
// it, and kicks off address resolution.
func (c *Coordinator) AddProspect(ctx context.Context, ownerEmail, fullName, address, list string) (record.Prospect, error) {
	c.writes.Lock()
	defer c.writes.Unlock()

	created, err := c.records.InsertProspect(fullName, address, list, ownerEmail)
	if err != nil {
		return record.Prospect{}, err
	}

	if rowID, ok := c.mirrorProspect(ctx, created); ok {
		created.MirrorRowID = rowID
	}

	c.resolveAsync(created.ID, created.Address)
	return created, nil
}

// EditProspect updates a prospect's name, address and list, addressed by its
// stable id. When the prospect has a mirror row the same fields are written
// there too, so the two representations never diverge once synchronized.
func (c *Coordinator) EditProspect(ctx context.Context, prospectID, fullName, address, list string) (record.Prospect, error) {
	c.writes.Lock()
	defer c.writes.Unlock()

	updated, err := c.records.UpdateProspect(prospectID, fullName, address, list)
	if err != nil {
		return record.Prospect{}, err
	}

	if updated.MirrorRowID != 0 {
		if err := c.mirror.UpdateProspect(ctx, updated.MirrorRowID, updated.FullName, updated.Address, updated.List); err != nil {
			c.logger.Warn("mirror update failed, record store remains authoritative",
				"prospect_id", updated.ID, "row_id", updated.MirrorRowID, "error", err)
		}
	}
	return updated, nil
}

// DeleteProspect removes a prospect and all of its knocks and notes, and
// cancels any in-flight address resolution for it.
func (c *Coordinator) DeleteProspect(prospectID string) error {
	c.writes.Lock()
	defer c.writes.Unlock()

	c.mu.Lock()
	if cancel, ok := c.pending[prospectID]; ok {
		cancel()
		delete(c.pending, prospectID)
	}
	c.mu.Unlock()

	return c.records.DeleteProspect(prospectID)
}

// AddNote appends an immutable note to a prospect. Content that is empty
// after trimming is rejected with record.ErrEmptyContent.
func (c *Coordinator) AddNote(prospectID, content, authorEmail string) (record.Note, error) {
	c.writes.Lock()
	defer c.writes.Unlock()

	return c.records.AppendNote(prospectID, content, authorEmail)
}

// Close cancels all pending resolutions and waits for their goroutines.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	for id, cancel := range c.pending {
		cancel()
		delete(c.pending, id)
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// mirrorProspect inserts the prospect into the mirror and stores the
// captured row id. Failures are logged and reported as ok=false; the caller
// keeps going with the graph-only prospect.
func (c *Coordinator) mirrorProspect(ctx context.Context, p record.Prospect) (int64, bool) {
	rowID, err := c.mirror.InsertProspect(ctx, p.FullName, p.Address, p.List)
	if err != nil {
		c.logger.Warn("mirror insert failed, prospect retained without mirror row",
			"prospect_id", p.ID, "error", err)
		return 0, false
	}
	if err := c.records.SetMirrorRowID(p.ID, rowID); err != nil {
		c.logger.Warn("storing mirror row id failed", "prospect_id", p.ID, "error", err)
		return 0, false
	}
	return rowID, true
}

// mirrorKnock inserts a knock row best-effort.
func (c *Coordinator) mirrorKnock(ctx context.Context, prospectID string, rowID int64, k record.Knock) {
	err := c.mirror.InsertKnock(ctx, rowID, k.Date, k.Status, k.Latitude, k.Longitude, k.UserEmail)
	if err != nil {
		c.logger.Warn("mirror knock insert failed",
			"prospect_id", prospectID, "row_id", rowID, "error", err)
	}
}

// resolveAsync starts a cancellable background resolution of the prospect's
// address. The result, if any, is written back through the record store's
// single-writer lock; a resolution that loses the race with DeleteProspect
// is dropped.
func (c *Coordinator) resolveAsync(prospectID, address string) {
	if c.geocoder == nil {
		return
	}

	rctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return
	}
	c.pending[prospectID] = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.pending, prospectID)
			c.mu.Unlock()
			cancel()
		}()

		coord, ok, err := c.geocoder.Resolve(rctx, address)
		if err != nil || !ok {
			// Absence is "not yet located", never an error on the write path.
			c.logger.Debug("address not resolved", "prospect_id", prospectID, "error", err)
			return
		}
		if rctx.Err() != nil {
			return
		}
		if err := c.records.SetCoordinate(prospectID, coord.Latitude, coord.Longitude); err != nil {
			c.logger.Debug("dropping late resolution", "prospect_id", prospectID, "error", err)
		}
	}()
}
