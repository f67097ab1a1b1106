// Package handler implements the HTTP handlers of the directory: listings,
// search, detail pages and the create/edit/delete forms of venues,
// artists, shows and albums.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/cache"
	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/logging"
	"github.com/iliyamo/fyyur/internal/metrics"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/session"
)

// VenueStore is the venue persistence used by the handlers.
type VenueStore interface {
	Latest(ctx context.Context, limit int) ([]model.Venue, error)
	ListAreas(ctx context.Context) ([]model.Area, error)
	UpcomingCounts(ctx context.Context, now time.Time) (map[uint64]int, error)
	Search(ctx context.Context, term string, now time.Time) (model.SearchResult, error)
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	Create(ctx context.Context, v *model.Venue) error
	Update(ctx context.Context, v *model.Venue) error
	Delete(ctx context.Context, id uint64) error
}

// ArtistStore is the artist persistence used by the handlers.
type ArtistStore interface {
	Latest(ctx context.Context, limit int) ([]model.Artist, error)
	ListAll(ctx context.Context) ([]model.ArtistSummary, error)
	Search(ctx context.Context, term string, now time.Time) (model.SearchResult, error)
	GetByID(ctx context.Context, id uint64) (*model.Artist, error)
	Create(ctx context.Context, a *model.Artist) error
	Update(ctx context.Context, a *model.Artist) error
	Delete(ctx context.Context, id uint64) error
}

// ShowStore is the show persistence used by the handlers.
type ShowStore interface {
	ListAll(ctx context.Context) ([]model.ShowListing, error)
	Create(ctx context.Context, s *model.Show) error
	ForVenue(ctx context.Context, venueID uint64, now time.Time) (upcoming, past []model.VenueShow, err error)
	ForArtist(ctx context.Context, artistID uint64, now time.Time) (upcoming, past []model.ArtistShow, err error)
}

// AlbumStore is the discography persistence used by the handlers.
type AlbumStore interface {
	ListByArtist(ctx context.Context, artistID uint64) ([]model.AlbumSummary, error)
	GetByID(ctx context.Context, id uint64) (*model.Album, error)
	Tracks(ctx context.Context, albumID uint64) ([]model.Track, error)
	Create(ctx context.Context, a *model.Album) error
	AddSong(ctx context.Context, s *model.Song) error
}

// Flasher queues a notification for the next rendered page.
type Flasher interface {
	AddFlash(c echo.Context, category, message string)
}

// homeLimit is how many venues and artists the home page shows.
const homeLimit = 5

// publishTimeout bounds the broker round trip of one activity event.
const publishTimeout = 3 * time.Second

// Handler bundles the stores and collaborators every route needs.
type Handler struct {
	Venues  VenueStore
	Artists ArtistStore
	Shows   ShowStore
	Albums  AlbumStore
	Flash   Flasher

	Cache  *cache.Cache     // nil disables listing caching
	Events queue.Publisher  // receives one event per committed write
	Now    func() time.Time // clock, replaced in tests
}

// NewHandler constructs a Handler and panics if a required dependency is
// nil. Cache stays disabled and events are dropped until set.
func NewHandler(venues VenueStore, artists ArtistStore, shows ShowStore, albums AlbumStore, flash Flasher) *Handler {
	if venues == nil || artists == nil || shows == nil || albums == nil || flash == nil {
		panic("nil dependency passed to NewHandler")
	}
	return &Handler{
		Venues:  venues,
		Artists: artists,
		Shows:   shows,
		Albums:  albums,
		Flash:   flash,
		Events:  queue.NopPublisher{},
		Now:     time.Now,
	}
}

// now returns the request's reference time in UTC. Callers take it once
// per request so every partition in a page agrees.
func (h *Handler) now() time.Time {
	return h.Now().UTC()
}

// parseID reads a numeric path parameter. Anything that is not a positive
// integer does not name a row, so it is a 404 like an unknown id.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound)
	}
	return id, nil
}

// notFound turns a repository sentinel into a 404 and passes anything else
// through for the error handler.
func notFound(err error, sentinels ...error) error {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
		}
	}
	return err
}

// bindForm binds the submitted fields into f, normalizes them and runs the
// validation rules. A nil error with non-nil Errors means the form must be
// shown again.
func bindForm[F interface{ Normalize() }](c echo.Context, f F) (form.Errors, error) {
	if err := c.Bind(f); err != nil {
		return nil, err
	}
	f.Normalize()
	err := form.Validate(f)
	if err == nil {
		return nil, nil
	}
	var errs form.Errors
	if errors.As(err, &errs) {
		return errs, nil
	}
	return nil, err
}

// persistFailed records a rejected write: the cause goes to the log and
// the metrics, the user gets msg on the next page.
func (h *Handler) persistFailed(c echo.Context, entity, op string, err error, msg string) {
	logging.Ctx(c.Request().Context()).Error().Err(err).
		Str("entity", entity).Str("op", op).Msg("persistence failure")
	metrics.RecordPersistenceFailure(entity, op)
	h.Flash.AddFlash(c, session.CategoryError, msg)
}

// committed runs after every successful write. Listing caches are dropped
// and an activity event goes out; neither can fail the request.
func (h *Handler) committed(c echo.Context, entity, action string, id uint64, name string) {
	ctx := c.Request().Context()
	log := logging.Ctx(ctx)
	if err := h.Cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
	if h.Events == nil {
		return
	}
	ev := queue.ActivityEvent{
		Entity:     entity,
		Action:     action,
		EntityID:   id,
		Name:       name,
		RequestID:  logging.RequestIDFromContext(ctx),
		OccurredAt: h.now(),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := h.Events.Publish(pctx, ev); err != nil {
		log.Warn().Err(err).Str("event", ev.Kind()).Msg("activity event not published")
	}
}

// render writes page name with status 200.
func render(c echo.Context, name string, data echo.Map) error {
	return c.Render(http.StatusOK, name, data)
}
