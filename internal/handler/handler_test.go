package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/cache"
	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/session"
	"github.com/iliyamo/fyyur/internal/view"
)

var testNow = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

// store is an in-memory stand-in for the MySQL repositories.
type store struct {
	mu      sync.Mutex
	venues  map[uint64]*model.Venue
	artists map[uint64]*model.Artist
	shows   []model.Show
	albums  map[uint64]*model.Album
	songs   []model.Song
	nextID  uint64

	createErr error
	updateErr error
	deleteErr error
	creates   int
}

func newStore() *store {
	return &store{
		venues:  map[uint64]*model.Venue{},
		artists: map[uint64]*model.Artist{},
		albums:  map[uint64]*model.Album{},
	}
}

func (s *store) id() uint64 {
	s.nextID++
	return s.nextID
}

type venueStore struct{ *store }

func (v venueStore) Latest(_ context.Context, limit int) ([]model.Venue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := []model.Venue{}
	for _, x := range v.venues {
		out = append(out, *x)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v venueStore) ListAreas(context.Context) ([]model.Area, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := []model.Area{}
	for _, x := range v.venues {
		out = append(out, model.Area{City: x.City, State: x.State, Venues: []model.VenueSummary{{ID: x.ID, Name: x.Name}}})
	}
	return out, nil
}

func (v venueStore) UpcomingCounts(_ context.Context, now time.Time) (map[uint64]int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := map[uint64]int{}
	for _, sh := range v.shows {
		if sh.StartTime.After(now) {
			out[sh.VenueID]++
		}
	}
	return out, nil
}

func (v venueStore) Search(_ context.Context, term string, _ time.Time) (model.SearchResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	res := model.SearchResult{Data: []model.SearchHit{}}
	for _, x := range v.venues {
		if strings.Contains(strings.ToLower(x.Name), strings.ToLower(term)) {
			res.Data = append(res.Data, model.SearchHit{ID: x.ID, Name: x.Name})
		}
	}
	res.Count = len(res.Data)
	return res, nil
}

func (v venueStore) GetByID(_ context.Context, id uint64) (*model.Venue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	x, ok := v.venues[id]
	if !ok {
		return nil, repository.ErrVenueNotFound
	}
	cp := *x
	return &cp, nil
}

func (v venueStore) Create(_ context.Context, x *model.Venue) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.createErr != nil {
		return v.createErr
	}
	v.creates++
	x.ID = v.id()
	cp := *x
	v.venues[x.ID] = &cp
	return nil
}

func (v venueStore) Update(_ context.Context, x *model.Venue) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.updateErr != nil {
		return v.updateErr
	}
	cp := *x
	v.venues[x.ID] = &cp
	return nil
}

func (v venueStore) Delete(_ context.Context, id uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.deleteErr != nil {
		return v.deleteErr
	}
	delete(v.venues, id)
	kept := v.shows[:0]
	for _, sh := range v.shows {
		if sh.VenueID != id {
			kept = append(kept, sh)
		}
	}
	v.shows = kept
	return nil
}

type artistStore struct{ *store }

func (a artistStore) Latest(_ context.Context, limit int) ([]model.Artist, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []model.Artist{}
	for _, x := range a.artists {
		out = append(out, *x)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a artistStore) ListAll(_ context.Context) ([]model.ArtistSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []model.ArtistSummary{}
	for _, x := range a.artists {
		out = append(out, model.ArtistSummary{ID: x.ID, Name: x.Name})
	}
	return out, nil
}

func (a artistStore) Search(_ context.Context, term string, _ time.Time) (model.SearchResult, error) {
	return model.SearchResult{Data: []model.SearchHit{}}, nil
}

func (a artistStore) GetByID(_ context.Context, id uint64) (*model.Artist, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	x, ok := a.artists[id]
	if !ok {
		return nil, repository.ErrArtistNotFound
	}
	cp := *x
	return &cp, nil
}

func (a artistStore) Create(_ context.Context, x *model.Artist) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.createErr != nil {
		return a.createErr
	}
	a.creates++
	x.ID = a.id()
	cp := *x
	a.artists[x.ID] = &cp
	return nil
}

func (a artistStore) Update(_ context.Context, x *model.Artist) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.updateErr != nil {
		return a.updateErr
	}
	cp := *x
	a.artists[x.ID] = &cp
	return nil
}

func (a artistStore) Delete(_ context.Context, id uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deleteErr != nil {
		return a.deleteErr
	}
	delete(a.artists, id)
	return nil
}

type showStore struct{ *store }

func (s showStore) ListAll(_ context.Context) ([]model.ShowListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.ShowListing{}
	for _, sh := range s.shows {
		out = append(out, model.ShowListing{
			VenueID: sh.VenueID, VenueName: s.venues[sh.VenueID].Name,
			ArtistID: sh.ArtistID, ArtistName: s.artists[sh.ArtistID].Name,
			StartTime: sh.StartTime,
		})
	}
	return out, nil
}

func (s showStore) Create(_ context.Context, sh *model.Show) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if s.venues[sh.VenueID] == nil || s.artists[sh.ArtistID] == nil {
		return &repository.PersistenceError{Op: "create show", Err: repository.ErrInvalidReference}
	}
	s.creates++
	sh.ID = s.id()
	s.shows = append(s.shows, *sh)
	return nil
}

func (s showStore) ForVenue(_ context.Context, venueID uint64, now time.Time) (upcoming, past []model.VenueShow, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range s.shows {
		if sh.VenueID != venueID {
			continue
		}
		row := model.VenueShow{ArtistID: sh.ArtistID, ArtistName: s.artists[sh.ArtistID].Name, StartTime: sh.StartTime}
		switch {
		case sh.StartTime.After(now):
			upcoming = append(upcoming, row)
		case sh.StartTime.Before(now):
			past = append(past, row)
		}
	}
	return upcoming, past, nil
}

func (s showStore) ForArtist(_ context.Context, artistID uint64, now time.Time) (upcoming, past []model.ArtistShow, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range s.shows {
		if sh.ArtistID != artistID {
			continue
		}
		row := model.ArtistShow{VenueID: sh.VenueID, VenueName: s.venues[sh.VenueID].Name, StartTime: sh.StartTime}
		switch {
		case sh.StartTime.After(now):
			upcoming = append(upcoming, row)
		case sh.StartTime.Before(now):
			past = append(past, row)
		}
	}
	return upcoming, past, nil
}

type albumStore struct{ *store }

func (a albumStore) ListByArtist(_ context.Context, artistID uint64) ([]model.AlbumSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []model.AlbumSummary{}
	for _, al := range a.albums {
		if al.ArtistID == artistID {
			out = append(out, model.AlbumSummary{Album: *al})
		}
	}
	return out, nil
}

func (a albumStore) GetByID(_ context.Context, id uint64) (*model.Album, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	al, ok := a.albums[id]
	if !ok {
		return nil, repository.ErrAlbumNotFound
	}
	cp := *al
	return &cp, nil
}

func (a albumStore) Tracks(_ context.Context, albumID uint64) ([]model.Track, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	songs := []model.Song{}
	for _, s := range a.songs {
		if s.AlbumID == albumID {
			songs = append(songs, s)
		}
	}
	return model.NumberTracks(songs), nil
}

func (a albumStore) Create(_ context.Context, al *model.Album) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.createErr != nil {
		return a.createErr
	}
	a.creates++
	al.ID = a.id()
	cp := *al
	a.albums[al.ID] = &cp
	return nil
}

func (a albumStore) AddSong(_ context.Context, s *model.Song) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.createErr != nil {
		return a.createErr
	}
	a.creates++
	s.ID = a.id()
	a.songs = append(a.songs, *s)
	return nil
}

type flashRecorder struct {
	mu      sync.Mutex
	flashes []session.Flash
}

func (f *flashRecorder) AddFlash(_ echo.Context, category, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flashes = append(f.flashes, session.Flash{Category: category, Message: message})
}

func (f *flashRecorder) last() session.Flash {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.flashes) == 0 {
		return session.Flash{}
	}
	return f.flashes[len(f.flashes)-1]
}

type eventRecorder struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (r *eventRecorder) Publish(_ context.Context, ev queue.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

type testServer struct {
	e      *echo.Echo
	h      *Handler
	store  *store
	flash  *flashRecorder
	events *eventRecorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := newStore()
	fl := &flashRecorder{}
	ev := &eventRecorder{}
	h := NewHandler(venueStore{st}, artistStore{st}, showStore{st}, albumStore{st}, fl)
	h.Events = ev
	h.Now = func() time.Time { return testNow }

	e := echo.New()
	r, err := view.New(nil)
	require.NoError(t, err)
	e.Renderer = r
	e.HTTPErrorHandler = HTTPErrorHandler

	e.GET("/", h.Home)
	e.GET("/healthz", Health)
	e.GET("/venues", h.ListVenues)
	e.POST("/venues/search", h.SearchVenues)
	e.GET("/venues/create", h.CreateVenueForm)
	e.POST("/venues/create", h.CreateVenue)
	e.GET("/venues/:id", h.ShowVenue)
	e.DELETE("/venues/:id", h.DeleteVenue)
	e.GET("/venues/:id/edit", h.EditVenueForm)
	e.POST("/venues/:id/edit", h.EditVenue)
	e.GET("/artists", h.ListArtists)
	e.POST("/artists/search", h.SearchArtists)
	e.GET("/artists/create", h.CreateArtistForm)
	e.POST("/artists/create", h.CreateArtist)
	e.GET("/artists/:id", h.ShowArtist)
	e.DELETE("/artists/:id/delete", h.DeleteArtist)
	e.GET("/artists/:id/edit", h.EditArtistForm)
	e.POST("/artists/:id/edit", h.EditArtist)
	e.GET("/artists/:id/albums/create", h.CreateAlbumForm)
	e.POST("/artists/:id/albums/create", h.CreateAlbum)
	e.GET("/albums/:id", h.ShowAlbum)
	e.POST("/albums/:id/songs", h.AddSong)
	e.GET("/shows", h.ListShows)
	e.GET("/shows/create", h.CreateShowForm)
	e.POST("/shows/create", h.CreateShow)

	return &testServer{e: e, h: h, store: st, flash: fl, events: ev}
}

func (s *testServer) do(method, target string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seedVenue(name, city, state string) *model.Venue {
	v := &model.Venue{Name: name, City: city, State: state, Genres: model.Genres{"Jazz"}}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	v.ID = s.store.id()
	s.store.venues[v.ID] = v
	return v
}

func (s *testServer) seedArtist(name string) *model.Artist {
	a := &model.Artist{Name: name, City: "San Francisco", State: "CA", Genres: model.Genres{"Rock n Roll"}}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	a.ID = s.store.id()
	s.store.artists[a.ID] = a
	return a
}

func validVenueForm() url.Values {
	return url.Values{
		"name":    {"The Musical Hop"},
		"city":    {"San Francisco"},
		"state":   {"CA"},
		"address": {"1015 Folsom Street"},
		"phone":   {"123-123-1234"},
		"genres":  {"Jazz", "Reggae"},
	}
}

func TestShowVenue_UpcomingShowCounted(t *testing.T) {
	s := newTestServer(t)
	v := s.seedVenue("The Musical Hop", "Austin", "TX")
	a := s.seedArtist("Guns N Petals")

	rec := s.do(http.MethodPost, "/shows/create", url.Values{
		"artist_id":  {"2"},
		"venue_id":   {"1"},
		"start_time": {testNow.Add(24 * time.Hour).Format("2006-01-02 15:04:05")},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, uint64(1), v.ID)
	require.Equal(t, uint64(2), a.ID)

	rec = s.do(http.MethodGet, "/venues/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1 Upcoming Show")
	assert.Contains(t, body, "0 Past Shows")
	assert.Contains(t, body, "Guns N Petals")
}

func TestShowVenue_ShowAtNowIsNeitherPastNorUpcoming(t *testing.T) {
	s := newTestServer(t)
	v := s.seedVenue("Park Square", "San Francisco", "CA")
	a := s.seedArtist("Matt Quevedo")
	s.store.shows = append(s.store.shows,
		model.Show{ID: 10, VenueID: v.ID, ArtistID: a.ID, StartTime: testNow},
		model.Show{ID: 11, VenueID: v.ID, ArtistID: a.ID, StartTime: testNow.Add(-time.Hour)},
	)

	rec := s.do(http.MethodGet, "/venues/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "0 Upcoming Shows")
	assert.Contains(t, rec.Body.String(), "1 Past Show")
}

func TestShowVenue_NotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/venues/99", "/venues/abc", "/venues/0", "/artists/5", "/albums/7"} {
		rec := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Not Found", path)
	}
}

func TestCreateVenue_MissingNameRerendersForm(t *testing.T) {
	s := newTestServer(t)
	f := validVenueForm()
	f.Del("name")

	rec := s.do(http.MethodPost, "/venues/create", f)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required.")
	assert.Contains(t, rec.Body.String(), `value="1015 Folsom Street"`)
	assert.Equal(t, 0, s.store.creates)
	assert.Empty(t, s.events.events)
}

func TestCreateVenue_Success(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/venues/create", validVenueForm())

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, s.store.creates)
	assert.Equal(t, session.Flash{Category: session.CategorySuccess, Message: "Venue The Musical Hop was successfully listed!"}, s.flash.last())

	v := s.store.venues[1]
	require.NotNil(t, v)
	assert.Equal(t, model.Genres{"Jazz", "Reggae"}, v.Genres)
	assert.False(t, v.SeekingTalent)

	require.Len(t, s.events.events, 1)
	assert.Equal(t, "venue.created", s.events.events[0].Kind())
	assert.Equal(t, uint64(1), s.events.events[0].EntityID)
	assert.Equal(t, testNow, s.events.events[0].OccurredAt)
}

func TestCreateVenue_PublishFailureDoesNotFailRequest(t *testing.T) {
	s := newTestServer(t)
	s.events.err = errors.New("broker down")

	rec := s.do(http.MethodPost, "/venues/create", validVenueForm())

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, session.CategorySuccess, s.flash.last().Category)
}

func TestCreateVenue_PersistenceFailureFlashes(t *testing.T) {
	s := newTestServer(t)
	s.store.createErr = &repository.PersistenceError{Op: "create venue", Err: errors.New("connection refused")}

	rec := s.do(http.MethodPost, "/venues/create", validVenueForm())

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, session.Flash{Category: session.CategoryError, Message: "An error occurred. Venue The Musical Hop could not be listed."}, s.flash.last())
	assert.Empty(t, s.store.venues)
	assert.Empty(t, s.events.events)
}

func TestEditVenue_PrefillAndReplace(t *testing.T) {
	s := newTestServer(t)
	v := s.seedVenue("Old Name", "Austin", "TX")
	v.SeekingTalent = true

	rec := s.do(http.MethodGet, "/venues/1/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Old Name"`)
	assert.Contains(t, rec.Body.String(), "checked")

	rec = s.do(http.MethodPost, "/venues/1/edit", validVenueForm())
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/venues/1", rec.Header().Get(echo.HeaderLocation))

	got := s.store.venues[1]
	assert.Equal(t, "The Musical Hop", got.Name)
	assert.Equal(t, "CA", got.State)
	assert.False(t, got.SeekingTalent, "unchecked box clears the flag")
	assert.Equal(t, "Venue The Musical Hop was successfully updated!", s.flash.last().Message)
}

func TestEditVenue_UnknownID(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/venues/3/edit", validVenueForm())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteVenue(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newTestServer(t)
		v := s.seedVenue("Park Square", "San Francisco", "CA")
		a := s.seedArtist("The Wild Sax Band")
		s.store.shows = []model.Show{{ID: 5, VenueID: v.ID, ArtistID: a.ID}, {ID: 6, VenueID: v.ID, ArtistID: a.ID}}

		rec := s.do(http.MethodDelete, "/venues/1", nil, echo.HeaderAccept, echo.MIMEApplicationJSON)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		assert.Empty(t, s.store.venues)
		assert.Empty(t, s.store.shows)
		assert.Equal(t, "venue.deleted", s.events.events[0].Kind())
	})

	t.Run("failure", func(t *testing.T) {
		s := newTestServer(t)
		s.seedVenue("Park Square", "San Francisco", "CA")
		s.store.deleteErr = &repository.PersistenceError{Op: "delete venue", Err: errors.New("lock wait timeout")}

		rec := s.do(http.MethodDelete, "/venues/1", nil, echo.HeaderAccept, echo.MIMEApplicationJSON)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false}`, rec.Body.String())
		assert.Equal(t, "An error occurred. Venue Park Square could not be deleted.", s.flash.last().Message)
		assert.Len(t, s.store.venues, 1)
	})

	t.Run("not found", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(http.MethodDelete, "/venues/8", nil, echo.HeaderAccept, echo.MIMEApplicationJSON)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Not Found"}`, rec.Body.String())
	})
}

func TestDeleteArtist_FailureReturns500(t *testing.T) {
	s := newTestServer(t)
	s.seedArtist("Matt Quevedo")
	s.store.deleteErr = &repository.PersistenceError{Op: "delete artist", Err: errors.New("boom")}

	rec := s.do(http.MethodDelete, "/artists/1/delete", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, s.store.artists, 1)
}

func TestCreateArtist_ValidationAndSuccess(t *testing.T) {
	s := newTestServer(t)
	f := url.Values{
		"name":          {"Guns N Petals"},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"genres":        {"Rock n Roll"},
		"seeking_venue": {"true"},
		"website_link":  {"not a url"},
	}

	rec := s.do(http.MethodPost, "/artists/create", f)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid URL.")
	assert.Equal(t, 0, s.store.creates)

	f.Set("website_link", "https://www.gunsnpetalsband.com")
	rec = s.do(http.MethodPost, "/artists/create", f)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Len(t, s.store.artists, 1)
	assert.True(t, s.store.artists[1].SeekingVenue)
	assert.Equal(t, "Artist Guns N Petals was successfully listed!", s.flash.last().Message)
}

func TestEditArtist_Validates(t *testing.T) {
	s := newTestServer(t)
	s.seedArtist("Guns N Petals")

	rec := s.do(http.MethodPost, "/artists/1/edit", url.Values{"name": {"New"}, "city": {"X"}, "state": {"ZZ"}, "genres": {"Jazz"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not a valid choice.")
	assert.Equal(t, "Guns N Petals", s.store.artists[1].Name)
}

func TestCreateShow_UnknownArtist(t *testing.T) {
	s := newTestServer(t)
	s.seedVenue("The Dueling Pianos Bar", "New York", "NY")

	rec := s.do(http.MethodPost, "/shows/create", url.Values{
		"artist_id":  {"42"},
		"venue_id":   {"1"},
		"start_time": {"2035-04-01 20:00:00"},
	})

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, session.Flash{Category: session.CategoryError, Message: "An error occurred. Show could not be listed."}, s.flash.last())
	assert.Empty(t, s.store.shows)
}

func TestCreateShow_BadInputRerendersForm(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/shows/create", url.Values{"artist_id": {"x"}, "venue_id": {"1"}, "start_time": {"soon"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Must be a number.")
	assert.Contains(t, rec.Body.String(), "Not a valid datetime value.")
}

func TestListShows(t *testing.T) {
	s := newTestServer(t)
	v := s.seedVenue("The Musical Hop", "San Francisco", "CA")
	a := s.seedArtist("Guns N Petals")
	s.store.shows = []model.Show{{ID: 9, VenueID: v.ID, ArtistID: a.ID, StartTime: testNow}}

	rec := s.do(http.MethodGet, "/shows", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Musical Hop")
	assert.Contains(t, rec.Body.String(), "Guns N Petals")
}

func TestSearchVenues(t *testing.T) {
	s := newTestServer(t)
	s.seedVenue("The Musical Hop", "San Francisco", "CA")
	s.seedVenue("Park Square Live Music & Coffee", "San Francisco", "CA")

	rec := s.do(http.MethodPost, "/venues/search", url.Values{"search_term": {"Hop"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ": 1</h3>")
	assert.Contains(t, rec.Body.String(), `href="/venues/1"`)
}

func TestHomeAndListings(t *testing.T) {
	s := newTestServer(t)
	s.seedVenue("The Musical Hop", "San Francisco", "CA")
	s.seedArtist("Guns N Petals")

	for _, path := range []string{"/", "/venues", "/artists"} {
		rec := s.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
	rec := s.do(http.MethodGet, "/artists", nil)
	assert.Contains(t, rec.Body.String(), "Guns N Petals")
}

func TestListVenues_CachedDirectoryKeepsCountsLive(t *testing.T) {
	s := newTestServer(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s.h.Cache = cache.New(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "t"}, rdb)
	require.NotNil(t, s.h.Cache)

	v := s.seedVenue("The Musical Hop", "San Francisco", "CA")
	a := s.seedArtist("Guns N Petals")
	startsAt := testNow.Add(10 * time.Second)
	s.store.shows = []model.Show{{ID: 7, VenueID: v.ID, ArtistID: a.ID, StartTime: startsAt}}

	rec := s.do(http.MethodGet, "/venues", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 upcoming shows")

	s.h.Now = func() time.Time { return startsAt.Add(15 * time.Second) }
	rec = s.do(http.MethodGet, "/venues", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Musical Hop")
	assert.Contains(t, rec.Body.String(), "0 upcoming shows")
	assert.NotContains(t, rec.Body.String(), "1 upcoming shows")
}

func TestAlbums(t *testing.T) {
	s := newTestServer(t)
	s.seedArtist("Guns N Petals")

	rec := s.do(http.MethodPost, "/artists/1/albums/create", url.Values{"name": {"Petals"}, "release_date": {"2019-06-01"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/artists/1", rec.Header().Get(echo.HeaderLocation))
	require.Len(t, s.store.albums, 1)
	albumID := s.store.nextID

	path := fmt.Sprintf("/albums/%d", albumID)
	rec = s.do(http.MethodPost, path+"/songs", url.Values{"name": {"Bloom"}, "duration": {"185"}})
	require.Equal(t, http.StatusFound, rec.Code)
	rec = s.do(http.MethodPost, path+"/songs", url.Values{"name": {"Thorn"}, "duration": {"0"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Must be a whole number of seconds, at least 1.")

	rec = s.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1 Track")
	assert.Contains(t, body, "3:05")
	assert.Contains(t, body, "Guns N Petals")

	rec = s.do(http.MethodGet, "/artists/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 Album")
	assert.Contains(t, rec.Body.String(), "Latest release")
}

func TestCreateAlbum_UnknownArtist(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/artists/4/albums/create", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestReady(t *testing.T) {
	e := echo.New()
	for _, tc := range []struct {
		err  error
		code int
	}{{nil, http.StatusOK}, {errors.New("down"), http.StatusServiceUnavailable}} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/readyz", nil), rec)
		err := Ready(pingFunc(func(context.Context) error { return tc.err }))(c)
		require.NoError(t, err)
		assert.Equal(t, tc.code, rec.Code)
	}
}

func TestHTTPErrorHandler_OtherStatusIsPlainText(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPut, "/venues/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", rec.Body.String())
}
