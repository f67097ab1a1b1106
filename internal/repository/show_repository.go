// Package repository contains data access logic for Show domain operations.
// A Show links one venue and one artist at a start time. Past and upcoming
// splits are computed in SQL with strict comparisons against the caller's
// notion of now, so a show starting exactly at now is in neither list.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/fyyur/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// ListAll returns every show joined with its venue and artist names.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.ShowListing, error) {
	const q = `SELECT s.venue_id, v.name, s.artist_id, a.name, a.image_link, s.start_time
		FROM shows s
		JOIN venues v  ON v.id = s.venue_id
		JOIN artists a ON a.id = s.artist_id
		ORDER BY s.start_time, s.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ShowListing{}
	for rows.Next() {
		var l model.ShowListing
		if err := rows.Scan(&l.VenueID, &l.VenueName, &l.ArtistID, &l.ArtistName, &l.ArtistImageLink, &l.StartTime); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Create inserts a new show. A venue or artist id that does not exist is
// rejected by the foreign keys and reported as ErrInvalidReference inside
// a PersistenceError; nothing is inserted in that case.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (venue_id, artist_id, start_time) VALUES (?, ?, ?)`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, s.VenueID, s.ArtistID, s.StartTime.UTC())
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(id)
		return nil
	})
	return persistErr("create show", err)
}

const (
	venueShowsUpcoming = `SELECT s.artist_id, a.name, a.image_link, s.start_time
		FROM shows s JOIN artists a ON a.id = s.artist_id
		WHERE s.venue_id = ? AND s.start_time > ?
		ORDER BY s.start_time, s.id`
	venueShowsPast = `SELECT s.artist_id, a.name, a.image_link, s.start_time
		FROM shows s JOIN artists a ON a.id = s.artist_id
		WHERE s.venue_id = ? AND s.start_time < ?
		ORDER BY s.start_time, s.id`
	artistShowsUpcoming = `SELECT s.venue_id, v.name, v.image_link, s.start_time
		FROM shows s JOIN venues v ON v.id = s.venue_id
		WHERE s.artist_id = ? AND s.start_time > ?
		ORDER BY s.start_time, s.id`
	artistShowsPast = `SELECT s.venue_id, v.name, v.image_link, s.start_time
		FROM shows s JOIN venues v ON v.id = s.venue_id
		WHERE s.artist_id = ? AND s.start_time < ?
		ORDER BY s.start_time, s.id`
)

// ForVenue returns the upcoming and past shows of a venue relative to now.
func (r *ShowRepo) ForVenue(ctx context.Context, venueID uint64, now time.Time) (upcoming, past []model.VenueShow, err error) {
	if upcoming, err = r.venueShows(ctx, venueShowsUpcoming, venueID, now); err != nil {
		return nil, nil, err
	}
	if past, err = r.venueShows(ctx, venueShowsPast, venueID, now); err != nil {
		return nil, nil, err
	}
	return upcoming, past, nil
}

func (r *ShowRepo) venueShows(ctx context.Context, q string, venueID uint64, now time.Time) ([]model.VenueShow, error) {
	rows, err := r.db.QueryContext(ctx, q, venueID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.VenueShow{}
	for rows.Next() {
		var vs model.VenueShow
		if err := rows.Scan(&vs.ArtistID, &vs.ArtistName, &vs.ArtistImageLink, &vs.StartTime); err != nil {
			return nil, err
		}
		out = append(out, vs)
	}
	return out, rows.Err()
}

// ForArtist returns the upcoming and past shows of an artist relative to now.
func (r *ShowRepo) ForArtist(ctx context.Context, artistID uint64, now time.Time) (upcoming, past []model.ArtistShow, err error) {
	if upcoming, err = r.artistShows(ctx, artistShowsUpcoming, artistID, now); err != nil {
		return nil, nil, err
	}
	if past, err = r.artistShows(ctx, artistShowsPast, artistID, now); err != nil {
		return nil, nil, err
	}
	return upcoming, past, nil
}

func (r *ShowRepo) artistShows(ctx context.Context, q string, artistID uint64, now time.Time) ([]model.ArtistShow, error) {
	rows, err := r.db.QueryContext(ctx, q, artistID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ArtistShow{}
	for rows.Next() {
		var as model.ArtistShow
		if err := rows.Scan(&as.VenueID, &as.VenueName, &as.VenueImageLink, &as.StartTime); err != nil {
			return nil, err
		}
		out = append(out, as)
	}
	return out, rows.Err()
}
