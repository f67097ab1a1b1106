// Package repository contains data access logic separated from HTTP handlers.
// This file defines the venue repository: directory listing, search, CRUD
// and the explicit cascade that removes a venue together with its shows.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/fyyur/internal/model"
)

const venueColumns = `id, name, city, state, address, phone, image_link, facebook_link,
	genres, website_link, seeking_talent, seeking_description`

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

func scanVenue(row interface{ Scan(...any) error }, v *model.Venue) error {
	return row.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &v.ImageLink,
		&v.FacebookLink, &v.Genres, &v.WebsiteLink, &v.SeekingTalent, &v.SeekingDescription)
}

// Latest returns the most recently created venues, newest first.
func (r *VenueRepo) Latest(ctx context.Context, limit int) ([]model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Venue{}
	for rows.Next() {
		var v model.Venue
		if err := scanVenue(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// venueAreaRow is one venue as read for the directory listing.
type venueAreaRow struct {
	City  string
	State string
	model.VenueSummary
}

// ListAreas returns every venue grouped by (city, state). Groups keep the
// order in which their first venue appears (by id). Upcoming counts are
// left at zero; see UpcomingCounts.
func (r *VenueRepo) ListAreas(ctx context.Context) ([]model.Area, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, city, state FROM venues ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []venueAreaRow
	for rows.Next() {
		var row venueAreaRow
		if err := rows.Scan(&row.ID, &row.Name, &row.City, &row.State); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groupByArea(list), nil
}

// UpcomingCounts returns, per venue id, the number of shows starting
// strictly after now. Venues without upcoming shows are absent.
func (r *VenueRepo) UpcomingCounts(ctx context.Context, now time.Time) (map[uint64]int, error) {
	const q = `SELECT venue_id, COUNT(*) FROM shows WHERE start_time > ? GROUP BY venue_id`
	rows, err := r.db.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uint64]int{}
	for rows.Next() {
		var id uint64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

// groupByArea folds venue rows into areas, preserving first-seen order of
// (city, state) pairs and the row order inside each area.
func groupByArea(rows []venueAreaRow) []model.Area {
	type key struct{ city, state string }
	index := map[key]int{}
	areas := []model.Area{}
	for _, row := range rows {
		k := key{row.City, row.State}
		i, ok := index[k]
		if !ok {
			i = len(areas)
			index[k] = i
			areas = append(areas, model.Area{City: row.City, State: row.State})
		}
		areas[i].Venues = append(areas[i].Venues, row.VenueSummary)
	}
	return areas
}

// Search finds venues by name, or by city and state when the term reads
// "City, State".
func (r *VenueRepo) Search(ctx context.Context, term string, now time.Time) (model.SearchResult, error) {
	return searchEntities(ctx, r.db, "venues", "venue_id", term, now)
}

// GetByID fetches a venue. It returns ErrVenueNotFound if no row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	var v model.Venue
	row := r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id)
	if err := scanVenue(row, &v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Create inserts a new venue and assigns the generated ID back to v.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, city, state, address, phone, image_link, facebook_link,
		genres, website_link, seeking_talent, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink,
			v.FacebookLink, v.Genres, v.WebsiteLink, v.SeekingTalent, v.SeekingDescription)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		v.ID = uint64(id)
		return nil
	})
	return persistErr("create venue", err)
}

// Update replaces every editable field of the venue identified by v.ID.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues
		SET name = ?, city = ?, state = ?, address = ?, phone = ?, image_link = ?, facebook_link = ?,
		    genres = ?, website_link = ?, seeking_talent = ?, seeking_description = ?
		WHERE id = ?`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, `SELECT id FROM venues WHERE id = ? FOR UPDATE`, v.ID, ErrVenueNotFound); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink,
			v.FacebookLink, v.Genres, v.WebsiteLink, v.SeekingTalent, v.SeekingDescription, v.ID)
		return err
	})
	return persistErr("update venue", err)
}

// Delete removes a venue and all of its shows. Shows go first so the
// foreign keys are never violated; both deletes share one transaction.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, `SELECT id FROM venues WHERE id = ? FOR UPDATE`, id, ErrVenueNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
		return err
	})
	return persistErr("delete venue", err)
}
