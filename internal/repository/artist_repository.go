package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/fyyur/internal/model"
)

const artistColumns = `id, name, city, state, phone, genres, image_link, facebook_link,
	website_link, seeking_venue, seeking_description`

// ArtistRepo manages persistence for artists. Deleting an artist removes
// its shows, albums and songs.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

func scanArtist(row interface{ Scan(...any) error }, a *model.Artist) error {
	return row.Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &a.Genres, &a.ImageLink,
		&a.FacebookLink, &a.WebsiteLink, &a.SeekingVenue, &a.SeekingDescription)
}

// Latest returns the most recently created artists, newest first.
func (r *ArtistRepo) Latest(ctx context.Context, limit int) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+artistColumns+` FROM artists ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Artist{}
	for rows.Next() {
		var a model.Artist
		if err := scanArtist(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAll returns the id and name of every artist ordered by id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]model.ArtistSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM artists ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ArtistSummary{}
	for rows.Next() {
		var a model.ArtistSummary
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Search finds artists by name, or by city and state when the term reads
// "City, State".
func (r *ArtistRepo) Search(ctx context.Context, term string, now time.Time) (model.SearchResult, error) {
	return searchEntities(ctx, r.db, "artists", "artist_id", term, now)
}

// GetByID fetches an artist. It returns ErrArtistNotFound if no row is found.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	var a model.Artist
	row := r.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = ?`, id)
	if err := scanArtist(row, &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new artist and assigns the generated ID back to a.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link, facebook_link,
		website_link, seeking_venue, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.Genres, a.ImageLink,
			a.FacebookLink, a.WebsiteLink, a.SeekingVenue, a.SeekingDescription)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = uint64(id)
		return nil
	})
	return persistErr("create artist", err)
}

// Update replaces every editable field of the artist identified by a.ID.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	const q = `UPDATE artists
		SET name = ?, city = ?, state = ?, phone = ?, genres = ?, image_link = ?, facebook_link = ?,
		    website_link = ?, seeking_venue = ?, seeking_description = ?
		WHERE id = ?`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, `SELECT id FROM artists WHERE id = ? FOR UPDATE`, a.ID, ErrArtistNotFound); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.Genres, a.ImageLink,
			a.FacebookLink, a.WebsiteLink, a.SeekingVenue, a.SeekingDescription, a.ID)
		return err
	})
	return persistErr("update artist", err)
}

// Delete removes an artist with its songs, albums and shows, children
// first, inside one transaction.
func (r *ArtistRepo) Delete(ctx context.Context, id uint64) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, `SELECT id FROM artists WHERE id = ? FOR UPDATE`, id, ErrArtistNotFound); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE so FROM songs so
			 JOIN albums al ON al.id = so.album_id
			 WHERE al.artist_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM albums WHERE artist_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE artist_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
		return err
	})
	return persistErr("delete artist", err)
}
