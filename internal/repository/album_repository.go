package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fyyur/internal/model"
)

// AlbumRepo manages albums and their songs.
type AlbumRepo struct {
	db *sql.DB
}

// NewAlbumRepo constructs an AlbumRepo with the given DB handle.
func NewAlbumRepo(db *sql.DB) *AlbumRepo {
	return &AlbumRepo{db: db}
}

// ListByArtist returns the albums of an artist with their track counts,
// oldest release first.
func (r *AlbumRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.AlbumSummary, error) {
	const q = `SELECT al.id, al.artist_id, al.name, al.release_date, al.image_link, COUNT(so.id)
		FROM albums al
		LEFT JOIN songs so ON so.album_id = al.id
		WHERE al.artist_id = ?
		GROUP BY al.id, al.artist_id, al.name, al.release_date, al.image_link
		ORDER BY al.release_date, al.id`
	rows, err := r.db.QueryContext(ctx, q, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AlbumSummary{}
	for rows.Next() {
		var a model.AlbumSummary
		if err := rows.Scan(&a.ID, &a.ArtistID, &a.Name, &a.ReleaseDate, &a.ImageLink, &a.TotalTracks); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetByID fetches an album. It returns ErrAlbumNotFound if no row is found.
func (r *AlbumRepo) GetByID(ctx context.Context, id uint64) (*model.Album, error) {
	const q = `SELECT id, artist_id, name, release_date, image_link FROM albums WHERE id = ?`
	var a model.Album
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.ArtistID, &a.Name, &a.ReleaseDate, &a.ImageLink); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Tracks returns the songs of an album numbered from 1. Songs are ordered
// by id, i.e. insertion order, which is the only ordering the schema keeps.
func (r *AlbumRepo) Tracks(ctx context.Context, albumID uint64) ([]model.Track, error) {
	const q = `SELECT id, album_id, name, duration FROM songs WHERE album_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := []model.Song{}
	for rows.Next() {
		var s model.Song
		if err := rows.Scan(&s.ID, &s.AlbumID, &s.Name, &s.Duration); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.NumberTracks(songs), nil
}

// Create inserts an album for an existing artist.
func (r *AlbumRepo) Create(ctx context.Context, a *model.Album) error {
	const q = `INSERT INTO albums (artist_id, name, release_date, image_link) VALUES (?, ?, ?, ?)`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, a.ArtistID, a.Name, a.ReleaseDate.UTC(), a.ImageLink)
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
	return persistErr("create album", err)
}

// AddSong appends a song to an album.
func (r *AlbumRepo) AddSong(ctx context.Context, s *model.Song) error {
	const q = `INSERT INTO songs (album_id, name, duration) VALUES (?, ?, ?)`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, s.AlbumID, s.Name, s.Duration)
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
	return persistErr("add song", err)
}
