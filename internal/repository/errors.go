// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// row becomes a 404, a rejected write becomes a flashed failure message.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrVenueNotFound is returned when a venue id does not exist.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrArtistNotFound is returned when an artist id does not exist.
	ErrArtistNotFound = errors.New("artist not found")
	// ErrAlbumNotFound is returned when an album id does not exist.
	ErrAlbumNotFound = errors.New("album not found")

	// ErrInvalidReference signals a foreign key that points at no row,
	// e.g. a show created for an unknown artist.
	ErrInvalidReference = errors.New("invalid reference")
)

// MySQL server error numbers the repositories classify.
const (
	mysqlErrNoReferencedRow = 1452
	mysqlErrRowIsReferenced = 1451
)

// PersistenceError wraps a failed write. The transaction that produced it
// has already been rolled back when the caller receives it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// persistErr wraps err for op. Not-found sentinels pass through unchanged
// so handlers can still answer 404.
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, s := range []error{ErrVenueNotFound, ErrArtistNotFound, ErrAlbumNotFound} {
		if errors.Is(err, s) {
			return err
		}
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlErrNoReferencedRow || me.Number == mysqlErrRowIsReferenced) {
		err = fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return &PersistenceError{Op: op, Err: err}
}
