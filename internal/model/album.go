package model

import (
	"fmt"
	"time"
)

// Album is a discography entry of an artist. It owns its songs.
type Album struct {
	ID          uint64    // albums.id
	ArtistID    uint64    // albums.artist_id
	Name        string    // albums.name
	ReleaseDate time.Time // albums.release_date
	ImageLink   string    // albums.image_link
}

// AlbumSummary is an album with its derived track count.
type AlbumSummary struct {
	Album
	TotalTracks int
}

// Song is a track of an album. Duration is expressed in seconds.
type Song struct {
	ID       uint64 // songs.id
	AlbumID  uint64 // songs.album_id
	Name     string // songs.name
	Duration int    // songs.duration
}

// Track is a song with its 1-based position within the album.
type Track struct {
	Song
	TrackNumber int
}

// Length renders the duration as m:ss.
func (s Song) Length() string {
	if s.Duration <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", s.Duration/60, s.Duration%60)
}

// AlbumDetail is the display record of an album page.
type AlbumDetail struct {
	*Album
	ArtistName  string
	Tracks      []Track
	TotalTracks int
}

// NumberTracks assigns track numbers following the order of songs.
func NumberTracks(songs []Song) []Track {
	out := make([]Track, 0, len(songs))
	for i, s := range songs {
		out = append(out, Track{Song: s, TrackNumber: i + 1})
	}
	return out
}
