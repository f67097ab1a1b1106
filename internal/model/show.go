package model

import "time"

// Show is a scheduled performance linking one venue and one artist. Both
// references must point at existing rows and StartTime is mandatory.
//
// Fields:
//
//	ID        – primary key identifier.
//	VenueID   – venue hosting the show.
//	ArtistID  – artist performing.
//	StartTime – when the show begins (stored in UTC).
type Show struct {
	ID        uint64    // shows.id
	VenueID   uint64    // shows.venue_id
	ArtistID  uint64    // shows.artist_id
	StartTime time.Time // shows.start_time
}

// ShowListing is a denormalized row of the public shows page.
type ShowListing struct {
	VenueID         uint64    `json:"venue_id"`
	VenueName       string    `json:"venue_name"`
	ArtistID        uint64    `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
}

// SearchResult is the outcome of a venue or artist search.
type SearchResult struct {
	Count int         `json:"count"`
	Data  []SearchHit `json:"data"`
}

// SearchHit is one matching venue or artist.
type SearchHit struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}
