package model

import "time"

// Artist is a performer who plays shows and may release albums. It
// corresponds to a row in the `artists` table and owns both its shows and
// its albums.
type Artist struct {
	ID                 uint64 // artists.id
	Name               string // artists.name
	City               string // artists.city
	State              string // artists.state
	Phone              string // artists.phone
	Genres             Genres // artists.genres (JSON)
	ImageLink          string // artists.image_link
	FacebookLink       string // artists.facebook_link
	WebsiteLink        string // artists.website_link
	SeekingVenue       bool   // artists.seeking_venue
	SeekingDescription string // artists.seeking_description
}

// ArtistSummary is an artist as it appears in listings. NumUpcomingShows is
// only filled by search.
type ArtistSummary struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// ArtistShow is a show listed on an artist page, joined with its venue.
type ArtistShow struct {
	VenueID        uint64    `json:"venue_id"`
	VenueName      string    `json:"venue_name"`
	VenueImageLink string    `json:"venue_image_link"`
	StartTime      time.Time `json:"start_time"`
}

// ArtistDetail combines an artist with shows and discography.
type ArtistDetail struct {
	*Artist
	PastShows           []ArtistShow
	UpcomingShows       []ArtistShow
	PastShowsCount      int
	UpcomingShowsCount  int
	Albums              []AlbumSummary
	TotalAlbums         int
	LatestReleasedAlbum *AlbumSummary
}

// NewArtistDetail builds the display record for an artist page. The latest
// released album is the one with the greatest release date, ties going to
// the most recently created album.
func NewArtistDetail(a *Artist, upcoming, past []ArtistShow, albums []AlbumSummary) *ArtistDetail {
	d := &ArtistDetail{
		Artist:             a,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
		Albums:             albums,
		TotalAlbums:        len(albums),
	}
	for i := range albums {
		al := &albums[i]
		if d.LatestReleasedAlbum == nil {
			d.LatestReleasedAlbum = al
			continue
		}
		cur := d.LatestReleasedAlbum
		if al.ReleaseDate.After(cur.ReleaseDate) || (al.ReleaseDate.Equal(cur.ReleaseDate) && al.ID > cur.ID) {
			d.LatestReleasedAlbum = al
		}
	}
	return d
}
