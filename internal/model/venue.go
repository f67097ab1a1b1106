package model

import "time"

// Venue is a bookable location hosting shows. It corresponds to a row in
// the `venues` table and owns its shows: deleting a venue deletes them.
//
// Fields:
//
//	ID                 – primary key identifier.
//	Name               – display name of the venue.
//	City, State        – location used for directory grouping and search.
//	Address, Phone     – contact details.
//	ImageLink          – URL of the venue picture.
//	FacebookLink       – URL of the venue's facebook page.
//	Genres             – genres the venue books.
//	WebsiteLink        – URL of the venue website.
//	SeekingTalent      – whether the venue is looking for artists.
//	SeekingDescription – free text shown when SeekingTalent is set.
type Venue struct {
	ID                 uint64 // venues.id
	Name               string // venues.name
	City               string // venues.city
	State              string // venues.state
	Address            string // venues.address
	Phone              string // venues.phone
	ImageLink          string // venues.image_link
	FacebookLink       string // venues.facebook_link
	Genres             Genres // venues.genres (JSON)
	WebsiteLink        string // venues.website_link
	SeekingTalent      bool   // venues.seeking_talent
	SeekingDescription string // venues.seeking_description
}

// VenueSummary is a venue as it appears in directory and search listings.
type VenueSummary struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// Area groups the venues that share a (city, state) pair.
type Area struct {
	City   string         `json:"city"`
	State  string         `json:"state"`
	Venues []VenueSummary `json:"venues"`
}

// VenueShow is a show listed on a venue page, joined with the performing
// artist.
type VenueShow struct {
	ArtistID        uint64    `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
}

// VenueDetail combines a venue with its past and upcoming shows.
type VenueDetail struct {
	*Venue
	PastShows          []VenueShow
	UpcomingShows      []VenueShow
	PastShowsCount     int
	UpcomingShowsCount int
}

// NewVenueDetail builds the display record for a venue page.
func NewVenueDetail(v *Venue, upcoming, past []VenueShow) *VenueDetail {
	return &VenueDetail{
		Venue:              v,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}
}
