package form

import (
	"strconv"
	"strings"

	"github.com/iliyamo/fyyur/internal/model"
)

// VenueForm is the create/edit venue submission.
type VenueForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Address            string   `form:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" validate:"omitempty,phone"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,url,max=120"`
	SeekingTalent      bool     `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

// VenueFormFrom prefills the edit form from a stored venue.
func VenueFormFrom(v *model.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		Genres:             append([]string(nil), v.Genres...),
		FacebookLink:       v.FacebookLink,
		WebsiteLink:        v.WebsiteLink,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

// Normalize trims surrounding whitespace from text fields.
func (f *VenueForm) Normalize() {
	trim(&f.Name, &f.City, &f.State, &f.Address, &f.Phone, &f.ImageLink,
		&f.FacebookLink, &f.WebsiteLink, &f.SeekingDescription)
}

// Apply copies every field onto v, replacing what was there. The ID is
// left untouched.
func (f VenueForm) Apply(v *model.Venue) {
	v.Name = f.Name
	v.City = f.City
	v.State = f.State
	v.Address = f.Address
	v.Phone = f.Phone
	v.ImageLink = f.ImageLink
	v.Genres = model.Genres(append([]string(nil), f.Genres...))
	v.FacebookLink = f.FacebookLink
	v.WebsiteLink = f.WebsiteLink
	v.SeekingTalent = f.SeekingTalent
	v.SeekingDescription = f.SeekingDescription
}

// ArtistForm is the create/edit artist submission.
type ArtistForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Phone              string   `form:"phone" validate:"omitempty,phone"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,url,max=120"`
	SeekingVenue       bool     `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

// ArtistFormFrom prefills the edit form from a stored artist.
func ArtistFormFrom(a *model.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		Genres:             append([]string(nil), a.Genres...),
		FacebookLink:       a.FacebookLink,
		WebsiteLink:        a.WebsiteLink,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

func (f *ArtistForm) Normalize() {
	trim(&f.Name, &f.City, &f.State, &f.Phone, &f.ImageLink,
		&f.FacebookLink, &f.WebsiteLink, &f.SeekingDescription)
}

// Apply copies every field onto a, replacing what was there.
func (f ArtistForm) Apply(a *model.Artist) {
	a.Name = f.Name
	a.City = f.City
	a.State = f.State
	a.Phone = f.Phone
	a.ImageLink = f.ImageLink
	a.Genres = model.Genres(append([]string(nil), f.Genres...))
	a.FacebookLink = f.FacebookLink
	a.WebsiteLink = f.WebsiteLink
	a.SeekingVenue = f.SeekingVenue
	a.SeekingDescription = f.SeekingDescription
}

// ShowForm is the create show submission. Ids stay strings so a bad value
// is reported inline instead of failing the bind.
type ShowForm struct {
	ArtistID  string `form:"artist_id" validate:"required,number"`
	VenueID   string `form:"venue_id" validate:"required,number"`
	StartTime string `form:"start_time" validate:"required,datetime_local"`
}

func (f *ShowForm) Normalize() { trim(&f.ArtistID, &f.VenueID, &f.StartTime) }

// Show converts a validated form into a model.Show.
func (f ShowForm) Show() (model.Show, error) {
	artistID, err := strconv.ParseUint(f.ArtistID, 10, 64)
	if err != nil {
		return model.Show{}, err
	}
	venueID, err := strconv.ParseUint(f.VenueID, 10, 64)
	if err != nil {
		return model.Show{}, err
	}
	start, err := ParseTime(f.StartTime)
	if err != nil {
		return model.Show{}, err
	}
	return model.Show{ArtistID: artistID, VenueID: venueID, StartTime: start}, nil
}

// AlbumForm is the create album submission.
type AlbumForm struct {
	Name        string `form:"name" validate:"required,max=120"`
	ReleaseDate string `form:"release_date" validate:"required,datetime_local"`
	ImageLink   string `form:"image_link" validate:"omitempty,url,max=500"`
}

func (f *AlbumForm) Normalize() { trim(&f.Name, &f.ReleaseDate, &f.ImageLink) }

// Album converts a validated form into an album of artistID.
func (f AlbumForm) Album(artistID uint64) (model.Album, error) {
	released, err := ParseTime(f.ReleaseDate)
	if err != nil {
		return model.Album{}, err
	}
	return model.Album{ArtistID: artistID, Name: f.Name, ReleaseDate: released, ImageLink: f.ImageLink}, nil
}

// SongForm adds one song to an album. Duration is in seconds.
type SongForm struct {
	Name     string `form:"name" validate:"required,max=120"`
	Duration string `form:"duration" validate:"required,seconds"`
}

func (f *SongForm) Normalize() { trim(&f.Name, &f.Duration) }

// Song converts a validated form into a song of albumID.
func (f SongForm) Song(albumID uint64) (model.Song, error) {
	d, err := strconv.Atoi(f.Duration)
	if err != nil {
		return model.Song{}, err
	}
	return model.Song{AlbumID: albumID, Name: f.Name, Duration: d}, nil
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
