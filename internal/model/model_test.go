package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenres_Value(t *testing.T) {
	v, err := Genres{"Jazz", "Rock n Roll"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Jazz","Rock n Roll"]`, v)

	v, err = Genres(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestGenres_Scan(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    Genres
		wantErr bool
	}{
		{name: "bytes", input: []byte(`["Blues","Folk"]`), want: Genres{"Blues", "Folk"}},
		{name: "string", input: `["Pop"]`, want: Genres{"Pop"}},
		{name: "null", input: nil, want: Genres{}},
		{name: "empty", input: []byte{}, want: Genres{}},
		{name: "json null", input: "null", want: Genres{}},
		{name: "bad json", input: "[", wantErr: true},
		{name: "bad type", input: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Genres
			err := g.Scan(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}
}

func TestNewVenueDetail_Counts(t *testing.T) {
	v := &Venue{ID: 1, Name: "The Musical Hop"}
	up := []VenueShow{{ArtistID: 1}, {ArtistID: 2}}
	d := NewVenueDetail(v, up, nil)

	assert.Equal(t, 2, d.UpcomingShowsCount)
	assert.Equal(t, 0, d.PastShowsCount)
	assert.Equal(t, "The Musical Hop", d.Name)
}

func TestNewArtistDetail_LatestReleasedAlbum(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC) }
	albums := []AlbumSummary{
		{Album: Album{ID: 1, ReleaseDate: day(5)}},
		{Album: Album{ID: 2, ReleaseDate: day(9)}},
		{Album: Album{ID: 3, ReleaseDate: day(9)}},
		{Album: Album{ID: 4, ReleaseDate: day(1)}},
	}
	d := NewArtistDetail(&Artist{ID: 7}, nil, nil, albums)

	require.NotNil(t, d.LatestReleasedAlbum)
	assert.Equal(t, uint64(3), d.LatestReleasedAlbum.ID)
	assert.Equal(t, 4, d.TotalAlbums)

	empty := NewArtistDetail(&Artist{ID: 8}, nil, nil, nil)
	assert.Nil(t, empty.LatestReleasedAlbum)
	assert.Equal(t, 0, empty.TotalAlbums)
}

func TestNumberTracks(t *testing.T) {
	tracks := NumberTracks([]Song{{ID: 10, Name: "a"}, {ID: 11, Name: "b"}, {ID: 15, Name: "c"}})
	require.Len(t, tracks, 3)
	for i, tr := range tracks {
		assert.Equal(t, i+1, tr.TrackNumber)
	}
	assert.Equal(t, "c", tracks[2].Name)
}

func TestSong_Length(t *testing.T) {
	assert.Equal(t, "3:05", Song{Duration: 185}.Length())
	assert.Equal(t, "0:59", Song{Duration: 59}.Length())
	assert.Equal(t, "0:00", Song{Duration: 0}.Length())
}
