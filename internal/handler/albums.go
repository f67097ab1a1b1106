package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/session"
)

// CreateAlbumForm renders the album form of an artist.
func (h *Handler) CreateAlbumForm(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.Artists.GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(err, repository.ErrArtistNotFound)
	}
	return render(c, "forms/new_album.html", echo.Map{"artist": a, "form": form.AlbumForm{}, "errors": form.Errors(nil)})
}

// CreateAlbum adds an album to an artist's discography and goes back to
// the artist page.
func (h *Handler) CreateAlbum(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	a, err := h.Artists.GetByID(ctx, id)
	if err != nil {
		return notFound(err, repository.ErrArtistNotFound)
	}

	f := &form.AlbumForm{}
	errs, err := bindForm(c, f)
	if err != nil {
		return err
	}
	if errs != nil {
		return render(c, "forms/new_album.html", echo.Map{"artist": a, "form": f, "errors": errs})
	}
	album, err := f.Album(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}

	if err := h.Albums.Create(ctx, &album); err != nil {
		h.persistFailed(c, queue.EntityAlbum, "create", err,
			fmt.Sprintf("An error occurred. Album %s could not be listed.", f.Name))
	} else {
		h.committed(c, queue.EntityAlbum, queue.ActionCreated, album.ID, album.Name)
		h.Flash.AddFlash(c, session.CategorySuccess, fmt.Sprintf("Album %s was successfully listed!", album.Name))
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/artists/%d", id))
}

// ShowAlbum renders an album with its numbered tracks.
func (h *Handler) ShowAlbum(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.albumDetail(c, id)
	if err != nil {
		return err
	}
	return render(c, "pages/show_album.html", echo.Map{"album": d, "form": form.SongForm{}, "errors": form.Errors(nil)})
}

// AddSong appends a song to an album. Invalid input shows the album page
// again with the errors next to the song fields.
func (h *Handler) AddSong(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.albumDetail(c, id)
	if err != nil {
		return err
	}

	f := &form.SongForm{}
	errs, err := bindForm(c, f)
	if err != nil {
		return err
	}
	if errs != nil {
		return render(c, "pages/show_album.html", echo.Map{"album": d, "form": f, "errors": errs})
	}
	song, err := f.Song(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}

	if err := h.Albums.AddSong(c.Request().Context(), &song); err != nil {
		h.persistFailed(c, queue.EntitySong, "create", err,
			fmt.Sprintf("An error occurred. Song %s could not be added.", f.Name))
	} else {
		h.committed(c, queue.EntitySong, queue.ActionCreated, song.ID, song.Name)
		h.Flash.AddFlash(c, session.CategorySuccess, fmt.Sprintf("Song %s was successfully added!", song.Name))
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/albums/%d", id))
}

func (h *Handler) albumDetail(c echo.Context, id uint64) (*model.AlbumDetail, error) {
	ctx := c.Request().Context()
	album, err := h.Albums.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, repository.ErrAlbumNotFound)
	}
	artist, err := h.Artists.GetByID(ctx, album.ArtistID)
	if err != nil {
		return nil, notFound(err, repository.ErrArtistNotFound)
	}
	tracks, err := h.Albums.Tracks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.AlbumDetail{
		Album:       album,
		ArtistName:  artist.Name,
		Tracks:      tracks,
		TotalTracks: len(tracks),
	}, nil
}
