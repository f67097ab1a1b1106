package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/cache"
	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/session"
)

// ListArtists renders the id and name of every artist.
func (h *Handler) ListArtists(c echo.Context) error {
	artists, err := cache.Fetch(c.Request().Context(), h.Cache, "artists:all", h.Artists.ListAll)
	if err != nil {
		return err
	}
	return render(c, "pages/artists.html", echo.Map{"artists": artists})
}

// SearchArtists handles POST /artists/search.
func (h *Handler) SearchArtists(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Artists.Search(c.Request().Context(), term, h.now())
	if err != nil {
		return err
	}
	return render(c, "pages/search_artists.html", echo.Map{"search_term": term, "results": res})
}

// ShowArtist renders an artist with its shows and discography.
func (h *Handler) ShowArtist(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	a, err := h.Artists.GetByID(ctx, id)
	if err != nil {
		return notFound(err, repository.ErrArtistNotFound)
	}
	upcoming, past, err := h.Shows.ForArtist(ctx, id, h.now())
	if err != nil {
		return err
	}
	albums, err := h.Albums.ListByArtist(ctx, id)
	if err != nil {
		return err
	}
	return render(c, "pages/show_artist.html", echo.Map{"artist": model.NewArtistDetail(a, upcoming, past, albums)})
}

func (h *Handler) CreateArtistForm(c echo.Context) error {
	return render(c, "forms/new_artist.html", echo.Map{"form": form.ArtistForm{}, "errors": form.Errors(nil)})
}

// CreateArtist handles the artist form submission.
func (h *Handler) CreateArtist(c echo.Context) error {
	f := &form.ArtistForm{}
	errs, err := bindForm(c, f)
	if err != nil {
		return err
	}
	if errs != nil {
		return render(c, "forms/new_artist.html", echo.Map{"form": f, "errors": errs})
	}

	a := &model.Artist{}
	f.Apply(a)
	if err := h.Artists.Create(c.Request().Context(), a); err != nil {
		h.persistFailed(c, queue.EntityArtist, "create", err,
			fmt.Sprintf("An error occurred. Artist %s could not be listed.", f.Name))
	} else {
		h.committed(c, queue.EntityArtist, queue.ActionCreated, a.ID, a.Name)
		h.Flash.AddFlash(c, session.CategorySuccess, fmt.Sprintf("Artist %s was successfully listed!", a.Name))
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) EditArtistForm(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.Artists.GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(err, repository.ErrArtistNotFound)
	}
	return render(c, "forms/edit_artist.html", echo.Map{
		"artist": a,
		"form":   form.ArtistFormFrom(a),
		"errors": form.Errors(nil),
	})
}

// EditArtist replaces every field of an artist with the submitted ones.
// Submissions are validated the same way as on creation.
func (h *Handler) EditArtist(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	a, err := h.Artists.GetByID(ctx, id)
	if err != nil {
		return notFound(err, repository.ErrArtistNotFound)
	}

	f := &form.ArtistForm{}
	errs, err := bindForm(c, f)
	if err != nil {
		return err
	}
	if errs != nil {
		return render(c, "forms/edit_artist.html", echo.Map{"artist": a, "form": f, "errors": errs})
	}

	f.Apply(a)
	if err := h.Artists.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return notFound(err, repository.ErrArtistNotFound)
		}
		h.persistFailed(c, queue.EntityArtist, "update", err,
			fmt.Sprintf("An error occurred. Artist %s could not be updated.", f.Name))
	} else {
		h.committed(c, queue.EntityArtist, queue.ActionUpdated, a.ID, a.Name)
		h.Flash.AddFlash(c, session.CategorySuccess, fmt.Sprintf("Artist %s was successfully updated!", a.Name))
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/artists/%d", id))
}

// DeleteArtist removes an artist with its shows, albums and songs.
func (h *Handler) DeleteArtist(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	a, err := h.Artists.GetByID(ctx, id)
	if err != nil {
		return notFound(err, repository.ErrArtistNotFound)
	}
	if err := h.Artists.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return notFound(err, repository.ErrArtistNotFound)
		}
		h.persistFailed(c, queue.EntityArtist, "delete", err,
			fmt.Sprintf("An error occurred. Artist %s could not be deleted.", a.Name))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
	}
	h.committed(c, queue.EntityArtist, queue.ActionDeleted, id, a.Name)
	h.Flash.AddFlash(c, session.CategorySuccess, fmt.Sprintf("Artist %s was successfully deleted!", a.Name))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
