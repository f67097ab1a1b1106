package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/cache"
	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/session"
)

// ListShows renders every show with its venue and artist names.
func (h *Handler) ListShows(c echo.Context) error {
	shows, err := cache.Fetch(c.Request().Context(), h.Cache, "shows:all", h.Shows.ListAll)
	if err != nil {
		return err
	}
	return render(c, "pages/shows.html", echo.Map{"shows": shows})
}

func (h *Handler) CreateShowForm(c echo.Context) error {
	return render(c, "forms/new_show.html", echo.Map{"form": form.ShowForm{}, "errors": form.Errors(nil)})
}

// CreateShow lists a new show. Unknown venue or artist ids are rejected by
// the store and reported like any other failed write.
func (h *Handler) CreateShow(c echo.Context) error {
	f := &form.ShowForm{}
	errs, err := bindForm(c, f)
	if err != nil {
		return err
	}
	if errs != nil {
		return render(c, "forms/new_show.html", echo.Map{"form": f, "errors": errs})
	}
	s, err := f.Show()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}

	if err := h.Shows.Create(c.Request().Context(), &s); err != nil {
		h.persistFailed(c, queue.EntityShow, "create", err, "An error occurred. Show could not be listed.")
	} else {
		h.committed(c, queue.EntityShow, queue.ActionCreated, s.ID,
			fmt.Sprintf("artist %d at venue %d", s.ArtistID, s.VenueID))
		h.Flash.AddFlash(c, session.CategorySuccess, "Show was successfully listed!")
	}
	return c.Redirect(http.StatusFound, "/")
}
