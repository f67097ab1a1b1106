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

// ListVenues renders every venue grouped by city and state. Only the
// grouping is cached; upcoming counts are read for every request.
func (h *Handler) ListVenues(c echo.Context) error {
	ctx := c.Request().Context()
	areas, err := cache.Fetch(ctx, h.Cache, "venues:areas", h.Venues.ListAreas)
	if err != nil {
		return err
	}
	counts, err := h.Venues.UpcomingCounts(ctx, h.now())
	if err != nil {
		return err
	}
	for i := range areas {
		for j := range areas[i].Venues {
			v := &areas[i].Venues[j]
			v.NumUpcomingShows = counts[v.ID]
		}
	}
	return render(c, "pages/venues.html", echo.Map{"areas": areas})
}

// SearchVenues handles POST /venues/search.
func (h *Handler) SearchVenues(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Venues.Search(c.Request().Context(), term, h.now())
	if err != nil {
		return err
	}
	return render(c, "pages/search_venues.html", echo.Map{"search_term": term, "results": res})
}

// ShowVenue renders a venue with its shows split around the current time.
func (h *Handler) ShowVenue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		return notFound(err, repository.ErrVenueNotFound)
	}
	upcoming, past, err := h.Shows.ForVenue(ctx, id, h.now())
	if err != nil {
		return err
	}
	return render(c, "pages/show_venue.html", echo.Map{"venue": model.NewVenueDetail(v, upcoming, past)})
}

// CreateVenueForm renders an empty venue form.
func (h *Handler) CreateVenueForm(c echo.Context) error {
	return render(c, "forms/new_venue.html", echo.Map{"form": form.VenueForm{}, "errors": form.Errors(nil)})
}

// CreateVenue handles the venue form submission.
func (h *Handler) CreateVenue(c echo.Context) error {
	f := &form.VenueForm{}
	errs, err := bindForm(c, f)
	if err != nil {
		return err
	}
	if errs != nil {
		return render(c, "forms/new_venue.html", echo.Map{"form": f, "errors": errs})
	}

	v := &model.Venue{}
	f.Apply(v)
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		h.persistFailed(c, queue.EntityVenue, "create", err,
			fmt.Sprintf("An error occurred. Venue %s could not be listed.", f.Name))
	} else {
		h.committed(c, queue.EntityVenue, queue.ActionCreated, v.ID, v.Name)
		h.Flash.AddFlash(c, session.CategorySuccess, fmt.Sprintf("Venue %s was successfully listed!", v.Name))
	}
	return c.Redirect(http.StatusFound, "/")
}

// EditVenueForm renders the venue form prefilled from the stored row.
func (h *Handler) EditVenueForm(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		return notFound(err, repository.ErrVenueNotFound)
	}
	return render(c, "forms/edit_venue.html", echo.Map{
		"venue":  v,
		"form":   form.VenueFormFrom(v),
		"errors": form.Errors(nil),
	})
}

// EditVenue replaces every field of a venue with the submitted ones.
func (h *Handler) EditVenue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		return notFound(err, repository.ErrVenueNotFound)
	}

	f := &form.VenueForm{}
	errs, err := bindForm(c, f)
	if err != nil {
		return err
	}
	if errs != nil {
		return render(c, "forms/edit_venue.html", echo.Map{"venue": v, "form": f, "errors": errs})
	}

	f.Apply(v)
	if err := h.Venues.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return notFound(err, repository.ErrVenueNotFound)
		}
		h.persistFailed(c, queue.EntityVenue, "update", err,
			fmt.Sprintf("An error occurred. Venue %s could not be updated.", f.Name))
	} else {
		h.committed(c, queue.EntityVenue, queue.ActionUpdated, v.ID, v.Name)
		h.Flash.AddFlash(c, session.CategorySuccess, fmt.Sprintf("Venue %s was successfully updated!", v.Name))
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/venues/%d", id))
}

// DeleteVenue removes a venue and its shows. The page calling it expects
// JSON.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		return notFound(err, repository.ErrVenueNotFound)
	}
	if err := h.Venues.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return notFound(err, repository.ErrVenueNotFound)
		}
		h.persistFailed(c, queue.EntityVenue, "delete", err,
			fmt.Sprintf("An error occurred. Venue %s could not be deleted.", v.Name))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
	}
	h.committed(c, queue.EntityVenue, queue.ActionDeleted, id, v.Name)
	h.Flash.AddFlash(c, session.CategorySuccess, fmt.Sprintf("Venue %s was successfully deleted!", v.Name))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
