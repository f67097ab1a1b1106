package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/cache"
	"github.com/iliyamo/fyyur/internal/model"
)

type homeData struct {
	Venues  []model.Venue  `json:"venues"`
	Artists []model.Artist `json:"artists"`
}

// Home renders the most recently listed venues and artists.
func (h *Handler) Home(c echo.Context) error {
	d, err := cache.Fetch(c.Request().Context(), h.Cache, "home", func(ctx context.Context) (homeData, error) {
		venues, err := h.Venues.Latest(ctx, homeLimit)
		if err != nil {
			return homeData{}, err
		}
		artists, err := h.Artists.Latest(ctx, homeLimit)
		if err != nil {
			return homeData{}, err
		}
		return homeData{Venues: venues, Artists: artists}, nil
	})
	if err != nil {
		return err
	}
	return render(c, "pages/home.html", echo.Map{"venues": d.Venues, "artists": d.Artists})
}
