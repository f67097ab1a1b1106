// Package router wires the handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/middleware"
)

// Setup installs the renderer, the error handler and the middleware every
// request goes through.
func Setup(e *echo.Echo, r echo.Renderer) {
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics())
}

// RegisterOps registers the endpoints used by load balancers and
// monitoring: liveness, readiness and Prometheus metrics.
func RegisterOps(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterRoutes registers the directory pages and forms. limit guards
// every route that writes or searches; pass nil to leave them unguarded.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, limit echo.MiddlewareFunc) {
	var w []echo.MiddlewareFunc
	if limit != nil {
		w = append(w, limit)
	}

	e.GET("/", h.Home)

	e.GET("/venues", h.ListVenues)
	e.POST("/venues/search", h.SearchVenues, w...)
	e.GET("/venues/create", h.CreateVenueForm)
	e.POST("/venues/create", h.CreateVenue, w...)
	e.GET("/venues/:id", h.ShowVenue)
	e.DELETE("/venues/:id", h.DeleteVenue, w...)
	e.GET("/venues/:id/edit", h.EditVenueForm)
	e.POST("/venues/:id/edit", h.EditVenue, w...)

	e.GET("/artists", h.ListArtists)
	e.POST("/artists/search", h.SearchArtists, w...)
	e.GET("/artists/create", h.CreateArtistForm)
	e.POST("/artists/create", h.CreateArtist, w...)
	e.GET("/artists/:id", h.ShowArtist)
	e.DELETE("/artists/:id/delete", h.DeleteArtist, w...)
	e.GET("/artists/:id/edit", h.EditArtistForm)
	e.POST("/artists/:id/edit", h.EditArtist, w...)
	e.GET("/artists/:id/albums/create", h.CreateAlbumForm)
	e.POST("/artists/:id/albums/create", h.CreateAlbum, w...)

	e.GET("/albums/:id", h.ShowAlbum)
	e.POST("/albums/:id/songs", h.AddSong, w...)

	e.GET("/shows", h.ListShows)
	e.GET("/shows/create", h.CreateShowForm)
	e.POST("/shows/create", h.CreateShow, w...)
}
