// Package httpserver exposes the bridge's diagnostic and monitoring surface:
// health, runtime stats, the WebRTC audio monitor, and a websocket carrying
// the same framed command protocol as the serial link.
package httpserver

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pgiacalo/TheIntercom/internal/command"
	"github.com/pgiacalo/TheIntercom/internal/monitor"
)

// Stats is the runtime snapshot served at /stats.
type Stats struct {
	AudioRunning  bool   `json:"audio_running"`
	AudioCodec    string `json:"audio_codec"`
	RingOccupancy int    `json:"ring_occupancy"`
	QueueDepth    int    `json:"queue_depth"`
}

// StatsFunc produces the current snapshot.
type StatsFunc func() Stats

// OfferHandler answers monitor SDP offers.
type OfferHandler interface {
	HandleOffer(ctx context.Context, offer monitor.SessionDescription) (monitor.SessionDescription, error)
}

// ParserFactory returns a fresh frame parser for one command connection.
// Parser state is single-threaded, so every connection needs its own.
type ParserFactory func() *command.Parser

// Server bundles the echo router and its dependencies.
type Server struct {
	Echo *echo.Echo
}

var upgrader = websocket.Upgrader{
	// the command surface is operator tooling; same-origin enforcement is
	// left to the deployment
	CheckOrigin: func(*http.Request) bool { return true },
}

// New constructs the HTTP server with routes.
func New(stats StatsFunc, offers OfferHandler, parsers ParserFactory) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, stats())
	})

	e.POST("/monitor", func(c echo.Context) error {
		var offer monitor.SessionDescription
		if err := c.Bind(&offer); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		answer, err := offers.HandleOffer(c.Request().Context(), offer)
		if err != nil {
			log.Printf("httpserver: monitor offer failed: %v", err)
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, answer)
	})

	e.GET("/cmd", func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}
		go serveCommandConn(conn, parsers())
		return nil
	})

	return &Server{Echo: e}
}

// serveCommandConn feeds websocket messages through the frame parser until
// the connection drops. Frames may span messages; the parser keeps state.
func serveCommandConn(conn *websocket.Conn, p *command.Parser) {
	defer conn.Close()
	log.Printf("httpserver: command connection from %s", conn.RemoteAddr())
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("httpserver: command connection closed: %v", err)
			return
		}
		for _, b := range data {
			switch p.Feed(b) {
			case command.ParseHeaderSyncFailed:
				log.Printf("httpserver: command header sync lost")
			case command.ParseBufferOverflow:
				log.Printf("httpserver: command frame too long, discarded")
			}
		}
	}
}
