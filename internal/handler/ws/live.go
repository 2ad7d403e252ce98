package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
)

const writeTimeout = 10 * time.Second

// LiveHandler streams the latest annotated price point to WebSocket
// clients as the feed refreshes.
type LiveHandler struct {
	feed     *usecase.LiveFeed
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewLiveHandler(feed *usecase.LiveFeed, log *logger.Logger) *LiveHandler {
	return &LiveHandler{
		feed: feed,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *LiveHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/live", h.Live)
}

func (h *LiveHandler) Live(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	// Drain client frames so close and ping control messages are handled.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case point, ok := <-updates:
			if !ok {
				return nil
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(point); err != nil {
				h.log.Debug("live feed client dropped", logger.Error(err))
				return nil
			}
		}
	}
}

var _ xhttp.Handler = (*LiveHandler)(nil)
