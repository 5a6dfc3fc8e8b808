package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"moviehub/internal/metrics"
	"moviehub/internal/movies"
	"moviehub/pkg/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // read-only public API
	},
}

// maxFrameBytes bounds one incoming request frame.
const maxFrameBytes = 4096

func WSHandler(hub *Hub, svc *movies.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.Warn().Err(err).Msg("[ws] upgrade failed")
			return
		}
		ws.SetReadLimit(maxFrameBytes)

		hub.AddWS(ws)
		defer hub.RemoveWS(ws)
		logging.Debug().Str("remote", ws.RemoteAddr().String()).Msg("[ws] client connected")

		if err := ws.WriteMessage(websocket.TextMessage, welcome("websocket")); err != nil {
			return
		}

		lim := hub.limiter()
		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				// gorilla has already sent close code 1009 to the peer
				if errors.Is(err, websocket.ErrReadLimit) {
					logging.Warn().Str("remote", ws.RemoteAddr().String()).Msg("[ws] " + errFrameTooLarge)
				}
				break
			}
			metrics.RecordSessionFrame("websocket", "in")

			var reply []byte
			if lim != nil && !lim.Allow() {
				reply = throttled(raw)
			} else {
				reply = handleFrame(svc, raw)
			}
			if err := ws.WriteMessage(websocket.TextMessage, reply); err != nil {
				break
			}
			metrics.RecordSessionFrame("websocket", "out")
		}
		logging.Debug().Str("remote", ws.RemoteAddr().String()).Msg("[ws] client disconnected")
	}
}
