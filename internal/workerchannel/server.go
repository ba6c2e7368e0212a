package workerchannel

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kzero-xyz/kzero-service/pkg/logger"
	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// Server accepts worker connections and registers them into a Pool. No
// example repo carries a complete websocket handshake, so the server
// wires github.com/gorilla/websocket directly.
type Server struct {
	pool     *Pool
	upgrader websocket.Upgrader
	onResult ResultHandler
	log      *logger.Logger
}

func NewServer(pool *Pool, onResult ResultHandler) *Server {
	return &Server{
		pool:     pool,
		upgrader: websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
		onResult: onResult,
		log:      logger.Default(),
	}
}

// HandleUpgrade is a plain http.HandlerFunc; wire it into gin with
// gin.WrapF at the worker channel path (serve's --ws-path /
// WORKER_WS_PATH).
func (s *Server) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error(err, reasoncodes.ErrChannelUnhealthy, "worker upgrade failed")
		return
	}

	id := uuid.NewString()
	c := newConnection(id, conn, s.onResult)
	s.pool.register(c)
	s.log.Infof("worker %s connected", id)

	go c.readPump(s.pool)
}
