package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// session serializes writes to one connection.
type session struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

func (s *session) write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return websocket.ErrCloseSent
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

func (s *session) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return websocket.ErrCloseSent
	}
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// close stops further writes and closes the socket.
func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	_ = s.conn.Close()
}

func (s *session) sendError(msg string) error {
	return s.write(errorFrame{Type: FrameError, Error: msg})
}
