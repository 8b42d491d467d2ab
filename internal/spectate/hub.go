// Package spectate streams match events to websocket viewers.
//
// Viewers connect with ?format=json (the default, text frames) or
// ?format=msgpack (binary frames). Slow viewers drop frames rather than stall
// the match loop.
package spectate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/theowiik/photon-phight/internal/event"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// Format is a frame encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

var ErrUnknownFormat = errors.New("spectate: unknown frame format")

// ParseFormat maps the format query value. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Frame is one message to viewers.
type Frame struct {
	Type string  `json:"type" msgpack:"type"`
	Time float64 `json:"t" msgpack:"t"` // Match seconds
	Data any     `json:"data,omitempty" msgpack:"data,omitempty"`
}

// FrameOf wraps a bus event.
func FrameOf(ev event.Event) Frame {
	return Frame{Type: ev.Kind.String(), Time: ev.Time.Seconds(), Data: ev.Payload}
}

// Encode serializes f and returns the websocket message type to send it with.
func Encode(f Frame, format Format) (data []byte, messageType int, err error) {
	switch format {
	case FormatMsgpack:
		data, err = msgpack.Marshal(&f)
		return data, websocket.BinaryMessage, err
	default:
		data, err = json.Marshal(f)
		return data, websocket.TextMessage, err
	}
}

type viewer struct {
	conn   *websocket.Conn
	format Format
	send   chan Frame
}

// Hub fans frames out to every connected viewer.
type Hub struct {
	mu       sync.Mutex
	viewers  map[*viewer]struct{}
	upgrader websocket.Upgrader
	log      *log.Logger
}

// NewHub creates a hub. A nil logger means log.Default().
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		viewers: make(map[*viewer]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: logger.WithPrefix("spectate"),
	}
}

// Subscribe forwards every bus event to viewers. The returned func unsubscribes.
func (h *Hub) Subscribe(bus *event.Bus) func() {
	return bus.SubscribeAll(func(ev event.Event) {
		h.Broadcast(FrameOf(ev))
	})
}

// Broadcast queues f for every viewer without blocking.
func (h *Hub) Broadcast(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for v := range h.viewers {
		select {
		case v.send <- f:
		default:
			// Viewer too slow, drop frame
		}
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// ServeHTTP upgrades the request and streams frames until the viewer leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	v := &viewer{conn: conn, format: format, send: make(chan Frame, sendBuffer)}
	h.mu.Lock()
	h.viewers[v] = struct{}{}
	h.mu.Unlock()
	h.log.Info("viewer connected", "remote", r.RemoteAddr, "format", format)

	go h.writeLoop(v)
	h.readLoop(v)
}

// readLoop discards viewer messages and returns when the connection closes.
func (h *Hub) readLoop(v *viewer) {
	defer h.remove(v)
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(v *viewer) {
	for f := range v.send {
		data, typ, err := Encode(f, v.format)
		if err != nil {
			h.log.Error("encode frame", "type", f.Type, "err", err)
			continue
		}
		v.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := v.conn.WriteMessage(typ, data); err != nil {
			v.conn.Close()
			return
		}
	}
	v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	v.conn.Close()
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.viewers[v]; !ok {
		return
	}
	delete(h.viewers, v)
	close(v.send)
	h.log.Info("viewer disconnected", "remote", v.conn.RemoteAddr())
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for v := range h.viewers {
		delete(h.viewers, v)
		close(v.send)
	}
}
