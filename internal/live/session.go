// Package live runs the scroll tracker for a browser tab over a websocket.
// The browser reports its layout and scroll offset; the server answers with
// the active section and per-section styles, and with scroll commands when
// the reader clicks a navigation item.
package live

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Zachkp/scrollfolio/internal/metrics"
	"github.com/Zachkp/scrollfolio/internal/scroll"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

// inbound is a browser to server message.
type inbound struct {
	Type           string                 `json:"type"` // "layout", "scroll" or "navigate"
	ScrollY        float64                `json:"scroll_y"`
	ViewportHeight float64                `json:"viewport_height"`
	Elements       map[string]scroll.Rect `json:"elements,omitempty"`
	ID             string                 `json:"id,omitempty"`
}

// outbound is a server to browser message.
type outbound struct {
	Type     string                  `json:"type"` // "state", "scrollTo" or "error"
	Session  string                  `json:"session,omitempty"`
	Active   string                  `json:"active,omitempty"`
	Styles   map[string]scroll.Style `json:"styles,omitempty"`
	ID       string                  `json:"id,omitempty"`
	Top      *float64                `json:"top,omitempty"`
	Behavior string                  `json:"behavior,omitempty"`
	Message  string                  `json:"message,omitempty"`
}

var errBadViewport = errors.New("viewport_height must be positive")

// Handler upgrades requests to scroll sessions.
type Handler struct {
	sections []scroll.Section
	engine   *scroll.Engine
	throttle time.Duration
	metrics  *metrics.Registry
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewHandler returns a handler tracking the given sections. Recomputes
// triggered by scroll messages run at most once per throttle interval.
func NewHandler(sections []scroll.Section, throttle time.Duration, m *metrics.Registry, log zerolog.Logger) (*Handler, error) {
	engine, err := scroll.NewEngine(sections)
	if err != nil {
		return nil, err
	}
	return &Handler{
		sections: sections,
		engine:   engine,
		throttle: throttle,
		metrics:  m,
		log:      log.With().Str("component", "live").Logger(),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}, nil
}

// Serve is the gin handler for the websocket endpoint.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	s, err := h.newSession(conn)
	if err != nil {
		h.log.Error().Err(err).Msg("start session")
		conn.Close()
		return
	}
	s.run()
}

type session struct {
	id      string
	conn    *websocket.Conn
	vp      *remoteViewport
	tracker *scroll.Tracker
	engine  *scroll.Engine
	metrics *metrics.Registry
	log     zerolog.Logger

	throttle *scroll.Throttle
	notifyMu sync.Mutex
	writeMu  sync.Mutex
}

func (h *Handler) newSession(conn *websocket.Conn) (*session, error) {
	s := &session{
		id:      uuid.NewString(),
		conn:    conn,
		engine:  h.engine,
		metrics: h.metrics,
	}
	s.log = h.log.With().Str("session", s.id).Logger()
	s.vp = newRemoteViewport(s.sendScrollTo)

	tracker, err := scroll.NewTracker(s.vp, h.sections)
	if err != nil {
		return nil, err
	}
	s.tracker = tracker
	s.tracker.OnChange(func(prev, next string) {
		s.metrics.SectionActivations.WithLabelValues(next).Inc()
		s.log.Debug().Str("from", prev).Str("to", next).Msg("active section changed")
	})
	s.throttle = scroll.NewThrottle(h.throttle, s.refresh)
	return s, nil
}

func (s *session) run() {
	s.metrics.ScrollSessions.Inc()
	s.log.Debug().Msg("scroll session opened")

	s.tracker.Start()
	unpublish := s.vp.Subscribe(s.publish)
	defer func() {
		s.throttle.Stop()
		unpublish()
		s.tracker.Stop()
		s.conn.Close()
		s.metrics.ScrollSessions.Dec()
		s.log.Debug().Msg("scroll session closed")
	}()

	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError("invalid message format")
			continue
		}
		s.metrics.ScrollMessages.WithLabelValues(messageLabel(msg.Type)).Inc()

		if err := s.handle(msg); err != nil {
			s.sendError(err.Error())
		}
	}
}

func (s *session) handle(msg inbound) error {
	switch msg.Type {
	case "layout":
		if msg.ViewportHeight <= 0 {
			return errBadViewport
		}
		s.vp.setLayout(msg.ScrollY, msg.ViewportHeight, msg.Elements)
		s.refresh()
	case "scroll":
		s.vp.setScroll(msg.ScrollY)
		s.throttle.Trigger()
	case "navigate":
		result := "ok"
		if !s.tracker.Navigate(msg.ID) {
			result = "missing"
		}
		s.metrics.Navigations.WithLabelValues(navLabel(s.tracker.Sections(), msg.ID), result).Inc()
	default:
		return errors.New("unknown message type: " + msg.Type)
	}
	return nil
}

// refresh runs the tracker and publisher against the current viewport.
// The read loop and the throttle timer both call it; one at a time, so the
// last state written always reflects the latest reported position.
func (s *session) refresh() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.vp.notify()
}

func (s *session) publish() {
	s.write(outbound{
		Type:    "state",
		Session: s.id,
		Active:  s.tracker.Active(),
		Styles:  s.engine.Styles(s.vp),
	})
}

func (s *session) sendScrollTo(id string, top float64) {
	s.write(outbound{Type: "scrollTo", ID: id, Top: &top, Behavior: "smooth"})
}

func (s *session) sendError(message string) {
	s.write(outbound{Type: "error", Session: s.id, Message: message})
}

func (s *session) write(msg outbound) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.log.Debug().Err(err).Str("type", msg.Type).Msg("websocket write")
	}
}

// messageLabel keeps metric cardinality bounded for arbitrary client input.
func messageLabel(t string) string {
	switch t {
	case "layout", "scroll", "navigate":
		return t
	}
	return "unknown"
}

func navLabel(sections []scroll.Section, id string) string {
	for _, sec := range sections {
		if sec.ID == id {
			return id
		}
	}
	return "other"
}
