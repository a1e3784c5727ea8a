package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"

	rkerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/router"
)

// Navigation channel operations.
const (
	OpPush    = "push"
	OpReplace = "replace"
	OpBack    = "back"
	OpForward = "forward"
	OpGo      = "go"
	OpResolve = "resolve"
)

// Navigation channel reply types.
const (
	TypeHello    = "hello"
	TypeLocation = "location"
	TypeNoMatch  = "no_match"
	TypeError    = "error"
)

const writeWait = 10 * time.Second

// NavRequest is a client message on the navigation channel.
type NavRequest struct {
	Op    string `json:"op"`
	To    string `json:"to,omitempty"`
	Delta int    `json:"delta,omitempty"`

	// ID is echoed in the reply so clients can match responses.
	ID string `json:"id,omitempty"`
}

// NavLocation is the wire form of a resolved location.
type NavLocation struct {
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	FullPath string            `json:"fullPath"`
	Href     string            `json:"href"`
	Params   map[string]string `json:"params,omitempty"`
	Query    url.Values        `json:"query,omitempty"`
	Props    router.Props      `json:"props,omitempty"`
}

// NavReply is a server message on the navigation channel.
type NavReply struct {
	Type     string       `json:"type"`
	ID       string       `json:"id,omitempty"`
	Session  string       `json:"session"`
	Location *NavLocation `json:"location,omitempty"`

	// Index and Length describe the session's history stack.
	Index  int `json:"index"`
	Length int `json:"length"`

	// Path is the unmatched target of a no_match reply.
	Path string `json:"path,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// navSession is one navigation channel connection.
type navSession struct {
	id   string
	conn *websocket.Conn
	nav  *router.Navigator

	writeMu sync.Mutex
	closed  atomic.Bool
	done    chan struct{}
}

func (ns *navSession) send(reply NavReply) error {
	ns.writeMu.Lock()
	defer ns.writeMu.Unlock()

	ns.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return ns.conn.WriteJSON(reply)
}

func (ns *navSession) ping() error {
	ns.writeMu.Lock()
	defer ns.writeMu.Unlock()

	return ns.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (ns *navSession) close(code int, text string) {
	if !ns.closed.CompareAndSwap(false, true) {
		return
	}
	close(ns.done)

	ns.writeMu.Lock()
	ns.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(time.Second),
	)
	ns.writeMu.Unlock()
	ns.conn.Close()
}

// handleNav upgrades the request and serves navigation messages until the
// client disconnects. An "at" query parameter performs an initial push.
func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		s.wsError("upgrade")
		return
	}

	ns := &navSession{
		id:   uuid.NewString(),
		conn: conn,
		nav:  s.router.NewNavigator(),
		done: make(chan struct{}),
	}
	s.register(ns)
	defer s.unregister(ns)

	logger := s.logger.With("session", ns.id)
	logger.Info("navigation session opened", "remote", r.RemoteAddr)

	conn.SetReadLimit(s.config.MaxMessageSize)
	idle := 2 * s.config.PingInterval
	conn.SetReadDeadline(time.Now().Add(idle))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(idle))
	})

	ctx := r.Context()
	if err := ns.send(NavReply{Type: TypeHello, Session: ns.id, Index: -1}); err != nil {
		s.wsError("write")
		return
	}
	if at := r.URL.Query().Get("at"); at != "" {
		if err := ns.send(s.dispatch(ctx, ns, NavRequest{Op: OpPush, To: at})); err != nil {
			s.wsError("write")
			return
		}
	}

	go s.pingLoop(ns)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				logger.Error("read error", "error", err)
				s.wsError("read")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(idle))

		var req NavRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.wsError("decode")
			reply := s.errorReply(ns, req, rkerrors.New("S003").Wrap(err))
			if err := ns.send(reply); err != nil {
				s.wsError("write")
				return
			}
			continue
		}

		if err := ns.send(s.dispatch(ctx, ns, req)); err != nil {
			s.wsError("write")
			return
		}
	}
}

// dispatch runs one navigation request against the session's navigator.
func (s *Server) dispatch(ctx context.Context, ns *navSession, req NavRequest) NavReply {
	var (
		loc *router.Location
		err error
	)

	switch req.Op {
	case OpPush:
		loc, err = ns.nav.Push(ctx, req.To)
	case OpReplace:
		loc, err = ns.nav.Replace(ctx, req.To)
	case OpBack:
		loc, err = ns.nav.Back(ctx)
	case OpForward:
		loc, err = ns.nav.Forward(ctx)
	case OpGo:
		loc, err = ns.nav.Go(ctx, req.Delta)
	case OpResolve:
		loc, err = s.router.Resolve(req.To)
	default:
		err = rkerrors.New("S003").WithDetail(fmt.Sprintf("Unknown operation %q.", req.Op))
	}

	if err != nil {
		return s.errorReply(ns, req, err)
	}
	return NavReply{
		Type:     TypeLocation,
		ID:       req.ID,
		Session:  ns.id,
		Location: s.wireLocation(loc),
		Index:    ns.nav.Index(),
		Length:   ns.nav.Len(),
	}
}

func (s *Server) errorReply(ns *navSession, req NavRequest, err error) NavReply {
	reply := NavReply{
		ID:      req.ID,
		Session: ns.id,
		Index:   ns.nav.Index(),
		Length:  ns.nav.Len(),
	}

	if errors.Is(err, router.ErrNoMatch) {
		reply.Type = TypeNoMatch
		reply.Path = req.To
		return reply
	}

	reply.Type = TypeError
	reply.Message = err.Error()
	var rkErr *rkerrors.Error
	if errors.As(err, &rkErr) {
		reply.Code = rkErr.Code
		reply.Message = rkErr.FormatCompact()
	}
	return reply
}

func (s *Server) wireLocation(loc *router.Location) *NavLocation {
	return &NavLocation{
		Name:     loc.Name,
		Path:     loc.Path,
		FullPath: loc.FullPath,
		Href:     s.router.Href(loc),
		Params:   loc.Params,
		Query:    loc.Query,
		Props:    loc.Props(),
	}
}

func (s *Server) pingLoop(ns *navSession) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ns.done:
			return
		case <-ticker.C:
			if err := ns.ping(); err != nil {
				return
			}
		}
	}
}

func (s *Server) register(ns *navSession) {
	s.mu.Lock()
	s.sessions[ns.id] = ns
	s.mu.Unlock()

	s.active.Inc()
	s.opened.Inc()
	if s.metrics != nil {
		s.metrics.SessionOpened()
	}
}

func (s *Server) unregister(ns *navSession) {
	s.mu.Lock()
	delete(s.sessions, ns.id)
	s.mu.Unlock()

	ns.close(websocket.CloseNormalClosure, "")
	s.active.Dec()
	if s.metrics != nil {
		s.metrics.SessionClosed()
	}
	s.logger.Info("navigation session closed", "session", ns.id)
}

func (s *Server) wsError(kind string) {
	if s.metrics != nil {
		s.metrics.WebSocketError(kind)
	}
}
