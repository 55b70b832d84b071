// Package server exposes the editor to remote tools over a websocket.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/lowengine/internal/core/events/bus"
	"github.com/zeusync/lowengine/internal/core/observability/log"
	"github.com/zeusync/lowengine/internal/editor"
	"github.com/zeusync/lowengine/internal/engine"
	"github.com/zeusync/lowengine/pkg/generic"
)

// Inspector serves /ws. Each message a client sends is a Request run on the
// game loop through the engine's command queue; bus events are pushed to all
// clients as they happen.
type Inspector struct {
	engine *engine.Engine
	editor *editor.Editor
	events bus.Bus
	config Config
	logger log.Log

	upgrader websocket.Upgrader
	buffers  *generic.Pool[*bytes.Buffer]

	mu       sync.RWMutex
	sessions map[string]*session

	httpServer *http.Server
	listener   net.Listener
	sub        bus.Subscription
	running    int32
	closed     int32
}

type session struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (s *session) close() {
	s.once.Do(func() { close(s.done) })
}

func NewInspector(e *engine.Engine, ed *editor.Editor, config Config, logger log.Log) *Inspector {
	if logger == nil {
		logger = log.Nop()
	}
	s := &Inspector{
		engine:   e,
		editor:   ed,
		events:   e.Scenes().Events(),
		config:   config,
		logger:   logger.With(log.String("component", "inspector")),
		sessions: make(map[string]*session),
		buffers: generic.NewPool(func() *bytes.Buffer {
			return bytes.NewBuffer(make([]byte, 0, 1024))
		}, (*bytes.Buffer).Reset),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
	s.sub = s.events.Subscribe(bus.Wildcard, s.onEvent)
	return s
}

// Handler routes /ws to the inspector.
func (s *Inspector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Inspector) Start(_ context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Inspector stopped serving", log.Error(err))
		}
	}()
	s.logger.Info("Inspector listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound address while running.
func (s *Inspector) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the listener down and disconnects every client.
func (s *Inspector) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	err := s.httpServer.Shutdown(ctx)
	s.disconnectAll()
	s.logger.Info("Inspector stopped")
	return err
}

// Close stops the inspector if needed and detaches it from the bus.
func (s *Inspector) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		_ = s.Stop(context.Background())
	}
	s.disconnectAll()
	s.events.Unsubscribe(s.sub)
	return nil
}

// Run starts the inspector and blocks until ctx is done.
func (s *Inspector) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
	defer cancel()
	if err := s.Stop(shutdown); err != nil && !errors.Is(err, ErrServerNotRunning) {
		return err
	}
	return nil
}

// Sessions counts connected clients.
func (s *Inspector) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.closed) == 1 {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	sess, total, ok := s.reserve()
	if !ok {
		s.logger.Warn("Maximum clients reached, rejecting connection", log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		s.release(sess)
		return
	}
	if s.config.MaxMessageSize > 0 {
		conn.SetReadLimit(s.config.MaxMessageSize)
	}
	sess.conn = conn
	s.logger.Info("Client connected",
		log.String("session", sess.id),
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int("total_clients", total))

	go s.writeLoop(sess)
	s.enqueue(sess, Hello{Session: sess.id})
	s.readLoop(r.Context(), sess)
}

// reserve checks the client limit and registers a new session under one
// lock, so concurrent connects cannot overshoot MaxClients.
func (s *Inspector) reserve() (*session, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.MaxClients > 0 && len(s.sessions) >= s.config.MaxClients {
		return nil, len(s.sessions), false
	}
	sess := &session{
		id:   uuid.NewString(),
		send: make(chan []byte, max(s.config.SendBuffer, 1)),
		done: make(chan struct{}),
	}
	s.sessions[sess.id] = sess
	return sess, len(s.sessions), true
}

// release forgets a session that never got a connection.
func (s *Inspector) release(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	sess.close()
}

func (s *Inspector) readLoop(ctx context.Context, sess *session) {
	defer s.drop(sess)
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("Client read failed", log.String("session", sess.id), log.Error(err))
			}
			return
		}

		var req Request
		if err = json.Unmarshal(data, &req); err != nil || req.Command == "" {
			s.enqueue(sess, Response{ID: req.ID, Error: ErrInvalidMessage.Error()})
			continue
		}
		s.enqueue(sess, s.execute(ctx, req))
	}
}

func (s *Inspector) writeLoop(sess *session) {
	for {
		select {
		case msg := <-sess.send:
			if s.config.WriteTimeout > 0 {
				_ = sess.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			}
			if err := sess.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("Client write failed", log.String("session", sess.id), log.Error(err))
				sess.close()
				_ = sess.conn.Close()
				return
			}
		case <-sess.done:
			_ = sess.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = sess.conn.Close()
			return
		}
	}
}

func (s *Inspector) drop(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	total := len(s.sessions)
	s.mu.Unlock()
	sess.close()
	s.logger.Info("Client disconnected", log.String("session", sess.id), log.Int("total_clients", total))
}

func (s *Inspector) disconnectAll() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
}

// encode renders v through a pooled buffer and returns a private copy.
func (s *Inspector) encode(v any) ([]byte, error) {
	buf := s.buffers.Get()
	defer s.buffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return bytes.Clone(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// enqueue never blocks; a client too slow to drain its buffer loses the
// message.
func (s *Inspector) enqueue(sess *session, v any) bool {
	msg, err := s.encode(v)
	if err != nil {
		s.logger.Error("Failed to encode message", log.Error(err))
		return false
	}
	select {
	case <-sess.done:
		return false
	default:
	}
	select {
	case sess.send <- msg:
		return true
	default:
		s.logger.Warn("Client send buffer full, dropping message", log.String("session", sess.id))
		return false
	}
}

func (s *Inspector) onEvent(ev bus.Event) error {
	push := Push{Event: ev.Type(), Data: ev.Data()}
	s.mu.RLock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()
	for _, sess := range sessions {
		s.enqueue(sess, push)
	}
	return nil
}
