package server

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/elix-dev/elix/pkg/element"
	"github.com/elix-dev/elix/pkg/loop"
	"github.com/elix-dev/elix/pkg/render"
)

var nextSessionID atomic.Uint64

// session is one live element bound to one WebSocket connection.
//
// The element and its scheduler belong to the session's loop goroutine.
// The read goroutine only decodes messages and posts them to the loop.
// Writes come from both goroutines and are serialized by writeMu.
type session struct {
	id     string
	server *Server
	conn   *websocket.Conn
	loop   *loop.Loop
	el     *element.Element

	writeMu   sync.Mutex
	closeOnce sync.Once

	logger *slog.Logger
}

func newSession(s *Server, conn *websocket.Conn) *session {
	id := "s" + strconv.FormatUint(nextSessionID.Add(1), 10)
	logger := s.logger.With("session", id)
	return &session{
		id:     id,
		server: s,
		conn:   conn,
		loop: loop.New(loop.Options{
			QueueSize: s.cfg.Loop.QueueSize,
			Logger:    logger,
		}),
		logger: logger,
	}
}

// run serves the session until the client goes away or the session is
// closed.
func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if limit := s.server.cfg.Server.MaxMessageSize; limit > 0 {
		s.conn.SetReadLimit(limit)
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		s.loop.Run(ctx)
	}()
	defer func() {
		s.loop.Close()
		<-loopDone
		// The loop has stopped, so the element is safe to touch here.
		if s.el != nil {
			s.el.Disconnect()
		}
		s.close(websocket.CloseNormalClosure, "")
	}()

	started := make(chan error, 1)
	if err := s.loop.Post(func() { started <- s.start() }); err != nil {
		s.send(errorFrame(err))
		return
	}
	select {
	case err := <-started:
		if err != nil {
			s.logger.Error("element construction failed", "error", err)
			s.send(errorFrame(err))
			return
		}
	case <-loopDone:
		return
	}

	s.logger.Debug("session started")
	s.readLoop()
	s.logger.Debug("session ended")
}

// start builds and connects the element. It runs on the loop, so the first
// render is sent before the turn ends.
func (s *session) start() error {
	sched := render.NewScheduler(s.loop, render.Options{
		Metrics: s.server.renderMetrics,
		Tracer:  s.server.tracer,
		Logger:  s.logger,
		OnError: func(_ render.Renderer, err error) {
			s.send(errorFrame(err))
		},
	})
	el, err := s.server.newElement(sched, s.server.elementOptions(s.logger))
	if err != nil {
		return err
	}
	el.OnRender(func(e *element.Element) {
		s.send(Frame{Type: FrameRender, HTML: e.HTML()})
	})
	el.On(element.AnyEvent, func(name string, detail any) {
		s.send(Frame{Type: FrameEvent, Name: name, Detail: detail})
	})
	s.el = el
	el.Connect()
	return nil
}

// readLoop decodes client messages until the connection fails.
func (s *session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived) {
				s.logger.Warn("read error", "error", err)
			}
			return
		}

		msg, err := decodeMessage(data)
		if err != nil {
			s.server.metrics.messageErrors.Inc()
			s.logger.Debug("bad client message", "error", err)
			s.send(errorFrame(err))
			continue
		}
		s.server.metrics.messagesTotal.WithLabelValues(msg.Type).Inc()

		if msg.Type == messagePing {
			s.send(Frame{Type: FramePong})
			continue
		}

		ev := msg.event()
		if err := s.loop.Post(func() { s.el.Dispatch(ev) }); err != nil {
			s.send(errorFrame(err))
		}
	}
}

// send writes one frame. Failures are logged; the read loop notices a dead
// connection on its own.
func (s *session) send(f Frame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if timeout := s.server.cfg.Server.WriteTimeout; timeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(timeout))
	}
	if err := s.conn.WriteJSON(f); err != nil {
		s.logger.Debug("write failed", "frame", f.Type, "error", err)
		return
	}
	s.server.metrics.framesSent.WithLabelValues(f.Type).Inc()
}

// close sends a close frame and closes the connection. Safe to call from
// any goroutine, any number of times.
func (s *session) close(code int, reason string) {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		deadline := time.Now().Add(time.Second)
		s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		s.writeMu.Unlock()
		s.conn.Close()
	})
}
