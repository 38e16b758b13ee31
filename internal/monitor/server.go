package monitor

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ik5/beatstretch/internal/host"
	"github.com/ik5/beatstretch/stretch"
)

const (
	sendBufferSize = 256
	writeTimeout   = 10 * time.Second
	maxCommandSize = 64 * 1024
)

// Player is the command target of the monitor.
type Player interface {
	Play(ctx context.Context, file string, tempo float64) (*stretch.Session, error)
	Stop()
}

// Options configure a Server.
type Options struct {
	// AllowedOrigins lists accepted Origin headers; "*" accepts any.
	AllowedOrigins []string
	// MediaDir, when set, is the directory play commands are resolved in.
	// Paths cannot escape it.
	MediaDir string
}

// Server accepts websocket clients, forwards their commands to a Player
// and broadcasts engine events and audio to all of them.
type Server struct {
	httpServer *http.Server
	upgrader   websocket.Upgrader
	player     Player
	mediaDir   string

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type outbound struct {
	kind int
	data []byte
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan outbound

	closeOnce sync.Once
	done      chan struct{}
}

// New returns a server for addr. It does not listen until Start.
func New(addr string, player Player, opts Options) *Server {
	s := &Server{
		player:   player,
		mediaDir: opts.MediaDir,
		clients:  make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				for _, allowed := range opts.AllowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler serves /ws and /health.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("monitor: listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown disconnects all clients and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("monitor: shutting down")

	s.mu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// ClientCount reports the connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Run broadcasts events and frames until ctx is cancelled. A closed
// channel is ignored from then on.
func (s *Server) Run(ctx context.Context, events <-chan stretch.Event, frames <-chan host.Frame) {
	for events != nil || frames != nil {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.broadcastJSON(NewEventMessage(e))
		case f, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			s.broadcast(outbound{kind: websocket.BinaryMessage, data: encodeFrame(f)})
		}
	}
	<-ctx.Done()
}

func (s *Server) broadcastJSON(msg EventMessage) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		log.Printf("monitor: encoding %s event: %v", msg.Event, err)
		return
	}
	s.broadcast(outbound{kind: websocket.TextMessage, data: data})
}

func (s *Server) broadcast(msg outbound) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for c := range s.clients {
		c.queue(msg)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor: upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(maxCommandSize)

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan outbound, sendBufferSize),
		done: make(chan struct{}),
	}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	log.Printf("monitor: client %s connected from %s", c.id, r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		c.close()
		log.Printf("monitor: client %s disconnected", c.id)
	}()

	go c.writePump()
	s.reply(c, newConnectedMessage(c.id))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("monitor: client %s read: %v", c.id, err)
			}
			return
		}
		s.handleCommand(r.Context(), c, data)
	}
}

func (s *Server) handleCommand(ctx context.Context, c *client, data []byte) {
	var cmd Command
	if err := sonic.Unmarshal(data, &cmd); err != nil {
		s.reply(c, newErrorMessage(c.id, "invalid command: "+err.Error()))
		return
	}

	switch cmd.Cmd {
	case CmdPlay:
		if cmd.File == "" {
			s.reply(c, newErrorMessage(c.id, "play needs a file"))
			return
		}
		// failures reach every client as error events
		_, _ = s.player.Play(ctx, s.resolve(cmd.File), cmd.Tempo)
	case CmdStop:
		s.player.Stop()
	default:
		s.reply(c, newErrorMessage(c.id, "unknown command "+cmd.Cmd))
	}
}

// resolve maps a requested file into MediaDir.
func (s *Server) resolve(file string) string {
	if s.mediaDir == "" {
		return file
	}
	return filepath.Join(s.mediaDir, filepath.Clean("/"+file))
}

func (s *Server) reply(c *client, msg EventMessage) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		log.Printf("monitor: encoding reply: %v", err)
		return
	}
	c.queue(outbound{kind: websocket.TextMessage, data: data})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body, _ := sonic.Marshal(map[string]any{"status": "ok", "clients": s.ClientCount()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (c *client) queue(msg outbound) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		// client too slow, drop rather than stall the broadcast
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
				return
			}
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}
