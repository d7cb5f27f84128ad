// ABOUTME: Control server for remote gestures, sound effects and narration
// ABOUTME: Serves the /gate WebSocket and the latest narration as a WAV download
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lotsdraw/fortune-audio/internal/discovery"
	"github.com/lotsdraw/fortune-audio/internal/version"
	"github.com/lotsdraw/fortune-audio/pkg/audiogate"
	"github.com/lotsdraw/fortune-audio/pkg/narration"
)

const (
	// DefaultPort is the control server port
	DefaultPort = 8930

	// GatePath is the WebSocket endpoint
	GatePath = "/gate"

	// NarrationPath serves the latest narration WAV
	NarrationPath = "/narration.wav"

	helloTimeout = 5 * time.Second
)

// Config configures the control server
type Config struct {
	// Port to listen on (default: 8930)
	Port int

	// Name of the server for identification
	Name string

	// Gate plays sound effects (required)
	Gate *audiogate.Gate

	// Bus receives remote gestures (required)
	Bus *audiogate.Bus

	// Narrator handles narrate requests; nil disables them
	Narrator *narration.Narrator

	// EnableMDNS enables mDNS service advertisement
	EnableMDNS bool
}

// Server is the control server
type Server struct {
	config   Config
	serverID string

	upgrader   websocket.Upgrader
	httpServer *http.Server
	mux        *http.ServeMux

	mdnsManager *discovery.Manager

	connsMu sync.Mutex
	conns   map[*websocket.Conn]struct{}

	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// NewServer creates a control server
func NewServer(config Config) (*Server, error) {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Name == "" {
		config.Name = "Fortune Audio"
	}
	if config.Gate == nil {
		return nil, fmt.Errorf("audio gate is required")
	}
	if config.Bus == nil {
		return nil, fmt.Errorf("gesture bus is required")
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Local network controllers only
				return true
			},
		},
		conns:    make(map[*websocket.Conn]struct{}),
		stopChan: make(chan struct{}),
	}

	s.mux.HandleFunc(GatePath, s.handleWebSocket)
	s.mux.HandleFunc(NarrationPath, s.handleNarration)

	return s, nil
}

// Handler returns the HTTP handler serving all endpoints
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until Stop is called or the listener fails
func (s *Server) Start() error {
	log.Printf("Control server starting: %s (ID: %s)", s.config.Name, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			Path:        GatePath,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := net.JoinHostPort("", strconv.Itoa(s.config.Port))
	log.Printf("Control server listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-s.stopChan:
		log.Printf("Control server shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		return err
	}

	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Hijacked connections are not closed by Shutdown
	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	log.Printf("Control server stopped cleanly")
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// handleNarration serves the latest narration as a WAV download
func (s *Server) handleNarration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.config.Narrator == nil {
		http.NotFound(w, r)
		return
	}

	res := s.config.Narrator.Last()
	if res == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", res.Blob.MediaType)
	w.Header().Set("Content-Length", strconv.Itoa(res.Blob.Size()))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", narration.DownloadName("narration", res.CreatedAt)))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := res.Blob.WriteTo(w); err != nil {
		log.Printf("Error writing narration: %v", err)
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New control connection from %s", r.RemoteAddr)
	s.wg.Add(1)
	defer s.wg.Done()
	s.handleConnection(r.Context(), conn)
}

// handleConnection runs one controller session
func (s *Server) handleConnection(ctx context.Context, conn *websocket.Conn) {
	s.connsMu.Lock()
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()

	defer func() {
		s.connsMu.Lock()
		delete(s.conns, conn)
		s.connsMu.Unlock()
		conn.Close()
	}()

	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		log.Printf("Rejecting connection during shutdown")
		return
	}
	s.shutdownMu.RUnlock()

	hello, err := s.readHello(conn)
	if err != nil {
		log.Printf("Control handshake failed: %v", err)
		return
	}
	log.Printf("Controller hello: %s (ID: %s)", hello.Name, hello.ClientID)

	if err := conn.WriteJSON(Message{
		Type: TypeServerHello,
		Payload: ServerHello{
			ServerID: s.serverID,
			Name:     s.config.Name,
			Version:  ProtocolVersion,
			Software: version.Product + " " + version.Version,
		},
	}); err != nil {
		log.Printf("Error sending server/hello: %v", err)
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Read error from %s: %v", hello.Name, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.WriteJSON(errorMessage("invalid message: %v", err))
			continue
		}

		if err := conn.WriteJSON(s.dispatch(ctx, msg)); err != nil {
			log.Printf("Write error to %s: %v", hello.Name, err)
			return
		}
	}
}

func (s *Server) readHello(conn *websocket.Conn) (*ClientHello, error) {
	conn.SetReadDeadline(time.Now().Add(helloTimeout))
	defer conn.SetReadDeadline(time.Time{})

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		return nil, fmt.Errorf("failed to read client/hello: %w", err)
	}
	if msg.Type != TypeClientHello {
		return nil, fmt.Errorf("expected %s, got %s", TypeClientHello, msg.Type)
	}

	var hello ClientHello
	if err := decodePayload(msg.Payload, &hello); err != nil {
		return nil, err
	}
	if hello.ClientID == "" || hello.Name == "" {
		return nil, fmt.Errorf("client hello missing required fields")
	}
	return &hello, nil
}

// dispatch handles one request and returns the reply
func (s *Server) dispatch(ctx context.Context, msg Message) Message {
	switch msg.Type {
	case TypeGesture:
		var req GestureRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return errorMessage("%v", err)
		}
		kind, err := audiogate.ParseGesture(req.Gesture)
		if err != nil {
			return errorMessage("%v", err)
		}
		s.config.Bus.Emit(kind)
		if !s.config.Gate.IsUnlocked() {
			s.config.Gate.Unlock(ctx)
		}
		return Message{Type: TypeStatus, Payload: s.status()}

	case TypeSFX:
		var req SFXRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return errorMessage("%v", err)
		}
		if req.URL == "" {
			return errorMessage("sfx request missing url")
		}
		var opts []audiogate.SFXOption
		if req.Volume != nil {
			opts = append(opts, audiogate.WithVolume(*req.Volume))
		}
		played := s.config.Gate.PlaySFX(ctx, req.URL, opts...)
		return Message{Type: TypeSFXResult, Payload: SFXResult{URL: req.URL, Played: played}}

	case TypeNarrate:
		if s.config.Narrator == nil {
			return errorMessage("narration is not configured")
		}
		var req NarrateRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return errorMessage("%v", err)
		}
		if req.Text == "" {
			return errorMessage("narrate request missing text")
		}
		res, err := s.config.Narrator.Narrate(ctx, req.Text)
		if err != nil {
			return errorMessage("narration failed: %v", err)
		}
		result := NarrateResult{}
		if res != nil {
			result = NarrateResult{
				Available:  true,
				ID:         res.ID.String(),
				Text:       res.Text,
				DurationMs: res.Duration.Milliseconds(),
				Bytes:      res.Blob.Size(),
				Download:   NarrationPath,
				Playing:    s.config.Narrator.IsPlaying(),
			}
		}
		return Message{Type: TypeNarrateResult, Payload: result}

	case TypeStatus:
		return Message{Type: TypeStatus, Payload: s.status()}

	default:
		return errorMessage("unknown message type: %s", msg.Type)
	}
}

func (s *Server) status() Status {
	st := s.config.Gate.Status()
	narrating := false
	if s.config.Narrator != nil {
		narrating = s.config.Narrator.IsPlaying()
	}
	return Status{
		Unlocked:  st.Unlocked,
		State:     st.State,
		Pending:   st.Pending,
		Narrating: narrating,
	}
}

func errorMessage(format string, args ...interface{}) Message {
	return Message{Type: TypeError, Payload: ErrorPayload{Message: fmt.Sprintf(format, args...)}}
}
