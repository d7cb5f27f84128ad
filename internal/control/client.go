// ABOUTME: WebSocket client for the control protocol
// ABOUTME: Sends gestures, sound effect and narration requests to a running player
package control

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ClientConfig holds client configuration
type ClientConfig struct {
	ServerAddr string
	Path       string
	Name       string
	Timeout    time.Duration
}

// Client is a controller connection. Requests are answered in order, so
// calls are serialized.
type Client struct {
	config ClientConfig
	conn   *websocket.Conn
	mu     sync.Mutex

	server ServerHello
}

// Dial connects to a control server and performs the handshake
func Dial(ctx context.Context, config ClientConfig) (*Client, error) {
	if config.Path == "" {
		config.Path = GatePath
	}
	if config.Name == "" {
		config.Name = "gatectl"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	u := url.URL{Scheme: "ws", Host: config.ServerAddr, Path: config.Path}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	c := &Client{config: config, conn: conn}
	if err := c.handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake failed: %w", err)
	}
	return c, nil
}

func (c *Client) handshake() error {
	reply, err := c.request(Message{
		Type: TypeClientHello,
		Payload: ClientHello{
			ClientID: uuid.New().String(),
			Name:     c.config.Name,
			Version:  ProtocolVersion,
		},
	}, TypeServerHello)
	if err != nil {
		return err
	}
	if err := decodePayload(reply.Payload, &c.server); err != nil {
		return err
	}
	log.Printf("Handshake complete with %s", c.server.Name)
	return nil
}

// Addr returns the host:port the client is connected to
func (c *Client) Addr() string {
	return c.config.ServerAddr
}

// Server returns the server's hello
func (c *Client) Server() ServerHello {
	return c.server
}

// Gesture forwards a user interaction and returns the resulting status
func (c *Client) Gesture(gesture string) (*Status, error) {
	reply, err := c.request(Message{Type: TypeGesture, Payload: GestureRequest{Gesture: gesture}}, TypeStatus)
	if err != nil {
		return nil, err
	}
	var st Status
	return &st, decodePayload(reply.Payload, &st)
}

// PlaySFX asks the player to play a sound; volume < 0 uses the default
func (c *Client) PlaySFX(soundURL string, volume float64) (*SFXResult, error) {
	req := SFXRequest{URL: soundURL}
	if volume >= 0 {
		req.Volume = &volume
	}
	reply, err := c.request(Message{Type: TypeSFX, Payload: req}, TypeSFXResult)
	if err != nil {
		return nil, err
	}
	var res SFXResult
	return &res, decodePayload(reply.Payload, &res)
}

// Narrate asks the player to speak text
func (c *Client) Narrate(text string) (*NarrateResult, error) {
	reply, err := c.request(Message{Type: TypeNarrate, Payload: NarrateRequest{Text: text}}, TypeNarrateResult)
	if err != nil {
		return nil, err
	}
	var res NarrateResult
	return &res, decodePayload(reply.Payload, &res)
}

// Status returns the player's audio status
func (c *Client) Status() (*Status, error) {
	reply, err := c.request(Message{Type: TypeStatus}, TypeStatus)
	if err != nil {
		return nil, err
	}
	var st Status
	return &st, decodePayload(reply.Payload, &st)
}

// request sends msg and waits for a reply of type want
func (c *Client) request(msg Message, want string) (*Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.WriteJSON(msg); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", msg.Type, err)
	}

	c.conn.SetReadDeadline(time.Now().Add(c.config.Timeout))
	defer c.conn.SetReadDeadline(time.Time{})

	var reply Message
	if err := c.conn.ReadJSON(&reply); err != nil {
		return nil, fmt.Errorf("failed to read reply to %s: %w", msg.Type, err)
	}

	if reply.Type == TypeError {
		var e ErrorPayload
		decodePayload(reply.Payload, &e)
		return nil, fmt.Errorf("server error: %s", e.Message)
	}
	if reply.Type != want {
		return nil, fmt.Errorf("expected %s, got %s", want, reply.Type)
	}
	return &reply, nil
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
