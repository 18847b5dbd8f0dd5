// Package wsnotify dials the backend notification socket with
// golang.org/x/net/websocket.
package wsnotify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/websocket"

	"github.com/heartmarshall/scolary/internal/notify"
)

// Path is the notification endpoint, mounted at the API host root.
const Path = "/ws/notifications"

// TokenSource yields the bearer token for the current session.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// URL derives the socket URL from the API base URL. A non-empty override
// wins. The token, when present, is appended as ?token=.
func URL(baseURL, override, token string) (string, error) {
	raw := baseURL
	if strings.TrimSpace(override) != "" {
		raw = override
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("wsnotify.URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("wsnotify.URL: %q has no host", raw)
	}

	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("wsnotify.URL: unsupported scheme %q", u.Scheme)
	}
	if override == "" || u.Path == "" {
		u.Path = Path
	}
	u.RawQuery = ""
	u.Fragment = ""
	if token != "" {
		u.RawQuery = url.Values{"token": {token}}.Encode()
	}
	return u.String(), nil
}

// Dialer opens notification sockets for the current session.
type Dialer struct {
	baseURL  string
	override string
	tokens   TokenSource
	log      *slog.Logger
}

// NewDialer creates a Dialer. tokens may be nil for anonymous sockets.
func NewDialer(logger *slog.Logger, baseURL, override string, tokens TokenSource) *Dialer {
	return &Dialer{
		baseURL:  baseURL,
		override: override,
		tokens:   tokens,
		log:      logger.With("adapter", "wsnotify"),
	}
}

// Dial implements notify.Dialer.
func (d *Dialer) Dial(ctx context.Context) (notify.Conn, error) {
	var token string
	if d.tokens != nil {
		token, _ = d.tokens.Token(ctx)
	}

	target, err := URL(d.baseURL, d.override, token)
	if err != nil {
		return nil, err
	}
	origin, err := originOf(d.baseURL)
	if err != nil {
		return nil, err
	}

	cfg, err := websocket.NewConfig(target, origin)
	if err != nil {
		return nil, fmt.Errorf("wsnotify.Dial: config: %w", err)
	}
	cfg.Header = make(http.Header)
	if token != "" {
		cfg.Header.Set("Authorization", "Bearer "+token)
	}

	ws, err := cfg.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("wsnotify.Dial: %w", err)
	}
	d.log.DebugContext(ctx, "socket opened", slog.String("path", cfg.Location.Path))
	return &conn{ws: ws}, nil
}

func originOf(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("wsnotify: parse origin: %w", err)
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	}
	return u.Scheme + "://" + u.Host, nil
}

type conn struct {
	ws *websocket.Conn
}

func (c *conn) Read(ctx context.Context) ([]byte, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.ws.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}
	var msg []byte
	if err := websocket.Message.Receive(c.ws, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (c *conn) Close() error {
	return c.ws.Close()
}
