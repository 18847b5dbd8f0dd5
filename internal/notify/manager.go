package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultReconnectDelay is the wait before redialing after a dropped connection.
const DefaultReconnectDelay = 5 * time.Second

// Conn is an open notification stream.
type Conn interface {
	// Read blocks for the next message. Close unblocks it.
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

// Dialer opens the notification stream.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// Handler receives events. Handlers run on the manager's reader goroutine
// and must not block.
type Handler func(Event)

// Option configures a Manager.
type Option func(*Manager)

// WithReconnectDelay overrides DefaultReconnectDelay.
func WithReconnectDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.reconnectDelay = d
		}
	}
}

// WithClock overrides the ReceivedAt clock.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager shares one connection between subscribers. The first subscriber
// opens it, the last one to leave closes it, and a connection dropped while
// subscribers remain is redialed after the reconnect delay.
type Manager struct {
	dialer         Dialer
	log            *slog.Logger
	reconnectDelay time.Duration
	now            func() time.Time

	mu     sync.Mutex
	subs   map[uint64]Handler
	nextID uint64
	cancel context.CancelFunc
	conn   Conn
}

func NewManager(logger *slog.Logger, dialer Dialer, opts ...Option) *Manager {
	m := &Manager{
		dialer:         dialer,
		log:            logger.With("service", "notify"),
		reconnectDelay: DefaultReconnectDelay,
		now:            time.Now,
		subs:           make(map[uint64]Handler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers h and returns its unsubscribe func, safe to call twice.
func (m *Manager) Subscribe(h Handler) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = h
	if m.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		go m.run(ctx)
	}
	m.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { m.unsubscribe(id) }) }
}

// Subscribers returns the number of active subscribers.
func (m *Manager) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Connected reports whether a connection is currently open.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// Close drops every subscriber and the connection.
func (m *Manager) Close() {
	m.mu.Lock()
	clear(m.subs)
	m.mu.Unlock()
	m.stop()
}

func (m *Manager) unsubscribe(id uint64) {
	m.mu.Lock()
	delete(m.subs, id)
	last := len(m.subs) == 0
	m.mu.Unlock()

	if last {
		m.stop()
	}
}

func (m *Manager) stop() {
	m.mu.Lock()
	if len(m.subs) > 0 || m.cancel == nil {
		m.mu.Unlock()
		return
	}
	cancel, conn := m.cancel, m.conn
	m.cancel, m.conn = nil, nil
	m.mu.Unlock()

	cancel()
	if conn != nil {
		_ = conn.Close()
	}
	m.log.Debug("notifications closed")
}

func (m *Manager) run(ctx context.Context) {
	for {
		conn, err := m.dialer.Dial(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			m.log.WarnContext(ctx, "dial notifications", slog.String("error", err.Error()))
		case !m.attach(ctx, conn):
			_ = conn.Close()
			return
		default:
			m.log.InfoContext(ctx, "notifications connected")
			m.read(ctx, conn)
			m.detach(conn)
			_ = conn.Close()
		}

		if ctx.Err() != nil {
			return
		}
		timer := time.NewTimer(m.reconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (m *Manager) read(ctx context.Context, conn Conn) {
	for {
		raw, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				m.log.WarnContext(ctx, "notifications connection lost",
					slog.String("error", err.Error()),
					slog.Duration("retry_in", m.reconnectDelay))
			}
			return
		}
		m.dispatch(ParseEvent(raw, m.now()))
	}
}

// attach publishes conn unless the manager was stopped meanwhile.
func (m *Manager) attach(ctx context.Context, conn Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	m.conn = conn
	return true
}

func (m *Manager) detach(conn Conn) {
	m.mu.Lock()
	if m.conn == conn {
		m.conn = nil
	}
	m.mu.Unlock()
}

func (m *Manager) dispatch(ev Event) {
	m.mu.Lock()
	handlers := make([]Handler, 0, len(m.subs))
	for _, h := range m.subs {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}
