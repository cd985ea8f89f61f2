package controller

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/matesnake/internal/core"
)

// DefaultAddr is where the controller server listens by default.
const DefaultAddr = ":1338"

// maxDatagram bounds a single controller message.
const maxDatagram = 1024

const (
	// DefaultIdleTimeout drops controllers that have not been heard from.
	DefaultIdleTimeout = time.Minute
	// DefaultMaxControllers bounds how many controllers are tracked at once.
	DefaultMaxControllers = 64
)

// remote is a controller known to the server.
type remote struct {
	addr     *net.UDPAddr // where replies go
	states   string       // last button states
	lastSeen time.Time
}

// Server receives controller datagrams over UDP and publishes them to a Hub.
type Server struct {
	conn   net.PacketConn
	hub    *Hub
	logger *log.Logger
	newUID func() string
	now    func() time.Time

	// IdleTimeout and MaxControllers may be changed before Serve.
	IdleTimeout    time.Duration
	MaxControllers int

	mu          sync.Mutex
	controllers map[string]*remote
}

// Listen opens the UDP socket. Call Serve to start processing.
func Listen(addr string, hub *Hub, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("controller: cannot listen on %s: %w", addr, err)
	}
	return &Server{
		conn:           conn,
		hub:            hub,
		logger:         logger,
		newUID:         uuid.NewString,
		now:            time.Now,
		IdleTimeout:    DefaultIdleTimeout,
		MaxControllers: DefaultMaxControllers,
		controllers:    make(map[string]*remote),
	}, nil
}

// Addr returns the local listen address.
func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Serve reads datagrams until ctx is done or the server is closed.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	buf := make([]byte, maxDatagram)
	for {
		n, from, err := s.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("controller: read: %w", err)
		}

		msg, err := ParseMessage(buf[:n])
		if err != nil {
			s.logger.Debug("dropping datagram", "from", from, "error", err)
			continue
		}
		s.handle(msg, from)
	}
}

// Close stops the server.
func (s *Server) Close() error {
	return s.conn.Close()
}

// Controllers returns the number of connected controllers.
func (s *Server) Controllers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.controllers)
}

func (s *Server) handle(msg Message, from net.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expire()

	switch msg.Kind {
	case MsgNew:
		uid := s.newUID()
		if !s.register(uid, replyAddr(from, msg.Port)) {
			return
		}
		s.reply(uid)
		s.logger.Debug("registered controller", "uid", uid, "from", from)
		s.hub.Publish(core.Event{Kind: core.EventConnected, UID: uid})

	case MsgPing:
		r := s.lookup(msg.UID, from)
		if r == nil {
			return
		}
		r.addr = replyAddr(from, msg.Port)
		s.hub.Publish(core.Event{Kind: core.EventPing, UID: msg.UID})

	case MsgStates:
		r := s.lookup(msg.UID, from)
		if r == nil {
			return
		}
		for _, ev := range DiffStates(msg.UID, r.states, msg.States) {
			s.hub.Publish(ev)
		}
		r.states = msg.States

	case MsgText:
		if s.lookup(msg.UID, from) != nil {
			s.logger.Debug("controller text", "uid", msg.UID, "text", msg.Text)
		}

	case MsgBye:
		if _, ok := s.controllers[msg.UID]; ok {
			s.drop(msg.UID)
			s.logger.Debug("unregistered controller", "uid", msg.UID)
		}
	}
}

// register tracks a new controller. It returns false when the server
// already tracks MaxControllers. Caller holds s.mu.
func (s *Server) register(uid string, addr *net.UDPAddr) bool {
	if s.MaxControllers > 0 && len(s.controllers) >= s.MaxControllers {
		s.logger.Debug("controller limit reached", "uid", uid, "max", s.MaxControllers)
		return false
	}
	s.controllers[uid] = &remote{addr: addr, lastSeen: s.now()}
	return true
}

// lookup returns the controller for uid, registering controllers that
// kept their uid across a server restart. It returns nil when the
// controller cannot be registered. Caller holds s.mu.
func (s *Server) lookup(uid string, from net.Addr) *remote {
	r, ok := s.controllers[uid]
	if !ok {
		if !s.register(uid, replyAddr(from, 0)) {
			return nil
		}
		r = s.controllers[uid]
		s.logger.Info("controller resumed", "uid", uid, "from", from)
		s.hub.Publish(core.Event{Kind: core.EventConnected, UID: uid})
	}
	r.lastSeen = s.now()
	return r
}

// expire drops controllers silent for longer than IdleTimeout.
// Caller holds s.mu.
func (s *Server) expire() {
	if s.IdleTimeout <= 0 {
		return
	}
	now := s.now()
	for uid, r := range s.controllers {
		if now.Sub(r.lastSeen) > s.IdleTimeout {
			s.logger.Info("controller timed out", "uid", uid, "idle", now.Sub(r.lastSeen).Round(time.Second))
			s.drop(uid)
		}
	}
}

// drop forgets a controller and announces it left. Caller holds s.mu.
func (s *Server) drop(uid string) {
	delete(s.controllers, uid)
	s.hub.Publish(core.Event{Kind: core.EventDisconnected, UID: uid})
}

// reply sends the uid to a new controller. Caller holds s.mu.
func (s *Server) reply(uid string) {
	r := s.controllers[uid]
	if r == nil || r.addr == nil {
		return
	}
	if _, err := s.conn.WriteTo(UIDMessage(uid), r.addr); err != nil {
		s.logger.Warn("cannot reply to controller", "uid", uid, "addr", r.addr, "error", err)
	}
}

// replyAddr is the sender's IP at the port the controller asked for.
// port 0 keeps the sender's source port.
func replyAddr(from net.Addr, port int) *net.UDPAddr {
	udp, ok := from.(*net.UDPAddr)
	if !ok {
		return nil
	}
	addr := &net.UDPAddr{IP: udp.IP, Port: udp.Port, Zone: udp.Zone}
	if port > 0 {
		addr.Port = port
	}
	return addr
}
