package irc

import (
	"fmt"
	"log"
	"net"

	"github.com/google/uuid"

	"github.com/Akrm2003/IRC/irc/config"
)

const serverVersion = "1.0"

// welcomeBanner is sent as plain text to every new connection.
const welcomeBanner = "Welcome to the IRC server! Please authenticate with PASS, NICK, and USER commands."

type eventKind int

const (
	eventConnect eventKind = iota
	eventData
	eventDisconnect
)

// event is one unit of socket activity delivered to the server loop.
type event struct {
	kind   eventKind
	client *Client
	data   []byte
	err    error
}

// Server is an IRC server instance. The session registry and channel
// registry are owned by the run loop goroutine and must never be touched
// from anywhere else.
type Server struct {
	config   *config.Config
	clients  map[string]*Client // session ID -> client
	channels map[string]*Channel

	listener net.Listener
	events   chan event
	shutdown chan struct{}
	done     chan struct{}
	stopping bool
	sessions int // live reader goroutines; drained to zero on shutdown

	stats *ServerStats
}

// NewServer creates an IRC server from a validated configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Server{
		config:   cfg,
		clients:  make(map[string]*Client),
		channels: make(map[string]*Channel),
		events:   make(chan event, 64),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		stats:    newServerStats(),
	}, nil
}

// Start binds the listener and starts the accept loop and the event loop.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start IRC listener: %w", err)
	}
	s.listener = listener
	log.Printf("IRC Server started on %s", listener.Addr().String())

	go s.acceptConnections()
	go s.run()
	return nil
}

// Stop closes the listener and every connection, then waits for the event
// loop to finish cleanup.
func (s *Server) Stop() error {
	close(s.shutdown)
	if s.listener != nil {
		s.listener.Close()
	}
	<-s.done
	log.Printf("IRC Server stopped")
	return nil
}

// Addr returns the listener address, for tests binding port 0.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// acceptConnections accepts incoming client connections and hands them to
// the event loop. Session state is not created here beyond the struct
// itself; registration into the registry happens on the loop.
func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				log.Printf("Error accepting connection: %v", err)
				continue
			}
		}

		client := &Client{
			id:       uuid.NewString(),
			conn:     conn,
			server:   s,
			hostname: conn.RemoteAddr().String(),
			channels: make(map[string]bool),
			wake:     make(chan struct{}, 1),
			quit:     make(chan struct{}),
		}
		s.events <- event{kind: eventConnect, client: client}
	}
}

// run is the event loop: the only goroutine that reads or mutates sessions
// and channels. Events for one connection arrive in the order its bytes
// did, so commands are never reordered.
func (s *Server) run() {
	defer close(s.done)
	for {
		select {
		case <-s.shutdown:
			s.stopping = true
			for _, c := range s.clients {
				c.conn.Close()
			}
			// Every reader ends with a disconnect event; drain until the
			// last session is cleaned up.
			for s.sessions > 0 {
				s.handleEvent(<-s.events)
			}
			// Sweep anything the accept loop managed to queue in between.
			for {
				select {
				case ev := <-s.events:
					s.handleEvent(ev)
				default:
					return
				}
			}
		case ev := <-s.events:
			s.handleEvent(ev)
		}
	}
}

func (s *Server) handleEvent(ev event) {
	c := ev.client
	switch ev.kind {
	case eventConnect:
		if s.stopping {
			c.conn.Close()
			return
		}
		s.clients[c.id] = c
		s.sessions++
		s.stats.clientConnected(len(s.clients))
		log.Printf("[%s] *** New client connected", c.hostname)

		go c.readLoop()
		go c.writeLoop()
		c.sendRaw(welcomeBanner)

	case eventData:
		if c.gone {
			return
		}
		c.buffer.Feed(ev.data)
		for {
			line, ok := c.buffer.NextLine()
			if !ok {
				break
			}
			if line == "" {
				continue
			}
			s.stats.messageReceived()
			c.handleCommand(line)
		}

	case eventDisconnect:
		s.sessions--
		s.removeClient(c)
	}
}

// removeClient is the disconnect cleanup: deregister the session, drop it
// from every channel it joined (deleting channels left empty), and close
// the socket. Safe to hit more than once for the same session.
func (s *Server) removeClient(c *Client) {
	if c.gone {
		return
	}
	c.gone = true

	delete(s.clients, c.id)
	for name := range c.channels {
		ch, ok := s.channels[name]
		if !ok {
			continue
		}
		ch.RemoveMember(c.id)
		if ch.Empty() {
			delete(s.channels, name)
			s.stats.channelDeleted()
		}
	}

	close(c.quit)
	c.conn.Close()
	s.stats.clientDisconnected(len(s.clients))
	log.Printf("[%s] *** Client disconnected", c.describe())
}

// broadcast queues one copy of message for every channel member, in join
// order.
func (s *Server) broadcast(ch *Channel, message string) {
	for _, id := range ch.members {
		if member, ok := s.clients[id]; ok {
			member.sendRaw(message)
		}
	}
}

// getClientByNickname resolves a nickname to a session by exact,
// case-sensitive match.
func (s *Server) getClientByNickname(nickname string) *Client {
	for _, c := range s.clients {
		if c.nickname == nickname {
			return c
		}
	}
	return nil
}
