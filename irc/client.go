package irc

import (
	"fmt"
	"log"
	"net"
	"strings"
	"time"
)

// readChunkSize is how much is read from a socket per readiness, matching
// the fixed recv buffer of classic single-threaded ircds.
const readChunkSize = 1024

// Client is one connected session. All fields except the output side of
// buffer are owned by the server's event loop; the reader and writer
// goroutines only move bytes between the socket and that loop.
type Client struct {
	id       string
	conn     net.Conn
	server   *Server
	hostname string

	nickname string
	username string
	realname string

	authenticated bool // PASS accepted
	registered    bool // PASS + NICK + USER all satisfied, never reverts

	channels map[string]bool // channel names this session joined
	buffer   LineBuffer

	wake chan struct{} // write-interest: pulsed when output is queued
	quit chan struct{}
	gone bool // set once by the loop's disconnect cleanup
}

// readLoop pulls raw chunks off the socket and hands them to the event
// loop. It never parses: framing and dispatch happen on the loop so the
// session's state is only ever touched from one goroutine.
func (c *Client) readLoop() {
	buf := make([]byte, readChunkSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			c.server.events <- event{kind: eventData, client: c, data: data}
		}
		if err != nil {
			c.server.events <- event{kind: eventDisconnect, client: c, err: err}
			return
		}
	}
}

// writeLoop flushes the session's queued output whenever the loop signals
// write interest. A failed send closes the socket, which surfaces as the
// reader's disconnect event; the unsent tail is re-queued first so nothing
// is silently dropped before cleanup.
func (c *Client) writeLoop() {
	for {
		select {
		case <-c.wake:
			for {
				data := c.buffer.Drain()
				if len(data) == 0 {
					break
				}
				n, err := c.conn.Write(data)
				if err != nil {
					if n < len(data) {
						c.buffer.QueueOutput(data[n:])
					}
					c.conn.Close()
					return
				}
			}
		case <-c.quit:
			return
		}
	}
}

// sendRaw queues one protocol line for this session and marks its writer
// runnable.
func (c *Client) sendRaw(message string) {
	if c.server.config.Debug {
		log.Printf("[%s] => %s", c.describe(), message)
	}
	c.buffer.QueueOutput([]byte(message + "\r\n"))
	select {
	case c.wake <- struct{}{}:
	default:
	}
	c.server.stats.messageSent()
}

// sendNumeric queues a ":<server> <code> <nick|*> <text>" reply.
func (c *Client) sendNumeric(numeric int, text string) {
	target := c.nickname
	if target == "" {
		target = "*"
	}
	c.sendRaw(fmt.Sprintf(":%s %03d %s %s", c.server.config.Server.Name, numeric, target, text))
}

// describe names the session for log lines: the nickname once there is one,
// the peer address before that.
func (c *Client) describe() string {
	if c.nickname != "" {
		return c.nickname
	}
	return c.hostname
}

// handlePass handles a PASS command
func (c *Client) handlePass(params string) {
	if c.authenticated {
		c.sendNumeric(ERR_ALREADYREGISTRED, ":You may not reregister")
		return
	}
	if params == "" {
		c.sendNumeric(ERR_NEEDMOREPARAMS, "PASS :Not enough parameters")
		return
	}
	if params != c.server.config.Server.Password {
		log.Printf("[%s] failed password authentication", c.hostname)
		c.sendNumeric(ERR_PASSWDMISMATCH, ":Password incorrect")
		return
	}
	c.authenticated = true
	log.Printf("[%s] authenticated with password", c.hostname)
	c.tryCompleteRegistration()
}

// handleNick handles a NICK command
func (c *Client) handleNick(params string) {
	nickname, _ := firstToken(params)
	if nickname == "" {
		c.sendNumeric(ERR_NONICKNAMEGIVEN, ":No nickname given")
		return
	}

	// Exact, case-sensitive uniqueness. Re-sending your own nick is allowed.
	if other := c.server.getClientByNickname(nickname); other != nil && other != c {
		c.sendNumeric(ERR_NICKNAMEINUSE, fmt.Sprintf("%s :Nickname is already in use", nickname))
		return
	}

	oldNick := c.nickname
	c.nickname = nickname
	log.Printf("[%s] nickname %q -> %q", c.hostname, oldNick, nickname)

	if oldNick != "" {
		c.sendRaw(fmt.Sprintf(":%s NICK %s", oldNick, nickname))
	}
	c.tryCompleteRegistration()
}

// handleUser handles a USER command
func (c *Client) handleUser(params string) {
	fields := strings.Fields(params)
	if len(fields) != 4 {
		c.sendNumeric(ERR_NEEDMOREPARAMS, "USER :Invalid number of parameters")
		return
	}
	realname, ok := strings.CutPrefix(fields[3], ":")
	if !ok {
		c.sendNumeric(ERR_NEEDMOREPARAMS, "USER :Real name must start with ':'")
		return
	}

	c.username = fields[0]
	c.realname = realname
	log.Printf("[%s] username %q realname %q", c.hostname, c.username, c.realname)
	c.tryCompleteRegistration()
}

// tryCompleteRegistration fires the welcome burst exactly once, when the
// password, nickname and username are all in place. Called after PASS, NICK
// and USER, in whatever order they arrive.
func (c *Client) tryCompleteRegistration() {
	if c.registered {
		return
	}
	if !c.authenticated || c.nickname == "" || c.username == "" {
		return
	}
	c.registered = true
	log.Printf("[%s] fully registered as %s", c.hostname, c.nickname)

	name := c.server.config.Server.Name
	c.sendNumeric(RPL_WELCOME, fmt.Sprintf(":Welcome to the IRC server %s!", c.nickname))
	c.sendNumeric(RPL_YOURHOST, fmt.Sprintf(":Your host is %s, running version %s", name, serverVersion))
	c.sendNumeric(RPL_CREATED, fmt.Sprintf(":This server was created %s", c.server.stats.StartTime.Format(time.RFC1123)))
	c.sendNumeric(RPL_MYINFO, fmt.Sprintf("%s %s o itkol", name, serverVersion))
}

// handlePing handles a PING command; it is answered in every state.
func (c *Client) handlePing(params string) {
	target := c.nickname
	if target == "" {
		target = "*"
	}
	c.sendRaw(fmt.Sprintf(":%s PONG %s :Pong", c.server.config.Server.Name, target))
}

// handleCap handles CAP negotiation with a fixed capability set.
func (c *Client) handleCap(params string) {
	sub, _ := firstToken(params)
	switch strings.ToUpper(sub) {
	case "LS":
		c.sendRaw(fmt.Sprintf(":%s CAP * LS :multi-prefix", c.server.config.Server.Name))
	case "REQ":
		c.sendRaw(fmt.Sprintf(":%s CAP * ACK :multi-prefix", c.server.config.Server.Name))
	default:
		c.sendNumeric(ERR_UMODEUNKNOWNFLAG, ":Unknown CAP command")
	}
}
