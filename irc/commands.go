package irc

import (
	"fmt"
	"log"
)

// handleCommand dispatches one framed line. PASS, NICK, USER, PING and CAP
// work in every state; everything else requires a fully registered session.
func (c *Client) handleCommand(line string) {
	if line == "" {
		return
	}
	msg := ParseMessage(line)
	log.Printf("[%s] <= %s %s", c.describe(), msg.Verb, msg.Params)

	switch msg.Verb {
	case "PASS":
		c.handlePass(msg.Params)
	case "NICK":
		c.handleNick(msg.Params)
	case "USER":
		c.handleUser(msg.Params)
	case "PING":
		c.handlePing(msg.Params)
	case "CAP":
		c.handleCap(msg.Params)
	default:
		if !c.registered {
			c.sendNumeric(ERR_UNKNOWNCOMMAND, fmt.Sprintf("%s :Unknown command", msg.Verb))
			return
		}
		switch msg.Verb {
		case "JOIN":
			c.handleJoin(msg.Params)
		case "PART":
			c.handlePart(msg.Params)
		case "PRIVMSG":
			c.handlePrivmsg(msg.Params)
		case "TOPIC":
			c.handleTopic(msg.Params)
		case "KICK":
			c.handleKick(msg.Params)
		case "MODE":
			c.handleMode(msg.Params)
		case "INVITE":
			c.handleInvite(msg.Params)
		default:
			c.sendNumeric(ERR_UNKNOWNCOMMAND, fmt.Sprintf("%s :Unknown command", msg.Verb))
		}
	}
}
