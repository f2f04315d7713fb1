package irc

import (
	"fmt"
	"strconv"
	"strings"
)

// Channel represents an IRC channel. Channels hold session IDs, never
// *Client: the server's session registry owns the sessions, and a
// disconnecting session is removed from every channel it joined.
type Channel struct {
	name            string
	topic           string
	key             string
	inviteOnly      bool
	topicRestricted bool
	userLimit       int // 0 = unlimited

	members   []string // session IDs in join order, used for NAMES
	operators map[string]bool
	invited   map[string]bool
}

// NewChannel creates a channel with the creator as its sole member and
// operator. New channels start with no modes and no user limit.
func NewChannel(name, creatorID string) *Channel {
	return &Channel{
		name:      name,
		members:   []string{creatorID},
		operators: map[string]bool{creatorID: true},
		invited:   make(map[string]bool),
	}
}

// AddMember appends the session to the member list. It refuses duplicates
// and, when a user limit is set, refuses to grow past it.
func (ch *Channel) AddMember(id string) bool {
	if ch.userLimit > 0 && len(ch.members) >= ch.userLimit {
		return false
	}
	for _, m := range ch.members {
		if m == id {
			return false
		}
	}
	ch.members = append(ch.members, id)
	return true
}

// RemoveMember removes the session from the member list, the operator set
// and the invited set. It reports whether the session was a member.
func (ch *Channel) RemoveMember(id string) bool {
	for i, m := range ch.members {
		if m == id {
			ch.members = append(ch.members[:i], ch.members[i+1:]...)
			delete(ch.operators, id)
			delete(ch.invited, id)
			return true
		}
	}
	return false
}

func (ch *Channel) IsMember(id string) bool {
	for _, m := range ch.members {
		if m == id {
			return true
		}
	}
	return false
}

func (ch *Channel) IsOperator(id string) bool {
	return ch.operators[id]
}

// AddOperator grants operator status. Non-members are ignored so the
// operator set stays a subset of the member set.
func (ch *Channel) AddOperator(id string) {
	if ch.IsMember(id) {
		ch.operators[id] = true
	}
}

func (ch *Channel) RemoveOperator(id string) {
	delete(ch.operators, id)
}

func (ch *Channel) Invite(id string) {
	ch.invited[id] = true
}

func (ch *Channel) IsInvited(id string) bool {
	return ch.invited[id]
}

// Empty reports whether the channel has no members left; empty channels are
// deleted from the registry.
func (ch *Channel) Empty() bool {
	return len(ch.members) == 0
}

// modeString renders the active flags for a 324 reply, with the key and
// limit values appended as arguments.
func (ch *Channel) modeString() string {
	flags := "+"
	var args []string
	if ch.inviteOnly {
		flags += "i"
	}
	if ch.topicRestricted {
		flags += "t"
	}
	if ch.key != "" {
		flags += "k"
		args = append(args, ch.key)
	}
	if ch.userLimit > 0 {
		flags += "l"
		args = append(args, strconv.Itoa(ch.userLimit))
	}
	if len(args) > 0 {
		return flags + " " + strings.Join(args, " ")
	}
	return flags
}

// lookupChannel validates a channel name and resolves it in the registry.
// Both failure cases are the 403 reply.
func (c *Client) lookupChannel(name string) *Channel {
	if !validChannelName(name) {
		c.sendNumeric(ERR_NOSUCHCHANNEL, fmt.Sprintf("%s :No such channel", name))
		return nil
	}
	ch, ok := c.server.channels[name]
	if !ok {
		c.sendNumeric(ERR_NOSUCHCHANNEL, fmt.Sprintf("%s :No such channel", name))
		return nil
	}
	return ch
}

// handleJoin handles a JOIN command
func (c *Client) handleJoin(params string) {
	name, _ := firstToken(params)
	if !validChannelName(name) {
		c.sendNumeric(ERR_NOSUCHCHANNEL, fmt.Sprintf("%s :No such channel", name))
		return
	}

	joinMsg := fmt.Sprintf(":%s JOIN %s", c.nickname, name)

	ch, exists := c.server.channels[name]
	if !exists {
		// First joiner creates the channel and becomes its operator.
		ch = NewChannel(name, c.id)
		c.server.channels[name] = ch
		c.channels[name] = true
		c.server.stats.channelCreated()

		c.sendRaw(joinMsg)
		c.sendNames(ch)
		return
	}

	if !ch.AddMember(c.id) {
		c.sendNumeric(ERR_NOTONCHANNEL, fmt.Sprintf("%s :You're already on that channel", name))
		return
	}
	c.channels[name] = true
	delete(ch.invited, c.id)

	c.sendRaw(joinMsg)
	if ch.topic != "" {
		c.sendNumeric(RPL_TOPIC, fmt.Sprintf("%s :%s", name, ch.topic))
	}
	c.sendNames(ch)

	for _, id := range ch.members {
		if member, ok := c.server.clients[id]; ok && member != c {
			member.sendRaw(joinMsg)
		}
	}
}

// sendNames sends the 353/366 NAMES sequence, listing nicknames in join
// order.
func (c *Client) sendNames(ch *Channel) {
	nicks := make([]string, 0, len(ch.members))
	for _, id := range ch.members {
		if member, ok := c.server.clients[id]; ok {
			nicks = append(nicks, member.nickname)
		}
	}
	c.sendNumeric(RPL_NAMREPLY, fmt.Sprintf("= %s :%s", ch.name, strings.Join(nicks, " ")))
	c.sendNumeric(RPL_ENDOFNAMES, fmt.Sprintf("%s :End of /NAMES list", ch.name))
}

// handlePart handles a PART command
func (c *Client) handlePart(params string) {
	name, reason := firstToken(params)
	reason = strings.TrimPrefix(reason, ":")

	ch := c.lookupChannel(name)
	if ch == nil {
		return
	}
	if !ch.RemoveMember(c.id) {
		c.sendNumeric(ERR_NOTONCHANNEL, fmt.Sprintf("%s :You're not on that channel", name))
		return
	}
	delete(c.channels, name)

	partMsg := fmt.Sprintf(":%s PART %s", c.nickname, name)
	if reason != "" {
		partMsg += " :" + reason
	}
	c.sendRaw(partMsg)
	c.server.broadcast(ch, partMsg)

	if ch.Empty() {
		delete(c.server.channels, name)
		c.server.stats.channelDeleted()
	}
}

// handlePrivmsg handles a PRIVMSG command
func (c *Client) handlePrivmsg(params string) {
	name, text := firstToken(params)
	if text == "" {
		c.sendNumeric(ERR_NORECIPIENT, fmt.Sprintf("%s :No recipient given", name))
		return
	}
	text = strings.TrimPrefix(text, ":")

	ch := c.lookupChannel(name)
	if ch == nil {
		return
	}
	if !ch.IsMember(c.id) {
		c.sendNumeric(ERR_CANNOTSENDTOCHAN, fmt.Sprintf("%s :Cannot send to channel", name))
		return
	}

	// The sender hears its own channel message back.
	c.server.broadcast(ch, fmt.Sprintf(":%s PRIVMSG %s :%s", c.nickname, name, text))
}

// handleTopic handles a TOPIC command
func (c *Client) handleTopic(params string) {
	name, topic := firstToken(params)

	ch := c.lookupChannel(name)
	if ch == nil {
		return
	}

	// Bare channel name is a topic query.
	if topic == "" {
		if ch.topic == "" {
			c.sendNumeric(RPL_NOTOPIC, fmt.Sprintf("%s :No topic is set", name))
		} else {
			c.sendNumeric(RPL_TOPIC, fmt.Sprintf("%s :topic is now: %s", name, ch.topic))
		}
		return
	}

	if !ch.IsMember(c.id) {
		c.sendNumeric(ERR_NOTONCHANNEL, fmt.Sprintf("%s :You're not on that channel", name))
		return
	}
	if ch.topicRestricted && !ch.IsOperator(c.id) {
		c.sendNumeric(ERR_CHANOPRIVSNEEDED, fmt.Sprintf("%s :You're not channel operator", name))
		return
	}

	ch.topic = strings.TrimPrefix(topic, ":")
	c.server.broadcast(ch, fmt.Sprintf(":%s TOPIC %s :topic is now: %s", c.nickname, name, ch.topic))
}

// handleKick handles a KICK command
func (c *Client) handleKick(params string) {
	fields := strings.Fields(params)
	if len(fields) < 2 {
		c.sendNumeric(ERR_NEEDMOREPARAMS, "KICK :Not enough parameters")
		return
	}
	name, targetNick := fields[0], fields[1]

	ch := c.lookupChannel(name)
	if ch == nil {
		return
	}
	if !ch.IsOperator(c.id) {
		c.sendNumeric(ERR_CHANOPRIVSNEEDED, fmt.Sprintf("%s :You're not a channel operator", name))
		return
	}

	target := c.server.getClientByNickname(targetNick)
	if target == nil {
		c.sendNumeric(ERR_NOSUCHNICK, fmt.Sprintf("%s :No such nick", targetNick))
		return
	}
	if !ch.IsMember(target.id) {
		c.sendNumeric(ERR_USERNOTINCHANNEL, fmt.Sprintf("%s %s :They aren't on that channel", targetNick, name))
		return
	}

	// Everyone, the target included, sees the kick before the roster shrinks.
	c.server.broadcast(ch, fmt.Sprintf(":%s KICK %s %s", c.nickname, name, targetNick))

	ch.RemoveMember(target.id)
	delete(target.channels, name)
}

// handleMode handles a MODE command
func (c *Client) handleMode(params string) {
	args := strings.Fields(params)
	if len(args) == 0 {
		return
	}
	name := args[0]

	ch := c.lookupChannel(name)
	if ch == nil {
		return
	}

	// Bare channel name reports the active flags.
	if len(args) == 1 {
		c.sendNumeric(RPL_CHANNELMODEIS, fmt.Sprintf("%s %s", name, ch.modeString()))
		return
	}

	if !ch.IsOperator(c.id) {
		c.sendNumeric(ERR_CHANOPRIVSNEEDED, fmt.Sprintf("%s :You're not a channel operator", name))
		return
	}

	modeStr := args[1]
	modeArgs := args[2:]
	argIndex := 0
	adding := true
	var nickArgs []string

	for _, mode := range modeStr {
		switch mode {
		case '+':
			adding = true
		case '-':
			adding = false
		case 'i':
			ch.inviteOnly = adding
		case 't':
			ch.topicRestricted = adding
		case 'o':
			if argIndex >= len(modeArgs) {
				continue
			}
			targetNick := modeArgs[argIndex]
			argIndex++
			target := c.server.getClientByNickname(targetNick)
			if target == nil {
				c.sendNumeric(ERR_NOSUCHNICK, fmt.Sprintf("%s :No such nick/channel", targetNick))
				continue
			}
			if adding {
				ch.AddOperator(target.id)
			} else {
				ch.RemoveOperator(target.id)
			}
			nickArgs = append(nickArgs, targetNick)
		case 'k':
			if adding {
				if argIndex >= len(modeArgs) {
					continue
				}
				ch.key = modeArgs[argIndex]
				argIndex++
			} else {
				ch.key = ""
			}
		case 'l':
			if adding {
				if argIndex >= len(modeArgs) {
					continue
				}
				limit, err := strconv.Atoi(modeArgs[argIndex])
				argIndex++
				if err != nil || limit < 0 {
					continue
				}
				ch.userLimit = limit
			} else {
				ch.userLimit = 0
			}
		default:
			// Unrecognized mode letters are ignored.
		}
	}

	modeMsg := fmt.Sprintf(":%s MODE %s %s", c.nickname, name, modeStr)
	if len(nickArgs) > 0 {
		modeMsg += " " + strings.Join(nickArgs, " ")
	}
	c.server.broadcast(ch, modeMsg)
}

// handleInvite handles an INVITE command
func (c *Client) handleInvite(params string) {
	fields := strings.Fields(params)
	if len(fields) < 2 {
		c.sendNumeric(ERR_NEEDMOREPARAMS, "INVITE :Not enough parameters")
		return
	}
	targetNick, name := fields[0], fields[1]

	ch := c.lookupChannel(name)
	if ch == nil {
		return
	}
	if !ch.IsOperator(c.id) {
		c.sendNumeric(ERR_CHANOPRIVSNEEDED, fmt.Sprintf("%s :You're not a channel operator", name))
		return
	}

	target := c.server.getClientByNickname(targetNick)
	if target == nil {
		c.sendNumeric(ERR_NOSUCHNICK, fmt.Sprintf("%s :No such nick", targetNick))
		return
	}

	ch.Invite(target.id)
	target.sendRaw(fmt.Sprintf(":%s INVITE %s :%s", c.nickname, targetNick, name))
	c.sendNumeric(RPL_INVITING, fmt.Sprintf("%s %s", targetNick, name))
}
