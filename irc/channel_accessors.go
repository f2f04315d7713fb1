package irc

// Name returns the channel name, including its '#' or '&' prefix.
func (ch *Channel) Name() string { return ch.name }

// Topic returns the channel topic ("" when unset).
func (ch *Channel) Topic() string { return ch.topic }

// Key returns the channel password ("" when none).
func (ch *Channel) Key() string { return ch.key }

// InviteOnly reports the +i flag.
func (ch *Channel) InviteOnly() bool { return ch.inviteOnly }

// TopicRestricted reports the +t flag.
func (ch *Channel) TopicRestricted() bool { return ch.topicRestricted }

// UserLimit returns the +l member limit (0 = unlimited).
func (ch *Channel) UserLimit() int { return ch.userLimit }

// Members returns the member session IDs in join order.
func (ch *Channel) Members() []string {
	out := make([]string, len(ch.members))
	copy(out, ch.members)
	return out
}
