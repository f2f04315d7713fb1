package irc

// ID returns the session identifier channels reference this client by.
func (c *Client) ID() string { return c.id }

// Nickname returns the client's current nickname ("" before NICK).
func (c *Client) Nickname() string { return c.nickname }

// Username returns the username set by USER.
func (c *Client) Username() string { return c.username }

// Realname returns the realname set by USER.
func (c *Client) Realname() string { return c.realname }

// Hostname returns the peer address string.
func (c *Client) Hostname() string { return c.hostname }

// Authenticated reports whether PASS has been accepted.
func (c *Client) Authenticated() bool { return c.authenticated }

// Registered reports whether the session completed registration.
func (c *Client) Registered() bool { return c.registered }
