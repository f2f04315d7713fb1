/*
Package irc implements a small Internet Relay Chat (IRC) server speaking a
text-line subset of RFC 2812 over TCP.

# Features

## Connection and Authentication

- Connection password protection with the PASS command
- Registration sequence (PASS, NICK, USER) in any order, completed exactly once
- Nickname management with uniqueness enforcement (NICK)
- PING/PONG and a fixed CAP LS/REQ capability acknowledgement

## Channel Operations

- Channel creation and membership (JOIN, PART)
- Channel topic management with the TOPIC command
- Channel modes: i (invite-only), t (topic restriction), o (operator),
  k (channel key), l (user limit)
- User removal with the KICK command
- Channel invitation with the INVITE command
- NAMES listing in join order on every JOIN

## Messaging

- Channel messages with PRIVMSG, relayed to every member

# Implementation Details

The server multiplexes every connection onto a single event loop: the accept
loop and one reader goroutine per connection convert socket activity into
events on one channel, and a single goroutine consumes those events and owns
all protocol state (sessions, nicknames, channels). Shared state therefore
needs no locking, and each connection's commands are handled strictly in
arrival order. Channels reference their members by session identifier; the
session registry is the sole owner of session state.

Replies are queued per connection and flushed by a dedicated writer, so a
slow consumer never stalls the loop. There is no TLS, no persistence and no
server-to-server federation.
*/
package irc
