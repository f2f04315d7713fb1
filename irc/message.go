package irc

import "strings"

// Message is one parsed protocol line: an upper-cased verb and the raw,
// unsplit parameter string. Parameter grammar is command-specific, so
// handlers split Params themselves.
type Message struct {
	Verb   string
	Params string
}

// ParseMessage splits a line on the first space only and case-folds the verb
// to upper. The params remainder keeps its spacing and any trailing colon.
func ParseMessage(line string) Message {
	verb, params, _ := strings.Cut(line, " ")
	return Message{
		Verb:   strings.ToUpper(verb),
		Params: strings.TrimLeft(params, " "),
	}
}

// String reassembles the message as it would appear on the wire, without the
// line terminator.
func (m Message) String() string {
	if m.Params == "" {
		return m.Verb
	}
	return m.Verb + " " + m.Params
}

// firstToken returns the parameter token before the first space, and the
// remainder with its leading space removed.
func firstToken(params string) (string, string) {
	tok, rest, _ := strings.Cut(params, " ")
	return tok, rest
}

// validChannelName reports whether name is a channel name: '#' or '&'
// followed by at least one more character.
func validChannelName(name string) bool {
	if len(name) < 2 {
		return false
	}
	return name[0] == '#' || name[0] == '&'
}
