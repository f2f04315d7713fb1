package irc_test

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/Akrm2003/IRC/irc"
	"github.com/Akrm2003/IRC/irc/config"
)

func init() {
	log.SetFlags(log.Lshortfile | log.Lmicroseconds)
}

const testPassword = "hunter2"

// newTestServer starts a server on an ephemeral port and returns its
// address. The server is stopped when the test finishes.
func newTestServer(t *testing.T) (*irc.Server, string) {
	t.Helper()

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Failed to build config: %v", err)
	}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.Password = testPassword

	server, err := irc.NewServer(cfg)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { server.Stop() })

	return server, server.Addr().String()
}

// TestClient is a raw protocol client for driving the server in tests.
type TestClient struct {
	t    *testing.T
	conn net.Conn
	text *textproto.Reader
}

// Connect dials the server and consumes the plaintext welcome banner.
func Connect(t *testing.T, addr string) *TestClient {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", addr, err)
	}
	tc := &TestClient{
		t:    t,
		conn: conn,
		text: textproto.NewReader(bufio.NewReader(conn)),
	}
	t.Cleanup(tc.Close)

	banner := tc.ReadLine()
	if !strings.Contains(banner, "Welcome to the IRC server") {
		t.Fatalf("Unexpected banner: %q", banner)
	}
	return tc
}

func (tc *TestClient) Close() {
	tc.conn.Close()
}

// SendCommand writes one command line.
func (tc *TestClient) SendCommand(format string, args ...interface{}) {
	tc.t.Helper()
	if _, err := fmt.Fprintf(tc.conn, format+"\r\n", args...); err != nil {
		tc.t.Fatalf("Failed to send command: %v", err)
	}
}

// ReadLine reads the next reply line, failing the test after two seconds of
// silence.
func (tc *TestClient) ReadLine() string {
	tc.t.Helper()
	tc.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := tc.text.ReadLine()
	if err != nil {
		tc.t.Fatalf("Failed to read line: %v", err)
	}
	return line
}

// Expect reads lines until one contains want, failing the test if it does
// not show up within a handful of lines.
func (tc *TestClient) Expect(want string) string {
	tc.t.Helper()
	for i := 0; i < 32; i++ {
		line := tc.ReadLine()
		if strings.Contains(line, want) {
			return line
		}
	}
	tc.t.Fatalf("Never received a line containing %q", want)
	return ""
}

// ExpectNumeric waits for a ":server <code> ..." reply.
func (tc *TestClient) ExpectNumeric(code int) string {
	tc.t.Helper()
	return tc.Expect(fmt.Sprintf(" %03d ", code))
}

// AssertNoLine fails if any line arrives within the wait window. Used to
// prove a command was rejected without side effects.
func (tc *TestClient) AssertNoLine(wait time.Duration) {
	tc.t.Helper()
	tc.conn.SetReadDeadline(time.Now().Add(wait))
	line, err := tc.text.ReadLine()
	if err == nil {
		tc.t.Fatalf("Expected silence, got %q", line)
	}
	if ne, ok := err.(net.Error); !ok || !ne.Timeout() {
		tc.t.Fatalf("Expected read timeout, got %v", err)
	}
}

// Register runs the full PASS/NICK/USER sequence and waits for the welcome
// burst to finish.
func (tc *TestClient) Register(nick string) {
	tc.t.Helper()
	tc.SendCommand("PASS %s", testPassword)
	tc.SendCommand("NICK %s", nick)
	tc.SendCommand("USER %s 0 * :%s", nick, nick)
	tc.ExpectNumeric(1)
	tc.ExpectNumeric(4)
}
