package tui

import (
	"io"
	"net"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/vovakirdan/tui-cropper/internal/session"
)

// fakeContext carries only the session ID.
type fakeContext struct {
	ssh.Context
	id string
}

func (c fakeContext) SessionID() string { return c.id }

// fakeSession implements the parts of ssh.Session the middleware reads.
type fakeSession struct {
	ssh.Session
	user string
	ctx  fakeContext
}

func (s fakeSession) User() string         { return s.user }
func (s fakeSession) RemoteAddr() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4000} }
func (s fakeSession) Context() ssh.Context { return s.ctx }

func newTestServer(limit int) *SSHServer {
	return &SSHServer{
		sessions: session.NewRegistry(limit),
		logger:   log.New(io.Discard),
	}
}

func TestMiddlewareRegistersSession(t *testing.T) {
	srv := newTestServer(0)
	sess := fakeSession{user: "alice", ctx: fakeContext{id: "s1"}}

	var during int
	var remote string
	srv.loggingMiddleware(func(ssh.Session) {
		during = srv.sessions.Count()
		info, _ := srv.sessions.Get("s1")
		remote = info.Remote
	})(sess)

	if during != 1 {
		t.Errorf("active sessions inside the handler = %d, expected 1", during)
	}
	if remote != "127.0.0.1:4000" {
		t.Errorf("registered remote = %q, expected 127.0.0.1:4000", remote)
	}
	if srv.sessions.Count() != 0 {
		t.Errorf("active sessions after the handler = %d, expected 0", srv.sessions.Count())
	}
}

func TestMiddlewareReleasesSlotOnPanic(t *testing.T) {
	srv := newTestServer(1)
	sess := fakeSession{user: "alice", ctx: fakeContext{id: "s1"}}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("handler panic should propagate")
			}
		}()
		srv.loggingMiddleware(func(ssh.Session) { panic("boom") })(sess)
	}()

	if srv.sessions.Count() != 0 {
		t.Fatalf("a panicking session kept its slot: %d active", srv.sessions.Count())
	}

	// The freed slot admits the next session
	ran := false
	srv.loggingMiddleware(func(ssh.Session) { ran = true })(fakeSession{user: "bob", ctx: fakeContext{id: "s2"}})
	if !ran {
		t.Error("next session was refused after the slot was released")
	}
}
