// =============================================================================
// mockserver_test.go - Mock HAProxy Admin Socket for Testing
// =============================================================================
//
// The mock listens on a Unix socket under /tmp and behaves like HAProxy's
// admin socket: one command per connection, answered by a handler, then
// the connection is closed.
//
// =============================================================================

package main

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type mockServer struct {
	listener   net.Listener
	socketPath string
	handler    func(cmd string) string

	mu       sync.Mutex
	commands []string

	wg sync.WaitGroup
}

// startMockServer creates a mock admin socket. We use os.MkdirTemp under
// /tmp instead of t.TempDir() because macOS limits Unix socket paths to
// 104 bytes. A nil handler uses defaultMockHandler.
func startMockServer(t *testing.T, handler func(cmd string) string) *mockServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("/tmp", "haptik-test-")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	socketPath := filepath.Join(tmpDir, "s.sock")

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("failed to create mock server socket: %v", err)
	}

	if handler == nil {
		handler = defaultMockHandler
	}

	ms := &mockServer{
		listener:   listener,
		socketPath: socketPath,
		handler:    handler,
	}

	ms.wg.Add(1)
	go ms.acceptLoop()

	t.Cleanup(ms.stop)
	return ms
}

func (ms *mockServer) acceptLoop() {
	defer ms.wg.Done()
	for {
		conn, err := ms.listener.Accept()
		if err != nil {
			return
		}
		ms.wg.Add(1)
		go ms.handleConnection(conn)
	}
}

func (ms *mockServer) handleConnection(conn net.Conn) {
	defer ms.wg.Done()
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	cmd := strings.TrimSuffix(line, "\n")

	ms.mu.Lock()
	ms.commands = append(ms.commands, cmd)
	ms.mu.Unlock()

	io.WriteString(conn, ms.handler(cmd))
}

// received returns the commands the server has read, in order.
func (ms *mockServer) received() []string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]string(nil), ms.commands...)
}

func (ms *mockServer) stop() {
	ms.listener.Close()
	ms.wg.Wait()
	os.Remove(ms.socketPath)
}

// defaultMockHandler answers like a small HAProxy configuration with one
// ACL (#0) holding two addresses.
func defaultMockHandler(cmd string) string {
	switch cmd {
	case "show cli level":
		return "admin\n\n"
	case "show cli sockets":
		return "# socket lvl processes\nunix@/var/run/haproxy.sock admin all\nsockpair@3 operator 1,2\n\n"
	case "show acl":
		return "# id (file) description\n0 () acl 'src' file '/etc/haproxy/haproxy.cfg' line 20\n1 (/etc/haproxy/deny.lst) acl 'src' file '/etc/haproxy/haproxy.cfg' line 21\n\n"
	case "show acl #0":
		return "0x55d4a9e27ef0 10.0.0.1\n0x55d4a9e27f30 10.0.0.0/8\n\n"
	case "show acl #9", "add acl #9 10.0.0.3":
		return "Unknown ACL identifier. Please use #<id> or <file>.\n\n"
	case "add acl #0 10.0.0.3":
		return "\n"
	case "show errors":
		return "Total events captured on [16/Oct/2026:10:00:00.000] : 5\n\n"
	case "show errors web request", "show errors -1 request":
		return "Total events captured on [16/Oct/2026:10:00:00.000] : 2\n\n"
	default:
		return "Unknown command. Please enter one of the following commands only :\n\n"
	}
}

// testApp returns an app wired to ms that renders into buffers.
func testApp(t *testing.T, ms *mockServer, format string) (*app, *strings.Builder, *strings.Builder) {
	t.Helper()

	cfg := defaultConfig()
	cfg.Socket = ms.socketPath
	cfg.Output = format

	var stdout, stderr strings.Builder
	a := newApp(cfg, slog.New(slog.DiscardHandler), &printer{w: &stdout, format: format}, &stderr)
	return a, &stdout, &stderr
}
