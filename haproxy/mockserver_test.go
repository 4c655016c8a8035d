package haproxy

import (
	"bufio"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// mockServer mimics an HAProxy admin socket: it reads one command line per
// connection, writes the handler's response and closes the connection.
type mockServer struct {
	listener   net.Listener
	socketPath string
	handler    func(cmd string) string

	mu       sync.Mutex
	commands []string

	wg sync.WaitGroup
}

// startMockServer listens on a temporary Unix socket. It uses
// os.MkdirTemp under /tmp because t.TempDir paths can exceed the Unix
// socket path limit on macOS.
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
	if err != nil && err != io.EOF {
		return
	}
	cmd := strings.TrimSuffix(line, "\n")

	ms.mu.Lock()
	ms.commands = append(ms.commands, line)
	ms.mu.Unlock()

	io.WriteString(conn, ms.handler(cmd))
}

// received returns the raw lines (terminator included) the server read.
func (ms *mockServer) received() []string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]string(nil), ms.commands...)
}

func (ms *mockServer) connector() UnixSocket {
	return UnixSocket{Path: ms.socketPath}
}

func (ms *mockServer) stop() {
	ms.listener.Close()
	ms.wg.Wait()
}
