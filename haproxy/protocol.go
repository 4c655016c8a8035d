package haproxy

import (
	"fmt"
	"os"
	"sort"
	"time"
)

// Protocol constants.
const (
	// CommandTerminator ends every command written to the socket.
	CommandTerminator = "\n"

	// DefaultSocketPath is the admin socket path used when none is configured.
	DefaultSocketPath = "/var/run/haproxy.sock"

	// DefaultTimeout is the dial and exchange deadline used by the CLI.
	DefaultTimeout = 5 * time.Second

	// CommentPrefix marks listing lines that carry no record.
	CommentPrefix = "#"
)

// Messages HAProxy writes in place of a normal response.
const (
	unknownAclPrefix    = "Unknown ACL identifier"
	addAclMissingPrefix = "'add acl' expects two parameters"
)

// WellKnownSocketPaths lists where distributions commonly place the admin
// socket, in probe order.
var WellKnownSocketPaths = []string{
	DefaultSocketPath,
	"/run/haproxy/admin.sock",
	"/var/lib/haproxy/stats",
	"/run/haproxy.sock",
}

// DiscoverSockets returns the well-known paths that exist and are Unix
// sockets, sorted by modification time (most recent first).
func DiscoverSockets() ([]string, error) {
	return discoverSockets(WellKnownSocketPaths)
}

func discoverSockets(candidates []string) ([]string, error) {
	type socketInfo struct {
		path    string
		modTime time.Time
	}
	sockets := make([]socketInfo, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, path := range candidates {
		if seen[path] {
			continue
		}
		seen[path] = true

		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Mode()&os.ModeSocket == 0 {
			continue
		}
		sockets = append(sockets, socketInfo{path: path, modTime: info.ModTime()})
	}

	sort.SliceStable(sockets, func(i, j int) bool {
		return sockets[i].modTime.After(sockets[j].modTime)
	})

	result := make([]string, len(sockets))
	for i, s := range sockets {
		result[i] = s.path
	}
	return result, nil
}

// DiscoverSocket returns the most recently active admin socket, or
// ErrSocketNotFound when none of the well-known paths is a socket.
func DiscoverSocket() (string, error) {
	sockets, err := DiscoverSockets()
	if err != nil {
		return "", err
	}
	if len(sockets) == 0 {
		return "", ErrSocketNotFound
	}
	return sockets[0], nil
}
