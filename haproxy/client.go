package haproxy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"time"
)

// Connector opens a connection to an admin socket.
type Connector interface {
	Connect(ctx context.Context) (*Conn, error)
}

// UnixSocket connects to an admin socket over a Unix domain socket.
type UnixSocket struct {
	// Path of the socket. Empty means DefaultSocketPath.
	Path string

	// Timeout bounds the dial and the whole exchange. Zero means no deadline.
	Timeout time.Duration

	Logger *slog.Logger
}

// Connect implements Connector.
func (u UnixSocket) Connect(ctx context.Context) (*Conn, error) {
	path := u.Path
	if path == "" {
		path = DefaultSocketPath
	}
	return dial(ctx, "unix", path, u.Timeout, u.Logger)
}

// TCPSocket connects to an admin socket exposed on a TCP address.
type TCPSocket struct {
	// Addr is the host:port of the socket.
	Addr string

	// Timeout bounds the dial and the whole exchange. Zero means no deadline.
	Timeout time.Duration

	Logger *slog.Logger
}

// Connect implements Connector.
func (t TCPSocket) Connect(ctx context.Context) (*Conn, error) {
	return dial(ctx, "tcp", t.Addr, t.Timeout, t.Logger)
}

func dial(ctx context.Context, network, address string, timeout time.Duration, logger *slog.Logger) (*Conn, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var d net.Dialer
	nc, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, newIOError("dial "+network+" "+address, err)
	}
	if timeout > 0 {
		if err := nc.SetDeadline(time.Now().Add(timeout)); err != nil {
			nc.Close()
			return nil, newIOError("set deadline", err)
		}
	}

	c := NewConn(nc, logger)
	c.logger.Debug("connected", "network", network, "address", address)
	return c, nil
}

// Conn is a single-use connection to an admin socket. HAProxy closes the
// stream after answering, so a Conn carries exactly one command: the first
// command closes it and later calls return ErrConnUsed.
type Conn struct {
	rw     io.ReadWriteCloser
	reader *bufio.Reader
	used   atomic.Bool
	logger *slog.Logger
}

// NewConn wraps an established stream. A nil logger discards output.
func NewConn(rw io.ReadWriteCloser, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Conn{
		rw:     rw,
		reader: bufio.NewReader(rw),
		logger: logger,
	}
}

// Close releases the stream without sending a command. It is safe to call
// after a command has run.
func (c *Conn) Close() error {
	if c.used.Swap(true) {
		return nil
	}
	return c.rw.Close()
}

// send claims the connection and writes cmd followed by the terminator.
// On success the caller must call finish once decoding is done.
func (c *Conn) send(cmd Command) error {
	if c.used.Swap(true) {
		return ErrConnUsed
	}

	text := cmd.Format()
	c.logger.Debug("sending command", "command", text)

	bw := bufio.NewWriter(c.rw)
	if _, err := cmd.WriteTo(bw); err != nil {
		c.rw.Close()
		return newIOError("write command", err)
	}
	if err := End(bw); err != nil {
		c.rw.Close()
		return newIOError("write command", err)
	}
	if err := bw.Flush(); err != nil {
		c.rw.Close()
		return newIOError("write command", err)
	}
	return nil
}

func (c *Conn) finish(cmd Command, err error) {
	if closeErr := c.rw.Close(); closeErr != nil && !IsExpectedClose(closeErr) {
		c.logger.Debug("close failed", "error", closeErr)
	}
	if err != nil {
		c.logger.Debug("command failed", "command", cmd.Format(), "error", err)
		return
	}
	c.logger.Debug("command complete", "command", cmd.Format())
}

// AclList lists the ACLs known to HAProxy.
func (c *Conn) AclList() ([]Acl, error) {
	cmd := NewShowAclCommand()
	if err := c.send(cmd); err != nil {
		return nil, err
	}
	acls, err := DecodeAclList(c.reader)
	c.finish(cmd, err)
	return acls, err
}

// AclEntries lists the entries of ACL id on conn, decoding each value with
// parse. Methods cannot have type parameters, so this is a function.
func AclEntries[V any](conn *Conn, id AclID, parse ValueParser[V]) ([]AclEntry[V], error) {
	cmd := NewShowAclEntriesCommand(id)
	if err := conn.send(cmd); err != nil {
		return nil, err
	}
	entries, err := DecodeAclEntries(conn.reader, parse)
	conn.finish(cmd, err)
	return entries, err
}

// AclAdd adds value to ACL id. The value is formatted with fmt.Sprint and
// truncated at its first space.
func (c *Conn) AclAdd(id AclID, value any) error {
	cmd := NewAddAclCommand(id, fmt.Sprint(value))
	if err := c.send(cmd); err != nil {
		return err
	}
	err := DecodeAclAdd(c.reader)
	c.finish(cmd, err)
	return err
}

// Level returns the privilege level of this session.
func (c *Conn) Level() (Level, error) {
	cmd := NewShowCliLevelCommand()
	if err := c.send(cmd); err != nil {
		return 0, err
	}
	level, err := DecodeLevel(c.reader)
	c.finish(cmd, err)
	return level, err
}

// CliSockets lists the configured CLI sockets.
func (c *Conn) CliSockets() ([]CliSocket, error) {
	cmd := NewShowCliSocketsCommand()
	if err := c.send(cmd); err != nil {
		return nil, err
	}
	sockets, err := DecodeCliSockets(c.reader)
	c.finish(cmd, err)
	return sockets, err
}

// Errors returns the total number of captured errors.
func (c *Conn) Errors() (uint32, error) {
	return c.errors(NewShowErrorsCommand())
}

// ErrorsBackend returns the number of captured errors for backend, filtered
// by flag.
func (c *Conn) ErrorsBackend(backend BackendID, flag ErrorFlag) (uint32, error) {
	return c.errors(NewShowErrorsBackendCommand(backend, flag))
}

func (c *Conn) errors(cmd Command) (uint32, error) {
	if err := c.send(cmd); err != nil {
		return 0, err
	}
	n, err := DecodeErrors(c.reader)
	c.finish(cmd, err)
	return n, err
}
