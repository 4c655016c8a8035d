// =============================================================================
// commands.go - Subcommands
// =============================================================================
//
// Each subcommand opens a fresh connection (the admin socket answers one
// command per connection), runs one operation and renders the result.
//
//	haptik level
//	haptik sockets [--probe]
//	haptik errors [--backend <id|name>] [--type all|request|response]
//	haptik acl list
//	haptik acl show <id> [--as string|ip|prefix]
//	haptik acl add <id> <value>
//	haptik discover
//	haptik repl
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/austinhartzheim/haptik/haproxy"
)

// Exit codes.
const (
	exitOK       = 0
	exitInternal = 1 // I/O or unexpected failure
	exitUsage    = 2 // Bad flags, arguments or configuration
	exitRemote   = 3 // HAProxy rejected the command
	exitParse    = 4 // HAProxy answered with text we could not decode
)

// usageError marks errors caused by how haptik was invoked.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, haproxy.ErrUnknownID), errors.Is(err, haproxy.ErrMissingParameters):
		return exitRemote
	case errors.Is(err, haproxy.ErrParseFailure):
		return exitParse
	default:
		return exitInternal
	}
}

// app carries what every subcommand needs.
type app struct {
	cfg    config
	logger *slog.Logger
	out    *printer
	stderr io.Writer

	// errStyled colors the "Error:" prefix (stderr is a terminal).
	errStyled bool

	// connector opens connections; tests replace it.
	connector haproxy.Connector

	// discover lists candidate sockets; tests replace it.
	discover func() ([]string, error)
}

func newApp(cfg config, logger *slog.Logger, out *printer, stderr io.Writer) *app {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		stderr:   stderr,
		discover: haproxy.DiscoverSockets,
	}
	a.connector = a.connectorFor(cfg)
	return a
}

// connectorFor returns the connector described by cfg. An address selects
// TCP and takes precedence over the socket path.
func (a *app) connectorFor(cfg config) haproxy.Connector {
	if cfg.Address != "" {
		return haproxy.TCPSocket{Addr: cfg.Address, Timeout: cfg.Timeout.Duration, Logger: a.logger}
	}
	return haproxy.UnixSocket{Path: cfg.Socket, Timeout: cfg.Timeout.Duration, Logger: a.logger}
}

// connect opens a connection and attaches a diagnosis to Unix dial failures.
func (a *app) connect(ctx context.Context) (*haproxy.Conn, error) {
	conn, err := a.connector.Connect(ctx)
	if err == nil {
		return conn, nil
	}
	if u, ok := a.connector.(haproxy.UnixSocket); ok {
		path := u.Path
		if path == "" {
			path = haproxy.DefaultSocketPath
		}
		if hint := diagnoseSocket(err, path); hint != "" {
			return nil, &hintedError{err: err, hint: hint}
		}
	}
	return nil, err
}

// hintedError pairs an error with advice for the user.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() }
func (e *hintedError) Unwrap() error { return e.err }

// dispatch runs the subcommand named by args[0].
func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usagef("no command given")
	}

	switch args[0] {
	case "level":
		return a.cmdLevel(ctx, args[1:])
	case "sockets":
		return a.cmdSockets(ctx, args[1:])
	case "errors":
		return a.cmdErrors(ctx, args[1:])
	case "acl":
		return a.cmdAcl(ctx, args[1:])
	case "discover":
		return a.cmdDiscover(args[1:])
	default:
		return usagef("unknown command %q", args[0])
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

func (a *app) cmdLevel(ctx context.Context, args []string) error {
	fs := newFlagSet("level")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return usagef("level takes no arguments")
	}

	conn, err := a.connect(ctx)
	if err != nil {
		return err
	}
	level, err := conn.Level()
	if err != nil {
		return err
	}
	return a.out.level(level)
}

func (a *app) cmdSockets(ctx context.Context, args []string) error {
	fs := newFlagSet("sockets")
	probe := fs.Bool("probe", false, "try to connect to each listed unix socket")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return usagef("sockets takes no arguments")
	}

	conn, err := a.connect(ctx)
	if err != nil {
		return err
	}
	sockets, err := conn.CliSockets()
	if err != nil {
		return err
	}

	views := make([]socketView, 0, len(sockets))
	for _, s := range sockets {
		v := newSocketView(s)
		if *probe {
			reachable := a.probe(ctx, s.Address)
			v.Reachable = &reachable
		}
		views = append(views, v)
	}
	return a.out.sockets(views)
}

// probe reports whether a listed socket answers "show cli level". Only
// unix and IP sockets can be reached from here.
func (a *app) probe(ctx context.Context, addr haproxy.CliSocketAddr) bool {
	var c haproxy.Connector
	timeout := a.cfg.Timeout.Duration
	switch addr.Kind {
	case haproxy.AddrUnix:
		c = haproxy.UnixSocket{Path: addr.Path, Timeout: timeout, Logger: a.logger}
	case haproxy.AddrIP:
		c = haproxy.TCPSocket{Addr: addr.AddrPort.String(), Timeout: timeout, Logger: a.logger}
	default:
		return false
	}

	conn, err := c.Connect(ctx)
	if err != nil {
		a.logger.Debug("probe failed", "address", addr.String(), "error", err)
		return false
	}
	level, err := conn.Level()
	if err != nil {
		a.logger.Debug("probe failed", "address", addr.String(), "error", err)
		return false
	}
	a.logger.Debug("probe succeeded", "address", addr.String(), "level", level.String())
	return true
}

func (a *app) cmdErrors(ctx context.Context, args []string) error {
	fs := newFlagSet("errors")
	backend := fs.String("backend", "", "backend id or name (-1 for all)")
	kind := fs.String("type", "all", "error type: all, request or response")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return usagef("errors takes no arguments")
	}

	flag, ok := haproxy.ParseErrorFlag(*kind)
	if !ok {
		return usagef("unknown error type %q (want all, request or response)", *kind)
	}
	if flag != haproxy.ErrorFlagAll && *backend == "" {
		*backend = "-1"
	}

	conn, err := a.connect(ctx)
	if err != nil {
		return err
	}

	view := errorsView{Backend: "*", Type: flag.String()}
	if *backend == "" {
		view.Count, err = conn.Errors()
	} else {
		id := haproxy.ParseBackendID(*backend)
		view.Backend = id.String()
		view.Count, err = conn.ErrorsBackend(id, flag)
	}
	if err != nil {
		return err
	}
	return a.out.errorCount(view)
}

func (a *app) cmdAcl(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usagef("acl requires a subcommand: list, show or add")
	}

	switch args[0] {
	case "list":
		return a.cmdAclList(ctx, args[1:])
	case "show":
		return a.cmdAclShow(ctx, args[1:])
	case "add":
		return a.cmdAclAdd(ctx, args[1:])
	default:
		return usagef("unknown acl subcommand %q", args[0])
	}
}

func (a *app) cmdAclList(ctx context.Context, args []string) error {
	fs := newFlagSet("acl list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return usagef("acl list takes no arguments")
	}

	conn, err := a.connect(ctx)
	if err != nil {
		return err
	}
	acls, err := conn.AclList()
	if err != nil {
		return err
	}

	views := make([]aclView, 0, len(acls))
	for _, acl := range acls {
		views = append(views, newAclView(acl))
	}
	return a.out.acls(views)
}

func (a *app) cmdAclShow(ctx context.Context, args []string) error {
	fs := newFlagSet("acl show")
	as := fs.String("as", "string", "decode values as string, ip or prefix")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("acl show requires exactly one ACL id")
	}
	id, err := haproxy.ParseAclID(fs.Arg(0))
	if err != nil {
		return usagef("invalid ACL id %q", fs.Arg(0))
	}
	switch *as {
	case "string", "ip", "prefix":
	default:
		return usagef("unknown value type %q (want string, ip or prefix)", *as)
	}

	conn, err := a.connect(ctx)
	if err != nil {
		return err
	}

	var views []entryView
	switch *as {
	case "ip":
		views, err = entryViews(conn, id, haproxy.IPValue)
	case "prefix":
		views, err = entryViews(conn, id, haproxy.PrefixValue)
	default:
		views, err = entryViews(conn, id, haproxy.StringValue)
	}
	if err != nil {
		return err
	}
	return a.out.entries(views)
}

func entryViews[V any](conn *haproxy.Conn, id haproxy.AclID, parse haproxy.ValueParser[V]) ([]entryView, error) {
	entries, err := haproxy.AclEntries(conn, id, parse)
	if err != nil {
		return nil, err
	}
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newEntryView(e))
	}
	return views, nil
}

func (a *app) cmdAclAdd(ctx context.Context, args []string) error {
	fs := newFlagSet("acl add")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usagef("acl add requires an ACL id and a value")
	}
	id, err := haproxy.ParseAclID(fs.Arg(0))
	if err != nil {
		return usagef("invalid ACL id %q", fs.Arg(0))
	}

	// The command carries the value as sent, cut at the first space.
	return a.execute(ctx, haproxy.NewAddAclCommand(id, fs.Arg(1)))
}

func (a *app) cmdDiscover(args []string) error {
	if len(args) != 0 {
		return usagef("discover takes no arguments")
	}
	paths, err := a.discover()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return haproxy.ErrSocketNotFound
	}
	return a.out.paths(paths)
}

// execute runs an already-parsed protocol command. The REPL uses it.
func (a *app) execute(ctx context.Context, cmd haproxy.Command) error {
	conn, err := a.connect(ctx)
	if err != nil {
		return err
	}

	switch cmd.Type {
	case haproxy.CmdShowAcl:
		acls, err := conn.AclList()
		if err != nil {
			return err
		}
		views := make([]aclView, 0, len(acls))
		for _, acl := range acls {
			views = append(views, newAclView(acl))
		}
		return a.out.acls(views)
	case haproxy.CmdShowAclEntries:
		views, err := entryViews(conn, cmd.AclID, haproxy.StringValue)
		if err != nil {
			return err
		}
		return a.out.entries(views)
	case haproxy.CmdAddAcl:
		if err := conn.AclAdd(cmd.AclID, cmd.Value); err != nil {
			return err
		}
		return a.out.added(addView{Acl: cmd.AclID.String(), Value: cmd.Value, Added: true})
	case haproxy.CmdShowCliLevel:
		level, err := conn.Level()
		if err != nil {
			return err
		}
		return a.out.level(level)
	case haproxy.CmdShowCliSockets:
		sockets, err := conn.CliSockets()
		if err != nil {
			return err
		}
		views := make([]socketView, 0, len(sockets))
		for _, s := range sockets {
			views = append(views, newSocketView(s))
		}
		return a.out.sockets(views)
	case haproxy.CmdShowErrors:
		n, err := conn.Errors()
		if err != nil {
			return err
		}
		return a.out.errorCount(errorsView{Backend: "*", Type: haproxy.ErrorFlagAll.String(), Count: n})
	case haproxy.CmdShowErrorsBackend:
		n, err := conn.ErrorsBackend(cmd.Backend, cmd.Flag)
		if err != nil {
			return err
		}
		return a.out.errorCount(errorsView{Backend: cmd.Backend.String(), Type: cmd.Flag.String(), Count: n})
	default:
		conn.Close()
		return fmt.Errorf("unsupported command type %d", cmd.Type)
	}
}

