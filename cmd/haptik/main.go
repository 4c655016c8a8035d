// =============================================================================
// main.go - haptik Entry Point
// =============================================================================
//
// haptik is a command-line client for HAProxy's admin ("stats") socket. It
// runs one command per invocation, or an interactive REPL when started on a
// terminal without a command.
//
// Usage:
//
//	haptik level                         Show the session privilege level
//	haptik acl show 0 --as prefix        List ACL entries as network prefixes
//	haptik -o json sockets --probe       List CLI sockets and test each one
//	haptik --address 127.0.0.1:9999 repl Use a TCP admin socket interactively
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	version = "0.3.0"
	appName = "haptik"
)

func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

func welcomeBanner(target string) string {
	return fmt.Sprintf(`%s - HAProxy admin socket client
Commands go to %s.

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle(), target)
}

// =============================================================================
// Command-Line Arguments
// =============================================================================

// arguments holds the global flags. Empty or unset values leave the config
// file and environment in charge.
type arguments struct {
	configPath  string
	socket      string
	address     string
	timeout     string
	output      string
	logLevel    string
	showHelp    bool
	showVersion bool

	// changed records which flags were given explicitly.
	changed map[string]bool

	// rest is the subcommand and its arguments.
	rest []string
}

// parseArguments parses global flags up to the first non-flag argument,
// which starts the subcommand.
func parseArguments(argv []string) (arguments, error) {
	var args arguments

	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)

	fs.StringVar(&args.configPath, "config", "", "config file path")
	fs.StringVar(&args.socket, "socket", "", "admin socket path")
	fs.StringVar(&args.address, "address", "", "admin socket TCP address (host:port)")
	fs.StringVar(&args.timeout, "timeout", "", "dial and exchange timeout")
	fs.StringVarP(&args.output, "output", "o", "", "output format: text, json or yaml")
	fs.StringVar(&args.logLevel, "log-level", "", "log level: debug, info, warn, error or off")
	fs.BoolVarP(&args.showHelp, "help", "h", false, "show help")
	fs.BoolVarP(&args.showVersion, "version", "v", false, "show version")

	if err := fs.Parse(argv); err != nil {
		return arguments{}, usagef("%v", err)
	}

	args.changed = make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) { args.changed[f.Name] = true })
	args.rest = fs.Args()
	return args, nil
}

// resolveConfig layers defaults, config file, environment and flags.
func resolveConfig(args arguments) (config, error) {
	path := args.configPath
	if path == "" {
		path = defaultConfigFile()
	}

	cfg, err := loadConfig(path, args.changed["config"])
	if err != nil {
		return config{}, usagef("%v", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return config{}, usagef("%v", err)
	}

	if args.changed["socket"] {
		cfg.Socket = args.socket
	}
	if args.changed["address"] {
		cfg.Address = args.address
	}
	if args.changed["timeout"] {
		if err := cfg.Timeout.UnmarshalText([]byte(args.timeout)); err != nil {
			return config{}, usagef("--timeout: %v", err)
		}
	}
	if args.changed["output"] {
		cfg.Output = args.output
	}
	if args.changed["log-level"] {
		cfg.LogLevel = args.logLevel
	}

	if err := cfg.validate(); err != nil {
		return config{}, usagef("%v", err)
	}
	return cfg, nil
}

// =============================================================================
// Help and Usage
// =============================================================================

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `USAGE: haptik [options] <command> [arguments]

COMMANDS:
  level                          Show the privilege level of this session
  sockets [--probe]              List CLI sockets (--probe: test each one)
  errors [--backend <b>] [--type all|request|response]
                                 Count captured errors
  acl list                       List ACLs
  acl show <id> [--as string|ip|prefix]
                                 List the entries of an ACL
  acl add <id> <value>           Add a value to an ACL
  discover                       Find admin sockets in well-known places
  repl                           Start the interactive REPL (default on a terminal)

OPTIONS:
  --socket <path>     Admin socket path (default %s)
  --address <h:p>     Admin socket TCP address; overrides --socket
  --timeout <dur>     Dial and exchange timeout (default 5s)
  -o, --output <fmt>  Output format: text, json or yaml
  --log-level <lvl>   debug, info, warn, error or off (default warn)
  --config <path>     Config file (default %s)
  -h, --help          Show this help
  -v, --version       Show version

ENVIRONMENT:
  HAPTIK_SOCKET, HAPTIK_ADDRESS, HAPTIK_TIMEOUT, HAPTIK_OUTPUT and
  HAPTIK_LOG_LEVEL override the config file; flags override both.

EXIT STATUS:
  0 success, 1 I/O or internal error, 2 usage error,
  3 HAProxy rejected the command, 4 unparsable response
`, defaultConfig().Socket, defaultConfigFile())
}

// printError reports err on stderr, followed by any hint attached to it.
func (a *app) printError(err error) {
	prefix := "Error:"
	if a.errStyled {
		prefix = errorStyle.Render(prefix)
	}
	fmt.Fprintf(a.stderr, "%s %v\n", prefix, err)

	var hinted *hintedError
	if errors.As(err, &hinted) {
		fmt.Fprintln(a.stderr, hinted.hint)
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// =============================================================================
// Entry Point
// =============================================================================

// run is main without the process exit, so tests can drive it.
func run(ctx context.Context, argv []string, stdin *os.File, stdout, stderr io.Writer) int {
	args, err := parseArguments(argv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr)
		return exitUsage
	}
	if args.showHelp {
		printUsage(stdout)
		return exitOK
	}
	if args.showVersion {
		fmt.Fprintln(stdout, fullTitle())
		return exitOK
	}

	cfg, err := resolveConfig(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	logger := newLogger(cfg.LogLevel, stderr, isTerminal(stderr))
	out := &printer{w: stdout, format: cfg.Output, styled: isTerminal(stdout)}
	a := newApp(cfg, logger, out, stderr)
	a.errStyled = isTerminal(stderr)

	rest := args.rest
	if len(rest) == 0 {
		if !isTerminal(stdin) {
			printUsage(stderr)
			return exitUsage
		}
		rest = []string{"repl"}
	}

	if rest[0] == "repl" {
		if len(rest) > 1 {
			a.printError(usagef("repl takes no arguments"))
			return exitUsage
		}
		editor := NewLineEditor(stdin, stdout)
		defer editor.Close()
		if editor.IsInteractive() {
			fmt.Fprint(stdout, welcomeBanner(cfg.target()))
		}
		runREPL(ctx, a, editor)
		return exitOK
	}

	if err := a.dispatch(ctx, rest); err != nil {
		a.printError(err)
		return exitCode(err)
	}
	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
