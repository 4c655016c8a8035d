// =============================================================================
// repl.go - Interactive Read-Eval-Print Loop
// =============================================================================
//
// The REPL reads a line, handles dot-commands locally, translates shorthand
// into admin socket syntax, parses it into a haproxy.Command and runs it on
// a fresh connection. Errors are printed and the loop continues.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/austinhartzheim/haptik/haproxy"
)

// prompt shows where commands will be sent.
func (a *app) prompt() string {
	return fmt.Sprintf("[%s] > ", a.cfg.target())
}

// runREPL reads commands until .quit or end of input.
func runREPL(ctx context.Context, a *app, editor *LineEditor) {
	for {
		line, err := editor.GetLine(a.prompt())
		if err != nil {
			if err != io.EOF {
				a.printError(err)
			}
			fmt.Fprintln(a.out.w)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := a.dotCommand(line); quit {
				return
			}
			continue
		}

		cmd, err := haproxy.ParseCommand(translateToProtocol(line))
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: unrecognized command %q. Type .help for a list.\n", line)
			continue
		}
		a.logger.Debug("repl command", "input", line, "command", cmd.Format())

		if err := a.execute(ctx, cmd); err != nil {
			a.printError(err)
		}
	}
}

// dotCommand handles REPL-local commands. It reports whether to exit.
func (a *app) dotCommand(line string) bool {
	parts := strings.Fields(line)
	keyword := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = strings.Join(parts[1:], " ")
	}

	switch keyword {
	case ".quit", ".exit":
		return true
	case ".help":
		printHelp(a.out.w, a.stderr, arg)
	case ".socket":
		if arg == "" {
			fmt.Fprintln(a.out.w, a.cfg.target())
			break
		}
		a.cfg.Socket = arg
		a.cfg.Address = ""
		a.connector = a.connectorFor(a.cfg)
		fmt.Fprintf(a.out.w, "Using %s\n", arg)
	case ".output":
		switch arg {
		case "":
			fmt.Fprintln(a.out.w, a.out.format)
		case outputText, outputJSON, outputYAML:
			a.cfg.Output = arg
			a.out.format = arg
		default:
			fmt.Fprintf(a.stderr, "Error: unknown output format %q (want text, json or yaml)\n", arg)
		}
	default:
		fmt.Fprintf(a.stderr, "Error: unknown command %s. Type .help for a list.\n", keyword)
	}
	return false
}
