// =============================================================================
// lineeditor.go - Line Editing with History for the REPL
// =============================================================================
//
// When stdin is a terminal, the REPL uses github.com/ergochat/readline for
// cursor movement, tab completion of the REPL vocabulary and persistent
// history ($XDG_STATE_HOME/haptik/history). Otherwise it falls back to a
// bufio.Scanner so piped input and Emacs comint keep working.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

// historySize is the maximum number of entries kept in history.
const historySize = 500

// historyPath returns $XDG_STATE_HOME/haptik/history, falling back to
// ~/.local/state/haptik/history.
func historyPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(homeDir(), ".local", "state")
	}
	return filepath.Join(dir, appName, "history")
}

// newCompleter completes dot-commands, shorthands and the full admin
// socket syntax.
func newCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help",
			readline.PcItem("level"), readline.PcItem("sockets"), readline.PcItem("acls"),
			readline.PcItem("acl"), readline.PcItem("add"), readline.PcItem("errors"),
			readline.PcItem("socket"), readline.PcItem("output"), readline.PcItem("quit"),
		),
		readline.PcItem(".socket"),
		readline.PcItem(".output",
			readline.PcItem(outputText), readline.PcItem(outputJSON), readline.PcItem(outputYAML),
		),
		readline.PcItem(".quit"),
		readline.PcItem("level"),
		readline.PcItem("sockets"),
		readline.PcItem("acls"),
		readline.PcItem("acl"),
		readline.PcItem("add"),
		readline.PcItem("errors",
			readline.PcItem("-1", readline.PcItem("all"), readline.PcItem("request"), readline.PcItem("response")),
		),
		readline.PcItem("show",
			readline.PcItem("acl"),
			readline.PcItem("cli", readline.PcItem("level"), readline.PcItem("sockets")),
			readline.PcItem("errors"),
		),
	)
}

// LineEditor reads REPL input, with line editing when interactive.
type LineEditor struct {
	interactive bool

	// rl is set in interactive mode.
	rl *readline.Instance

	// scanner and out are set in non-interactive mode.
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLineEditor creates an editor reading from in. Readline is used only
// when in is a terminal and we are not running inside Emacs.
func NewLineEditor(in *os.File, out io.Writer) *LineEditor {
	isInteractive := term.IsTerminal(int(in.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newScannerEditor(in, out)
	}

	// Without a history directory, history lives in memory only.
	history := historyPath()
	if err := os.MkdirAll(filepath.Dir(history), 0o700); err != nil {
		history = ""
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            history,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		AutoComplete:           newCompleter(),
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newScannerEditor(in, out)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

func newScannerEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		interactive: false,
		scanner:     bufio.NewScanner(in),
		out:         out,
	}
}

// GetLine displays prompt and reads one line. It returns io.EOF on Ctrl-D,
// Ctrl-C or end of input.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close releases readline resources. It is safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether readline is in use.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
