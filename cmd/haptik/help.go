// =============================================================================
// help.go - REPL Help System
// =============================================================================
//
// ".help" prints an overview; ".help <topic>" prints details for one
// command. Topics are looked up case-insensitively with any leading dot
// removed, so ".help .socket" and ".help SOCKET" both work.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
)

func printHelp(w, errw io.Writer, topic string) {
	if topic == "" {
		fmt.Fprint(w, helpOverview)
		return
	}

	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(topic)), ".")

	if text, ok := dotCommandHelp[key]; ok {
		fmt.Fprintln(w, text)
		return
	}
	if text, ok := commandHelp[key]; ok {
		fmt.Fprintln(w, text)
		return
	}

	fmt.Fprintf(errw, "Error: No help for '%s'. Type .help to see available commands.\n", topic)
}

const helpOverview = `REPL Commands:
  .help [topic]       Show help (or help for a specific command)
  .socket [path]      Show or change the admin socket
  .output [format]    Show or change the output format (text, json, yaml)
  .quit               Exit

Admin Socket Commands:
  level               Show the privilege level of this session
  sockets             List configured CLI sockets
  acls                List ACLs
  acl <id>            List the entries of ACL <id>
  add <id> <value>    Add <value> to ACL <id>
  errors [b] [type]   Count captured errors, optionally for backend b

Full admin socket syntax ("show acl #1", "show errors web request") is
accepted too. Each command runs on its own connection.
`

var dotCommandHelp = map[string]string{
	"help": `  .help [topic]
    Without a topic, list all commands. With a topic, describe it.
    Example: .help acl`,

	"socket": `  .socket [path]
    Without a path, show where commands are sent. With a path, send
    later commands to that Unix socket instead.
    Example: .socket /run/haproxy/admin.sock`,

	"output": `  .output [format]
    Without a format, show the current output format. Formats are
    text (aligned columns), json and yaml.
    Example: .output json`,

	"quit": `  .quit
    Leave the REPL. Ctrl-D does the same.`,
}

var commandHelp = map[string]string{
	"level": `  level
    Show the privilege level (admin, operator or user) of a session on
    the current socket. Sends "show cli level".`,

	"sockets": `  sockets
    List the CLI sockets HAProxy is configured with: address, level and
    bound processes. Sends "show cli sockets".`,

	"acls": `  acls
    List ACLs with their id, reference and description. Sends "show acl".`,

	"acl": `  acl <id>
    List the entries of ACL <id>. Each entry has an opaque hexadecimal id
    and a value. Sends "show acl #<id>".
    Example: acl 0`,

	"add": `  add <id> <value>
    Add <value> to ACL <id>. Values cannot contain spaces; anything after
    the first space is dropped. Sends "add acl #<id> <value>".
    Example: add 0 10.0.0.1`,

	"errors": `  errors [backend] [all|request|response]
    Count captured protocol errors. With a backend (numeric id, name, or
    -1 for all backends), count only that backend's errors, optionally
    filtered by direction. Sends "show errors ...".
    Example: errors web request`,
}
