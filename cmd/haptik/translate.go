// =============================================================================
// translate.go - REPL Shorthand to Admin Socket Commands
// =============================================================================
//
// The REPL accepts full admin socket commands ("show acl #1") as well as
// short forms. translateToProtocol rewrites the short forms; anything it
// does not recognize is passed through unchanged for ParseCommand to judge.
//
//	level                     -> show cli level
//	sockets                   -> show cli sockets
//	acls                      -> show acl
//	acl <id>                  -> show acl #<id>
//	errors                    -> show errors
//	errors <backend> [type]   -> show errors <backend> [type]
//	add <id> <value>          -> add acl #<id> <value>
//
// =============================================================================

package main

import (
	"strings"
)

func translateToProtocol(line string) string {
	trimmed := strings.TrimSpace(line)
	parts := strings.Fields(trimmed)
	if len(parts) == 0 {
		return ""
	}

	keyword := strings.ToLower(parts[0])
	args := parts[1:]

	switch keyword {
	case "level", "lvl":
		if len(args) == 0 {
			return "show cli level"
		}
	case "sockets":
		if len(args) == 0 {
			return "show cli sockets"
		}
	case "acls":
		if len(args) == 0 {
			return "show acl"
		}
	case "acl":
		if len(args) == 1 {
			return "show acl " + aclRef(args[0])
		}
	case "errors", "err":
		return strings.TrimSpace("show errors " + strings.Join(args, " "))
	case "add":
		if len(args) >= 2 {
			return "add acl " + aclRef(args[0]) + " " + strings.Join(args[1:], " ")
		}
		if len(args) == 1 {
			return "add acl " + aclRef(args[0])
		}
		return "add acl"
	}

	return trimmed
}

// aclRef renders an ACL id the way the admin socket expects ("#<n>").
func aclRef(id string) string {
	if strings.HasPrefix(id, "#") {
		return id
	}
	return "#" + id
}
