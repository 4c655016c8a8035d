package haproxy

import (
	"strconv"
	"strings"
)

// ParseCommand parses admin socket command text into a Command. It accepts
// exactly the forms Command.Format produces, with any run of whitespace
// between words.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Command{}, newParseFailure(line)
	}

	verb := strings.ToLower(fields[0]) + " " + strings.ToLower(fields[1])
	args := fields[2:]

	switch verb {
	case "show acl":
		return parseShowAcl(line, args)
	case "add acl":
		return parseAddAcl(line, args)
	case "show cli":
		return parseShowCli(line, args)
	case "show errors":
		return parseShowErrors(line, args)
	default:
		return Command{}, newParseFailure(line)
	}
}

func parseShowAcl(line string, args []string) (Command, error) {
	switch len(args) {
	case 0:
		return NewShowAclCommand(), nil
	case 1:
		id, ok := parseAclID(args[0])
		if !ok {
			return Command{}, newParseFailure(line)
		}
		return NewShowAclEntriesCommand(id), nil
	default:
		return Command{}, newParseFailure(line)
	}
}

func parseAddAcl(line string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, newMissingParametersError(line)
	}
	id, ok := parseAclID(args[0])
	if !ok {
		return Command{}, newParseFailure(line)
	}
	return NewAddAclCommand(id, args[1]), nil
}

func parseShowCli(line string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, newParseFailure(line)
	}
	switch strings.ToLower(args[0]) {
	case "level":
		return NewShowCliLevelCommand(), nil
	case "sockets":
		return NewShowCliSocketsCommand(), nil
	default:
		return Command{}, newParseFailure(line)
	}
}

func parseShowErrors(line string, args []string) (Command, error) {
	switch len(args) {
	case 0:
		return NewShowErrorsCommand(), nil
	case 1, 2:
		flag := ErrorFlagAll
		if len(args) == 2 {
			f, ok := ParseErrorFlag(args[1])
			if !ok {
				return Command{}, newParseFailure(line)
			}
			flag = f
		}
		return NewShowErrorsBackendCommand(ParseBackendID(args[0]), flag), nil
	default:
		return Command{}, newParseFailure(line)
	}
}

// parseAclID accepts "#<n>" and, for convenience, a bare "<n>".
func parseAclID(s string) (AclID, bool) {
	s = strings.TrimPrefix(s, "#")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return AclID(n), true
}

// ParseAclID parses "#<n>" or "<n>" into an AclID.
func ParseAclID(s string) (AclID, error) {
	id, ok := parseAclID(s)
	if !ok {
		return 0, newParseFailure(s)
	}
	return id, nil
}

// ParseBackendID interprets s as the wire form of a BackendID: "-1" is all
// backends, an integer is a numeric id, anything else is a name.
func ParseBackendID(s string) BackendID {
	if s == "-1" {
		return AllBackends()
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return BackendByID(n)
	}
	return BackendByName(s)
}

// ParseErrorFlag parses "all", "request" or "response".
func ParseErrorFlag(s string) (ErrorFlag, bool) {
	switch strings.ToLower(s) {
	case "all", "":
		return ErrorFlagAll, true
	case "request":
		return ErrorFlagRequest, true
	case "response":
		return ErrorFlagResponse, true
	default:
		return 0, false
	}
}
