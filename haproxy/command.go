package haproxy

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CommandType represents the type of admin socket command.
type CommandType int

const (
	// ACL commands
	CmdShowAcl CommandType = iota
	CmdShowAclEntries
	CmdAddAcl

	// CLI introspection
	CmdShowCliLevel
	CmdShowCliSockets

	// Error captures
	CmdShowErrors
	CmdShowErrorsBackend
)

// AclID identifies an ACL by its numeric index. It is rendered as "#<n>".
type AclID int

// String implements fmt.Stringer.
func (id AclID) String() string {
	return "#" + strconv.Itoa(int(id))
}

// BackendKind discriminates the forms of a BackendID.
type BackendKind int

const (
	// BackendAll matches every backend (wire value -1).
	BackendAll BackendKind = iota
	// BackendNumeric matches a backend by numeric id.
	BackendNumeric
	// BackendNamed matches a backend by name.
	BackendNamed
)

// BackendID identifies one backend, or all of them.
// Use AllBackends, BackendByID or BackendByName to construct one.
type BackendID struct {
	Kind BackendKind
	ID   int
	Name string
}

// AllBackends returns the BackendID matching every backend.
func AllBackends() BackendID {
	return BackendID{Kind: BackendAll}
}

// BackendByID returns a BackendID matching the backend with the given id.
func BackendByID(id int) BackendID {
	return BackendID{Kind: BackendNumeric, ID: id}
}

// BackendByName returns a BackendID matching the named backend.
func BackendByName(name string) BackendID {
	return BackendID{Kind: BackendNamed, Name: name}
}

// String implements fmt.Stringer using the wire representation.
func (b BackendID) String() string {
	switch b.Kind {
	case BackendNumeric:
		return strconv.Itoa(b.ID)
	case BackendNamed:
		return b.Name
	default:
		return "-1"
	}
}

// ErrorFlag selects which error captures "show errors" reports.
type ErrorFlag int

const (
	// ErrorFlagAll matches request and response errors.
	ErrorFlagAll ErrorFlag = iota
	// ErrorFlagRequest matches only request errors.
	ErrorFlagRequest
	// ErrorFlagResponse matches only response errors.
	ErrorFlagResponse
)

// suffix returns the text appended to "show errors <backend>".
func (f ErrorFlag) suffix() string {
	switch f {
	case ErrorFlagRequest:
		return " request"
	case ErrorFlagResponse:
		return " response"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (f ErrorFlag) String() string {
	switch f {
	case ErrorFlagRequest:
		return "request"
	case ErrorFlagResponse:
		return "response"
	default:
		return "all"
	}
}

// Command represents one admin socket request with its parameters.
// Use the constructor functions (NewShowAclCommand, NewAddAclCommand, etc.)
// to create Command instances.
type Command struct {
	Type CommandType

	// Fields used by various commands (only relevant fields are populated)
	AclID   AclID     // For showAclEntries, addAcl
	Value   string    // For addAcl
	Backend BackendID // For showErrorsBackend
	Flag    ErrorFlag // For showErrorsBackend
}

// NewShowAclCommand creates a command listing all ACLs.
func NewShowAclCommand() Command {
	return Command{Type: CmdShowAcl}
}

// NewShowAclEntriesCommand creates a command listing the entries of one ACL.
func NewShowAclEntriesCommand(id AclID) Command {
	return Command{Type: CmdShowAclEntries, AclID: id}
}

// NewAddAclCommand creates a command adding value to an ACL.
//
// HAProxy does not accept spaces inside the added value, so value is
// truncated at its first space.
func NewAddAclCommand(id AclID, value string) Command {
	if i := strings.IndexByte(value, ' '); i >= 0 {
		value = value[:i]
	}
	return Command{Type: CmdAddAcl, AclID: id, Value: value}
}

// NewShowCliLevelCommand creates a command querying the session level.
func NewShowCliLevelCommand() Command {
	return Command{Type: CmdShowCliLevel}
}

// NewShowCliSocketsCommand creates a command listing configured CLI sockets.
func NewShowCliSocketsCommand() Command {
	return Command{Type: CmdShowCliSockets}
}

// NewShowErrorsCommand creates a command querying the total error count.
func NewShowErrorsCommand() Command {
	return Command{Type: CmdShowErrors}
}

// NewShowErrorsBackendCommand creates a command querying the error count of
// one backend (or all, see AllBackends) filtered by flag.
func NewShowErrorsBackendCommand(backend BackendID, flag ErrorFlag) Command {
	return Command{Type: CmdShowErrorsBackend, Backend: backend, Flag: flag}
}

// Format returns the command text without the terminating newline.
func (c Command) Format() string {
	switch c.Type {
	case CmdShowAcl:
		return "show acl"
	case CmdShowAclEntries:
		return fmt.Sprintf("show acl %s", c.AclID)
	case CmdAddAcl:
		return fmt.Sprintf("add acl %s %s", c.AclID, c.Value)
	case CmdShowCliLevel:
		return "show cli level"
	case CmdShowCliSockets:
		return "show cli sockets"
	case CmdShowErrors:
		return "show errors"
	case CmdShowErrorsBackend:
		return fmt.Sprintf("show errors %s%s", c.Backend, c.Flag.suffix())
	default:
		return ""
	}
}

// FormatLine returns the command formatted as a complete line with newline.
func (c Command) FormatLine() string {
	return c.Format() + CommandTerminator
}

// WriteTo writes the command text to w without the terminator, so callers
// can batch writes before calling End. It implements io.WriterTo.
func (c Command) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.Format())
	return int64(n), err
}

// End writes the terminator that tells HAProxy the command is complete.
// It must follow every command.
func End(w io.Writer) error {
	_, err := io.WriteString(w, CommandTerminator)
	return err
}
