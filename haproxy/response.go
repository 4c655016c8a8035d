package haproxy

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Acl is one record of the "show acl" listing.
type Acl struct {
	ID           int
	Reference    string // File or pattern reference, empty when HasReference is false
	HasReference bool
	Description  string
}

// ParseAcl decodes one "show acl" line: "<id> (<reference>) <description>".
// Fields are split on the first two spaces only; the description may itself
// contain spaces. A reference of "()" means the ACL has none.
func ParseAcl(line string) (Acl, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return Acl{}, newParseFailure(line)
	}

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return Acl{}, newParseFailure(line)
	}

	acl := Acl{ID: id, Description: parts[2]}
	ref := parts[1]
	if ref != "()" {
		if len(ref) < 3 {
			return Acl{}, newParseFailure(line)
		}
		acl.Reference = ref[1 : len(ref)-1]
		acl.HasReference = true
	}
	return acl, nil
}

// AclEntry is one entry of an ACL. ID is opaque and only meaningful to the
// HAProxy process that reported it.
type AclEntry[V any] struct {
	ID    uint64
	Value V
}

// ValueParser decodes the textual value of an ACL entry.
type ValueParser[V any] func(string) (V, error)

// ParseAclEntry decodes one "show acl #<n>" line: "0x<hex id> <value>".
// Any error from parse is reported as a parse failure.
func ParseAclEntry[V any](line string, parse ValueParser[V]) (AclEntry[V], error) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) < 2 {
		return AclEntry[V]{}, newParseFailure(line)
	}

	hex, ok := strings.CutPrefix(parts[0], "0x")
	if !ok {
		return AclEntry[V]{}, newParseFailure(line)
	}
	id, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return AclEntry[V]{}, newParseFailure(line)
	}

	value, err := parse(parts[1])
	if err != nil {
		return AclEntry[V]{}, newParseFailure(line)
	}
	return AclEntry[V]{ID: id, Value: value}, nil
}

// Level is the privilege level of an admin socket session.
type Level int

const (
	LevelUser Level = iota
	LevelOperator
	LevelAdmin
)

// String implements fmt.Stringer using the wire representation.
func (l Level) String() string {
	switch l {
	case LevelAdmin:
		return "admin"
	case LevelOperator:
		return "operator"
	default:
		return "user"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	level, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// ParseLevel matches s exactly against the level names. The caller strips
// the line terminator; "admin\n" is not a level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "admin":
		return LevelAdmin, nil
	case "operator":
		return LevelOperator, nil
	case "user":
		return LevelUser, nil
	default:
		return 0, newParseFailure(s)
	}
}

// AddrKind discriminates the forms of a CliSocketAddr.
type AddrKind int

const (
	AddrUnix AddrKind = iota
	AddrIP
	AddrSocketPair
	AddrAbstract
	AddrUnknown
)

// String implements fmt.Stringer using the wire scheme.
func (k AddrKind) String() string {
	switch k {
	case AddrUnix:
		return "unix"
	case AddrIP:
		return "ip"
	case AddrSocketPair:
		return "sockpair"
	case AddrAbstract:
		return "abns"
	default:
		return "unknown"
	}
}

// CliSocketAddr is the listening address of a CLI socket.
type CliSocketAddr struct {
	Kind     AddrKind
	Path     string         // AddrUnix
	AddrPort netip.AddrPort // AddrIP
	Token    string         // AddrSocketPair, AddrAbstract
}

// String renders the address in its wire form.
func (a CliSocketAddr) String() string {
	switch a.Kind {
	case AddrUnix:
		return "unix@" + a.Path
	case AddrIP:
		if a.AddrPort.Addr().Is4() {
			return "ipv4@" + a.AddrPort.String()
		}
		return "ipv6@" + a.AddrPort.String()
	case AddrSocketPair:
		return "sockpair@" + a.Token
	case AddrAbstract:
		return "abns@" + a.Token
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a CliSocketAddr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *CliSocketAddr) UnmarshalText(text []byte) error {
	addr, err := ParseCliSocketAddr(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseCliSocketAddr decodes "<scheme>@<value>" or the bare "unknown".
func ParseCliSocketAddr(s string) (CliSocketAddr, error) {
	scheme, value, found := strings.Cut(s, "@")
	if !found {
		if s == "unknown" {
			return CliSocketAddr{Kind: AddrUnknown}, nil
		}
		return CliSocketAddr{}, newParseFailure(s)
	}

	switch scheme {
	case "unix":
		return CliSocketAddr{Kind: AddrUnix, Path: value}, nil
	case "ipv4":
		ap, err := netip.ParseAddrPort(value)
		if err != nil || !ap.Addr().Is4() {
			return CliSocketAddr{}, newParseFailure(s)
		}
		return CliSocketAddr{Kind: AddrIP, AddrPort: ap}, nil
	case "ipv6":
		ap, err := netip.ParseAddrPort(value)
		if err != nil || !ap.Addr().Is6() {
			return CliSocketAddr{}, newParseFailure(s)
		}
		return CliSocketAddr{Kind: AddrIP, AddrPort: ap}, nil
	case "sockpair":
		return CliSocketAddr{Kind: AddrSocketPair, Token: value}, nil
	case "abns":
		return CliSocketAddr{Kind: AddrAbstract, Token: value}, nil
	default:
		return CliSocketAddr{}, newParseFailure(s)
	}
}

// CliSocketProcesses is the set of processes a CLI socket is bound to.
// When All is set, List is empty.
type CliSocketProcesses struct {
	All  bool
	List []uint32
}

// String renders the process set in its wire form.
func (p CliSocketProcesses) String() string {
	if p.All {
		return "all"
	}
	ids := make([]string, len(p.List))
	for i, id := range p.List {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(ids, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (p CliSocketProcesses) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *CliSocketProcesses) UnmarshalText(text []byte) error {
	procs, err := ParseCliSocketProcesses(string(text))
	if err != nil {
		return err
	}
	*p = procs
	return nil
}

// ParseCliSocketProcesses decodes "all" or a comma-separated list of
// process numbers.
func ParseCliSocketProcesses(s string) (CliSocketProcesses, error) {
	if s == "all" {
		return CliSocketProcesses{All: true}, nil
	}

	tokens := strings.Split(s, ",")
	list := make([]uint32, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return CliSocketProcesses{}, newParseFailure(s)
		}
		list = append(list, uint32(n))
	}
	return CliSocketProcesses{List: list}, nil
}

// CliSocket is one record of the "show cli sockets" listing.
type CliSocket struct {
	Address   CliSocketAddr
	Level     Level
	Processes CliSocketProcesses
}

// ParseCliSocket decodes "<address> <level> <processes>". The line must have
// exactly three space-separated fields.
func ParseCliSocket(line string) (CliSocket, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return CliSocket{}, newParseFailure(line)
	}

	addr, err := ParseCliSocketAddr(parts[0])
	if err != nil {
		return CliSocket{}, err
	}
	level, err := ParseLevel(parts[1])
	if err != nil {
		return CliSocket{}, err
	}
	procs, err := ParseCliSocketProcesses(parts[2])
	if err != nil {
		return CliSocket{}, err
	}
	return CliSocket{Address: addr, Level: level, Processes: procs}, nil
}

// String renders the socket as its listing line.
func (s CliSocket) String() string {
	return fmt.Sprintf("%s %s %s", s.Address, s.Level, s.Processes)
}
