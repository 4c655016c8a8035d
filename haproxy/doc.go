// Package haproxy is a client for HAProxy's administrative ("stats") socket.
//
// # Protocol Overview
//
// The admin socket speaks a line-oriented ASCII protocol. Each exchange is a
// single request on its own connection:
//
//	Client: show cli level\n
//	Server: admin\n
//	(server closes the stream)
//
// Responses are either a single line (error counts, privilege level, add
// results) or a listing read until the server closes the stream. Listings may
// contain blank lines and lines starting with "#", which are ignored.
//
// # Basic Usage
//
// Open a connection with a Connector and issue one command on it:
//
//	conn, err := haproxy.UnixSocket{Path: haproxy.DefaultSocketPath}.Connect(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	level, err := conn.Level()
//
// A Conn carries exactly one command. The command closes the stream when it
// returns, and any further call returns ErrConnUsed.
//
// # ACL Entries
//
// ACL entry values are decoded by a caller-supplied ValueParser. AclEntries
// is a package function because Go methods cannot take type parameters:
//
//	entries, err := haproxy.AclEntries(conn, 0, haproxy.PrefixValue)
//
// # Errors
//
// Decoding failures are reported as *ParseError and match ErrParseFailure,
// ErrUnknownID or ErrMissingParameters with errors.Is. Transport failures
// are reported as *IOError.
//
// # Parsing Commands
//
// ParseCommand turns command text back into a typed Command:
//
//	cmd, err := haproxy.ParseCommand("show errors web request")
package haproxy
