package haproxy

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// readLine reads one line and strips its terminator. ok is false when the
// stream ended before any byte was read.
func readLine(r *bufio.Reader) (line string, ok bool, err error) {
	line, err = r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, newIOError("read", err)
		}
		if line == "" {
			return "", false, nil
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

// readRecords reads the stream to EOF and returns the lines that carry a
// record, dropping blank lines and "#" comments.
func readRecords(r *bufio.Reader) ([]string, error) {
	var records []string
	for {
		line, ok, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			return records, nil
		}
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}
		records = append(records, line)
	}
}

// DecodeErrors decodes the "show errors" response: one line whose last
// space-separated token is the error count.
func DecodeErrors(r *bufio.Reader) (uint32, error) {
	line, ok, err := readLine(r)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, newParseFailure("")
	}

	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		return 0, newParseFailure(line)
	}
	n, err := strconv.ParseUint(line[i+1:], 10, 32)
	if err != nil {
		return 0, newParseFailure(line)
	}
	return uint32(n), nil
}

// DecodeAclList decodes the "show acl" listing.
func DecodeAclList(r *bufio.Reader) ([]Acl, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	acls := make([]Acl, 0, len(records))
	for _, line := range records {
		acl, err := ParseAcl(line)
		if err != nil {
			return nil, err
		}
		acls = append(acls, acl)
	}
	return acls, nil
}

// DecodeAclEntries decodes the "show acl #<n>" listing, decoding each value
// with parse. It reports ErrUnknownID when HAProxy does not know the ACL.
func DecodeAclEntries[V any](r *bufio.Reader, parse ValueParser[V]) ([]AclEntry[V], error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && strings.HasPrefix(records[0], unknownAclPrefix) {
		return nil, newUnknownIDError(records[0])
	}

	entries := make([]AclEntry[V], 0, len(records))
	for _, line := range records {
		entry, err := ParseAclEntry(line, parse)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DecodeAclAdd decodes the "add acl" response. An empty line is success.
func DecodeAclAdd(r *bufio.Reader) error {
	line, ok, err := readLine(r)
	if err != nil {
		return err
	}
	switch {
	case !ok:
		return newParseFailure("")
	case line == "":
		return nil
	case strings.HasPrefix(line, addAclMissingPrefix):
		return newMissingParametersError(line)
	case strings.HasPrefix(line, unknownAclPrefix):
		return newUnknownIDError(line)
	default:
		return newParseFailure(line)
	}
}

// DecodeCliSockets decodes the "show cli sockets" listing.
func DecodeCliSockets(r *bufio.Reader) ([]CliSocket, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	sockets := make([]CliSocket, 0, len(records))
	for _, line := range records {
		sock, err := ParseCliSocket(line)
		if err != nil {
			return nil, err
		}
		sockets = append(sockets, sock)
	}
	return sockets, nil
}

// DecodeLevel decodes the "show cli level" response.
func DecodeLevel(r *bufio.Reader) (Level, error) {
	line, ok, err := readLine(r)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, newParseFailure("")
	}
	return ParseLevel(line)
}
