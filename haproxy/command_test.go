package haproxy

import (
	"bytes"
	"errors"
	"testing"
)

// TestCommandFormatting verifies command text matches the admin socket protocol.
func TestCommandFormatting(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		expected string
	}{
		{"ShowAcl", NewShowAclCommand(), "show acl"},
		{"ShowAclEntries", NewShowAclEntriesCommand(5), "show acl #5"},
		{"ShowAclEntries zero", NewShowAclEntriesCommand(0), "show acl #0"},
		{"ShowCliLevel", NewShowCliLevelCommand(), "show cli level"},
		{"ShowCliSockets", NewShowCliSocketsCommand(), "show cli sockets"},
		{"ShowErrors", NewShowErrorsCommand(), "show errors"},
		{"ShowErrorsBackend all", NewShowErrorsBackendCommand(AllBackends(), ErrorFlagAll), "show errors -1"},
		{"ShowErrorsBackend id request", NewShowErrorsBackendCommand(BackendByID(1), ErrorFlagRequest), "show errors 1 request"},
		{"ShowErrorsBackend name response", NewShowErrorsBackendCommand(BackendByName("web"), ErrorFlagResponse), "show errors web response"},
		{"AddAcl", NewAddAclCommand(1, "10.0.0.1"), "add acl #1 10.0.0.1"},
		{"AddAcl truncated", NewAddAclCommand(2, "hello world"), "add acl #2 hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cmd.Format()
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCommandFormatLine(t *testing.T) {
	got := NewShowCliLevelCommand().FormatLine()
	if got != "show cli level\n" {
		t.Errorf("got %q, want %q", got, "show cli level\n")
	}
}

func TestCommandWriteToAndEnd(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewShowAclEntriesCommand(12).WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len("show acl #12")) {
		t.Errorf("got n=%d, want %d", n, len("show acl #12"))
	}
	if buf.String() != "show acl #12" {
		t.Errorf("got %q before End", buf.String())
	}
	if err := End(&buf); err != nil {
		t.Fatalf("End: %v", err)
	}
	if buf.String() != "show acl #12\n" {
		t.Errorf("got %q, want %q", buf.String(), "show acl #12\n")
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestCommandWriteErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewShowAclCommand().WriteTo(failingWriter{boom}); !errors.Is(err, boom) {
		t.Errorf("WriteTo: got %v, want %v", err, boom)
	}
	if err := End(failingWriter{boom}); !errors.Is(err, boom) {
		t.Errorf("End: got %v, want %v", err, boom)
	}
}

func TestAclIDString(t *testing.T) {
	if got := AclID(42).String(); got != "#42" {
		t.Errorf("got %q, want %q", got, "#42")
	}
}

func TestBackendIDString(t *testing.T) {
	tests := []struct {
		backend  BackendID
		expected string
	}{
		{AllBackends(), "-1"},
		{BackendByID(0), "0"},
		{BackendByID(7), "7"},
		{BackendByName("api"), "api"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.backend.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorFlagSuffix(t *testing.T) {
	tests := []struct {
		flag     ErrorFlag
		expected string
	}{
		{ErrorFlagAll, ""},
		{ErrorFlagRequest, " request"},
		{ErrorFlagResponse, " response"},
	}

	for _, tt := range tests {
		t.Run(tt.flag.String(), func(t *testing.T) {
			if got := tt.flag.suffix(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
