package main

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// diagnoseSocket inspects a failed Unix socket dial and returns a hint for
// the user, or "" when the failure is not about the socket file itself.
//
// Three outcomes:
//   - the path does not exist: HAProxy is not running or "stats socket"
//     points elsewhere
//   - the path exists but is not a socket
//   - permission denied: report the owner and mode so the user can fix
//     their group membership
func diagnoseSocket(err error, path string) string {
	switch {
	case errors.Is(err, syscall.ENOENT):
		return fmt.Sprintf("%s does not exist. Is HAProxy running with a \"stats socket\" at this path?\n"+
			"Run 'haptik discover' to look for sockets in the usual places.", path)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Sprintf("Nothing is listening on %s. The socket file may be left over from a stopped HAProxy.", path)
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return permissionHint(path)
	}

	var st unix.Stat_t
	if statErr := unix.Stat(path, &st); statErr == nil && st.Mode&unix.S_IFMT != unix.S_IFSOCK {
		return fmt.Sprintf("%s exists but is not a Unix socket.", path)
	}
	return ""
}

func permissionHint(path string) string {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return fmt.Sprintf("Permission denied reaching %s; a parent directory is not accessible.", path)
	}

	mode := st.Mode & 0o777
	if err := unix.Access(path, unix.W_OK); err == nil {
		return fmt.Sprintf("Permission denied on %s (owner %d:%d, mode %04o), although it looks writable. "+
			"Check SELinux or AppArmor policy.", path, st.Uid, st.Gid, mode)
	}
	return fmt.Sprintf("Permission denied on %s (owner %d:%d, mode %04o).\n"+
		"Run as a member of group %d, or set \"mode\"/\"group\" on the stats socket line in haproxy.cfg.",
		path, st.Uid, st.Gid, mode, st.Gid)
}
