package haproxy

import (
	"encoding"
	"net/netip"
	"strings"
)

// StringValue keeps the ACL entry value as raw text.
func StringValue(s string) (string, error) {
	return s, nil
}

// IPValue decodes an ACL entry value as a single IP address.
func IPValue(s string) (netip.Addr, error) {
	return netip.ParseAddr(s)
}

// PrefixValue decodes an ACL entry value as a network prefix. A bare
// address is accepted as a full-length prefix (/32 or /128).
func PrefixValue(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		return netip.ParsePrefix(s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// TextValue returns a ValueParser for any type whose pointer implements
// encoding.TextUnmarshaler.
func TextValue[V any, PV interface {
	*V
	encoding.TextUnmarshaler
}]() ValueParser[V] {
	return func(s string) (V, error) {
		var v V
		if err := PV(&v).UnmarshalText([]byte(s)); err != nil {
			return v, err
		}
		return v, nil
	}
}
