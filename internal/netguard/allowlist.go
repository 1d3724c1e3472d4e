// Package netguard implements the client-address allow-list: a membership
// test over a fixed set of addresses and CIDR ranges supplied by config.
package netguard

import (
	"fmt"
	"net/netip"
	"strings"
)

// Allowlist answers whether a client address may reach the API at all.
type Allowlist struct {
	prefixes []netip.Prefix
}

// NewAllowlist parses entries as CIDR ranges or single addresses (a bare
// address means a /32 or /128). Returns an error naming the first entry that
// does not parse.
func NewAllowlist(entries []string) (*Allowlist, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("allowlist entry %q: %w", e, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("allowlist entry %q: %w", e, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(a, a.BitLen()))
	}
	return &Allowlist{prefixes: prefixes}, nil
}

// IsAllowed reports whether addr falls within any configured range.
// Unparseable addresses are not allowed.
func (a *Allowlist) IsAllowed(addr string) bool {
	ip, err := netip.ParseAddr(strings.TrimSpace(addr))
	if err != nil {
		return false
	}
	ip = ip.Unmap()
	for _, p := range a.prefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}
