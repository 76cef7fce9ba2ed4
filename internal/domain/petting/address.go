package petting

import "strings"

// NormalizeAddress lower-cases a 0x-prefixed 20-byte hex address. The second
// return is false when the input is not a well-formed address.
func NormalizeAddress(addr string) (string, bool) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if !IsValidAddress(addr) {
		return "", false
	}
	return addr, true
}

func IsValidAddress(addr string) bool {
	addr = strings.ToLower(addr)
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") {
		return false
	}
	for _, c := range addr[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ResolveOwners builds the address set a cycle acts for: the keeper wallet
// first, then registered owners in registration order, normalized and
// deduplicated. Malformed entries are dropped.
func ResolveOwners(wallet string, delegated []string) []string {
	out := make([]string, 0, len(delegated)+1)
	seen := make(map[string]struct{}, len(delegated)+1)
	if w, ok := NormalizeAddress(wallet); ok {
		out = append(out, w)
		seen[w] = struct{}{}
	}
	for _, d := range delegated {
		n, ok := NormalizeAddress(d)
		if !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
