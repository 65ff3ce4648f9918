package domain

import "strings"

// Hostmask identifies a participant as nick!login@host.
type Hostmask struct {
	Nick  string
	Login string
	Host  string
}

// ParseHostmask splits a message prefix. A prefix without '!' or '@'
// (a server name, or a bare nick) fills only Nick.
func ParseHostmask(prefix string) Hostmask {
	var hm Hostmask
	rest := prefix
	if i := strings.IndexByte(rest, '@'); i >= 0 {
		hm.Host = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '!'); i >= 0 {
		hm.Login = rest[i+1:]
		rest = rest[:i]
	}
	hm.Nick = rest
	return hm
}

// String renders the hostmask back to nick!login@host, omitting empty parts.
func (h Hostmask) String() string {
	var b strings.Builder
	b.WriteString(h.Nick)
	if h.Login != "" {
		b.WriteByte('!')
		b.WriteString(h.Login)
	}
	if h.Host != "" {
		b.WriteByte('@')
		b.WriteString(h.Host)
	}
	return b.String()
}

// IsZero reports whether no part is set.
func (h Hostmask) IsZero() bool {
	return h == Hostmask{}
}
