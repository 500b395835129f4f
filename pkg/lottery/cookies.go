package lottery

import "strings"

// Cookie is one name/value pair exported from the browser session.
type Cookie struct {
	Name  string
	Value string
}

// SessionCookies is an immutable snapshot of the authenticated browser
// session's cookies, captured after the purchase commits. It is only ever
// read, to build one outbound Cookie header.
type SessionCookies []Cookie

// Header renders the snapshot as a Cookie request header value.
func (sc SessionCookies) Header() string {
	pairs := make([]string, 0, len(sc))
	for _, c := range sc {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}
