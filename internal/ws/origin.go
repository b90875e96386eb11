package ws

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

var loopbackHosts = map[string]bool{"localhost": true, "127.0.0.1": true, "::1": true}

// originRule is one parsed AllowedOrigins entry.
type originRule struct {
	any      bool
	scheme   string
	host     string
	wildcard bool
}

// originPolicy decides which browser origins may open a websocket. Requests
// without an Origin header (non-browser clients) and same-host requests are
// always allowed. Loopback names are treated as one host.
type originPolicy struct {
	rules []originRule
}

func newOriginPolicy(allowed []string) originPolicy {
	var p originPolicy
	for _, entry := range allowed {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if entry == "*" {
			p.rules = append(p.rules, originRule{any: true})
			continue
		}
		u, err := url.Parse(entry)
		if err != nil {
			continue
		}
		host := hostOnly(u.Host)
		if host == "" {
			continue
		}
		rule := originRule{scheme: u.Scheme, host: host}
		if suffix, ok := strings.CutPrefix(host, "*."); ok {
			rule.host, rule.wildcard = suffix, true
		}
		p.rules = append(p.rules, rule)
	}
	return p
}

func (p originPolicy) allows(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := hostOnly(u.Host)
	if host == "" {
		return false
	}

	reqHost := hostOnly(r.Host)
	if host == reqHost || (loopbackHosts[host] && loopbackHosts[reqHost]) {
		return true
	}

	for _, rule := range p.rules {
		if rule.matches(u.Scheme, host) {
			return true
		}
	}
	return false
}

func (r originRule) matches(scheme, host string) bool {
	switch {
	case r.any:
		return true
	case r.scheme != "" && r.scheme != scheme:
		return false
	case r.wildcard:
		return strings.HasSuffix(host, "."+r.host)
	default:
		return host == r.host
	}
}

// hostOnly lowercases host and strips any port and IPv6 brackets.
func hostOnly(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.Trim(host, "[]")
}
