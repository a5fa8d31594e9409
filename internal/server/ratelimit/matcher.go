package ratelimit

import (
	"net/http"
	"strings"
)

// exempt routes get an EndpointConfig with no limit
var exempt = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint returns the budget for a request, or nil to use the default.
// An exact path wins over a prefix entry.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && exempt[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var prefix *EndpointConfig
	for i := range configs {
		ec := &configs[i]
		if ec.Method != method {
			continue
		}
		if ec.Path == path {
			return ec
		}
		if prefix == nil && strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) {
			prefix = ec
		}
	}
	return prefix
}
