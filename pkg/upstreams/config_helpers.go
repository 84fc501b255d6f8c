package upstreams

import "strings"

// ConfigString returns the trimmed string value for key from upstream.Config or a fallback.
func ConfigString(u Upstream, key, fallback string) string {
	if u.Config != nil {
		if raw, ok := u.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
)

// Headers builds outbound request headers from an upstream config (skips empty values).
func Headers(u Upstream) map[string]string {
	headers := make(map[string]string, 3)

	if v := ConfigString(u, ConfigUserAgentKey, ""); v != "" {
		headers["User-Agent"] = v
	}
	if v := ConfigString(u, ConfigAcceptKey, ""); v != "" {
		headers["Accept"] = v
	}
	if v := ConfigString(u, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}

	return headers
}
