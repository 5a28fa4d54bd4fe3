package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
)

func resolveClientIP(ctx context.Context, r *http.Request) string {
	_ = ctx

	candidates := []string{
		r.Header.Get("Fly-Client-IP"),
		r.Header.Get("X-Forwarded-For"),
		r.Header.Get("X-Real-IP"),
		r.RemoteAddr,
	}

	for _, candidate := range candidates {
		if ip := normalizeIP(candidate); ip != "" {
			return ip
		}
	}

	return ""
}

func normalizeIP(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	// X-Forwarded-For may carry a chain; the first hop is the client.
	if idx := strings.IndexByte(value, ','); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}

	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}

	if ip := net.ParseIP(value); ip != nil {
		return ip.String()
	}

	return ""
}
