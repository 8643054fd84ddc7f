package middleware

import (
	"net/http"
	"strings"
)

// CSPDirectives is the fixed allow-list for page resources. Values are
// appended to 'self' for each directive.
type CSPDirectives struct {
	Styles  []string
	Scripts []string
	Images  []string
	Fonts   []string
}

// DefaultCSP covers the CDNs the portfolio front-end loads from.
func DefaultCSP() CSPDirectives {
	return CSPDirectives{
		Styles:  []string{"'unsafe-inline'", "https://fonts.googleapis.com", "https://cdnjs.cloudflare.com"},
		Scripts: []string{"https://cdnjs.cloudflare.com"},
		Images:  []string{"data:", "https:"},
		Fonts:   []string{"https://fonts.gstatic.com", "https://cdnjs.cloudflare.com"},
	}
}

// SecurityHeaders sets a content security policy built from the fixed
// allow-list plus the usual hardening headers.
func SecurityHeaders(csp CSPDirectives) func(http.Handler) http.Handler {
	policy := buildPolicy(csp)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", policy)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}

func buildPolicy(csp CSPDirectives) string {
	directive := func(name string, extra []string) string {
		parts := append([]string{name, "'self'"}, extra...)
		return strings.Join(parts, " ")
	}
	return strings.Join([]string{
		"default-src 'self'",
		directive("style-src", csp.Styles),
		directive("script-src", csp.Scripts),
		directive("img-src", csp.Images),
		directive("font-src", csp.Fonts),
	}, "; ")
}
