package server

import (
	"fmt"
	"os"
)

// displayServerInfo prints the endpoint list and security posture to
// stderr so stdout stays clean for piping.
func (s *Server) displayServerInfo() {
	out := os.Stderr
	scheme := "http"
	if s.TLSConfig.Mode == "server" || s.TLSConfig.Mode == "mutual" {
		scheme = "https"
	}

	fmt.Fprintf(out, "atscheck sidecar listening on %s://%s:%s\n", scheme, s.Host, s.Port)
	fmt.Fprintln(out, "Available endpoints:")
	fmt.Fprintln(out, "  GET  /health     - Health check")
	fmt.Fprintln(out, "  GET  /stats      - Server statistics")
	fmt.Fprintln(out, "  POST /analyze    - Full resume analysis")
	fmt.Fprintln(out, "  POST /keywords   - Extract job description keywords")
	fmt.Fprintln(out, "  POST /knockouts  - Detect knockout requirements")
	fmt.Fprintln(out, "  POST /coverage   - Keyword coverage score")
	fmt.Fprintln(out, "  POST /recruiter  - Recruiter search score")

	if len(s.APIKeys) > 0 {
		fmt.Fprintf(out, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
	} else {
		fmt.Fprintln(out, "API authentication: DISABLED (no API keys configured)")
		if s.Host != "127.0.0.1" && s.Host != "localhost" && s.Host != "::1" {
			fmt.Fprintln(out, "WARNING: the sidecar is bound to a non-loopback address without authentication!")
		}
	}

	if s.MaxRequestSize > 0 {
		fmt.Fprintf(out, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(out, "Request size limit: DISABLED")
	}

	if s.RateLimiter != nil {
		fmt.Fprintf(out, "Rate limiting: ENABLED (%d requests per %s, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.Window, s.RateLimit.BurstCapacity)
	} else {
		fmt.Fprintln(out, "Rate limiting: DISABLED")
	}
}
