package cli

import (
	"fmt"

	"atscheck/internal/config"
	"atscheck/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP sidecar",
	Long: `Start a local HTTP server exposing the analyzers to other tools on this
machine. It binds to 127.0.0.1 by default so resume content stays on the
device.

Available endpoints:
- POST /analyze: Full resume analysis
- POST /keywords: Extract job description keywords
- POST /knockouts: Detect knockout requirements and risk
- POST /coverage: Keyword coverage score
- POST /recruiter: Recruiter search score
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

var serveFlags struct {
	port, host, tlsMode, certFile, keyFile, caFile string
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveFlags.host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&serveFlags.tlsMode, "tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.caFile, "ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeOverrides copies flags given on the command line over the loaded
// config.
func applyServeOverrides(cmd *cobra.Command, cfg *config.Config) {
	override := func(flag string, dst *string, value string) {
		if cmd.Flags().Changed(flag) {
			*dst = value
		}
	}
	override("port", &cfg.Server.Port, serveFlags.port)
	override("host", &cfg.Server.Host, serveFlags.host)
	override("tls-mode", &cfg.Server.TLS.Mode, serveFlags.tlsMode)
	override("cert-file", &cfg.Server.TLS.CertFile, serveFlags.certFile)
	override("key-file", &cfg.Server.TLS.KeyFile, serveFlags.keyFile)
	override("ca-file", &cfg.Server.TLS.CAFile, serveFlags.caFile)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServeOverrides(cmd, cfg)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	runner, cleanup, err := newRunner(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
		Runner:         runner,
		Metrics:        runner.Metrics,
	}
	return server.NewServer(serverCfg, logger).Start(cmd.Context())
}
