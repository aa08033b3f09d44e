package cli

import (
	"atscheck/internal/mcpserver"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analyzers as MCP tools over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so an MCP client can
call the analyzers. Tools: analyze_resume, extract_keywords, detect_knockouts
and score_recruiter_search. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	runner, cleanup, err := newRunner(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return mcpserver.New(runner, Version, logger).Run(cmd.Context())
}
