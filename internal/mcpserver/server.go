// Package mcpserver exposes the analyzers as read-only MCP tools over stdio.
package mcpserver

import (
	"context"
	"time"

	"atscheck/internal/common"
	"atscheck/internal/coverage"
	"atscheck/internal/errors"
	"atscheck/internal/keywords"
	"atscheck/internal/pipeline"
	"atscheck/internal/recruiter"
	"atscheck/internal/types"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AnalyzeResumeInput is the analyze_resume argument object.
type AnalyzeResumeInput struct {
	ResumeText     string          `json:"resumeText" jsonschema:"Plain text of the resume"`
	FileType       string          `json:"fileType,omitempty" jsonschema:"Source file type: txt, md, pdf or docx. Defaults to txt"`
	JobDescription string          `json:"jobDescription,omitempty" jsonschema:"Job description text. Keyword, knockout and recruiter checks need it"`
	Confirmations  map[string]bool `json:"confirmations,omitempty" jsonschema:"Answers to knockout questions keyed by knockout id"`
	Semantic       bool            `json:"semantic,omitempty" jsonschema:"Consent to send resume and job text to the configured semantic provider"`
}

// JobInput is the extract_keywords argument object.
type JobInput struct {
	JobDescription string `json:"jobDescription" jsonschema:"Job description text"`
}

// MatchInput pairs resume and job text.
type MatchInput struct {
	ResumeText     string          `json:"resumeText" jsonschema:"Plain text of the resume"`
	JobDescription string          `json:"jobDescription" jsonschema:"Job description text"`
	Confirmations  map[string]bool `json:"confirmations,omitempty" jsonschema:"Answers to knockout questions keyed by knockout id"`
}

// Server wires the analyzers into an MCP server.
type Server struct {
	runner  *common.Runner
	version string
	logger  *errors.Logger
}

// New creates the MCP tool server.
func New(runner *common.Runner, version string, logger *errors.Logger) *Server {
	return &Server{runner: runner, version: version, logger: logger}
}

// MCP builds the protocol server with every tool registered.
func (s *Server) MCP() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "atscheck", Version: s.version}, nil)
	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_resume",
		Description: "Run the full ATS analysis on a resume: parse health, and with a job description keyword coverage, knockout risk, recruiter search visibility and an optional semantic match. Returns every finding sorted by severity.",
		Annotations: readOnly,
	}, s.analyzeResume)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_keywords",
		Description: "Extract critical and optional keywords from a job description.",
		Annotations: readOnly,
	}, s.extractKeywords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_knockouts",
		Description: "Detect knockout requirements (clearance, authorization, degree, certification, experience) in a job description, check them against the resume and aggregate the risk.",
		Annotations: readOnly,
	}, s.detectKnockouts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_recruiter_search",
		Description: "Estimate how visible a resume is to a recruiter running keyword searches for this job, with a factor breakdown and suggestions.",
		Annotations: readOnly,
	}, s.scoreRecruiterSearch)

	return server
}

// Run serves the tools over stdio until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server", "transport", "stdio", "version", s.version)
	return s.MCP().Run(ctx, &mcp.StdioTransport{})
}

// call logs one tool invocation under a fresh run id.
func (s *Server) call(tool string, fn func() (any, error)) (*mcp.CallToolResult, any, error) {
	runID := uuid.NewString()
	start := time.Now()
	out, err := fn()
	if err != nil {
		s.logger.LogError(err, "MCP tool failed", "tool", tool, "run_id", runID)
		return nil, nil, err
	}
	s.logger.Debug("MCP tool completed", "tool", tool, "run_id", runID, "duration", time.Since(start).String())
	return nil, out, nil
}

func (s *Server) analyzeResume(ctx context.Context, _ *mcp.CallToolRequest, in AnalyzeResumeInput) (*mcp.CallToolResult, any, error) {
	return s.call("analyze_resume", func() (any, error) {
		fileType := types.FileType(in.FileType)
		if fileType == "" {
			fileType = types.FileTypeText
		}
		answers, err := s.runner.Answers(in.Confirmations)
		if err != nil {
			return nil, err
		}

		runner := *s.runner
		runner.SemanticConfig.Consent = in.Semantic && s.runner.SemanticConfig.Consent
		return runner.Analyze(ctx, "mcp", pipeline.Input{
			Artifact:      types.NewTextArtifact(in.ResumeText, fileType),
			JobText:       in.JobDescription,
			Confirmations: answers,
		})
	})
}

func (s *Server) extractKeywords(_ context.Context, _ *mcp.CallToolRequest, in JobInput) (*mcp.CallToolResult, any, error) {
	return s.call("extract_keywords", func() (any, error) {
		req := types.JobRequest{JobDescription: in.JobDescription}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return keywords.Extract(in.JobDescription), nil
	})
}

func (s *Server) detectKnockouts(_ context.Context, _ *mcp.CallToolRequest, in MatchInput) (*mcp.CallToolResult, any, error) {
	return s.call("detect_knockouts", func() (any, error) {
		if err := validateMatch(in); err != nil {
			return nil, err
		}
		return s.runner.Knockouts(in.ResumeText, in.JobDescription, in.Confirmations)
	})
}

// RecruiterOutput pairs the recruiter score with the coverage it builds on.
type RecruiterOutput struct {
	Recruiter recruiter.Result `json:"recruiterSearch"`
	Coverage  coverage.Result  `json:"coverage"`
}

func (s *Server) scoreRecruiterSearch(_ context.Context, _ *mcp.CallToolRequest, in MatchInput) (*mcp.CallToolResult, any, error) {
	return s.call("score_recruiter_search", func() (any, error) {
		if err := validateMatch(in); err != nil {
			return nil, err
		}
		ks := keywords.Extract(in.JobDescription)
		return RecruiterOutput{
			Recruiter: recruiter.Calculate(in.ResumeText, in.JobDescription, ks),
			Coverage:  coverage.Calculate(in.ResumeText, ks),
		}, nil
	})
}

func validateMatch(in MatchInput) error {
	req := types.MatchRequest{ResumeText: in.ResumeText, JobDescription: in.JobDescription}
	return req.Validate()
}
