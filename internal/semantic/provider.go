package semantic

import "context"

// Request is a single semantic match request sent to a provider.
type Request struct {
	ResumeText string
	JobText    string
	Config     Config
}

// Assessment is the structured answer a provider returns.
type Assessment struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

// Provider is a hosted model able to produce an Assessment.
type Provider interface {
	Assess(ctx context.Context, req Request) (Assessment, *TokenUsage, error)
	Name() string
	Close() error
}
