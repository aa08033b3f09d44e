package semantic

import "strings"

// DefaultSystemPrompt instructs the model to act as a strict ATS reviewer.
const DefaultSystemPrompt = `You are an experienced technical recruiter and applicant tracking system analyst.
You judge how well a candidate's resume matches a job description on meaning, not exact wording:
equivalent skills, transferable experience, seniority and domain fit all count.

Rules:
- Base every judgement only on the text provided. Never assume experience that is not written down.
- Do not reward keyword stuffing; reward demonstrated, relevant experience.
- Ignore formatting, personal details and anything protected by anti-discrimination law.`

// DefaultUserPrompt is the user prompt template. {{resume}} and {{job}} are
// replaced with the two texts.
const DefaultUserPrompt = `Rate the semantic match between the resume and the job description below.

Return:
- score: an integer from 0 (unrelated) to 100 (ideal fit)
- rationale: two or three sentences naming the strongest alignment and the largest gap

**Resume:**
-----
{{resume}}
-----

**Job Description:**
-----
{{job}}
-----`

const (
	resumePlaceholder = "{{resume}}"
	jobPlaceholder    = "{{job}}"
)

// resolvePrompt picks the configured prompt and falls back to the default.
func resolvePrompt(configured, fallback string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return fallback
}

// buildPrompts returns the system and user prompts for a request. A custom
// user template without placeholders gets both texts appended.
func buildPrompts(req Request) (system, user string) {
	system = resolvePrompt(req.Config.SystemPrompt, DefaultSystemPrompt)
	template := resolvePrompt(req.Config.UserPrompt, DefaultUserPrompt)

	if !strings.Contains(template, resumePlaceholder) && !strings.Contains(template, jobPlaceholder) {
		template += "\n\n**Resume:**\n-----\n" + resumePlaceholder + "\n-----\n\n**Job Description:**\n-----\n" + jobPlaceholder + "\n-----"
	}
	user = strings.NewReplacer(resumePlaceholder, req.ResumeText, jobPlaceholder, req.JobText).Replace(template)

	if !req.Config.UseSystemPrompts {
		user = system + "\n\n" + user
		system = ""
	}
	return system, user
}
