// Package analysis produces the narrative ReportAnalysis for a
// standardized report. The AI collaborator is an injected interface;
// every failure mode along the call path degrades to a deterministic
// canned analysis, so no error ever escapes this package.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"medilab-server/internal/report"
)

// Completer is the external text-completion collaborator. It returns
// either a JSON document (preferred) or free text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DefaultTimeout bounds one collaborator call.
const DefaultTimeout = 30 * time.Second

// Orchestrator coordinates prompt building, the collaborator call,
// response parsing and the fallback path.
type Orchestrator struct {
	client  Completer
	timeout time.Duration
	log     zerolog.Logger
}

// NewOrchestrator wires the collaborator; client may be nil, which makes
// every analysis take the fallback path.
func NewOrchestrator(client Completer, timeout time.Duration, log zerolog.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{client: client, timeout: timeout, log: log}
}

// Analyze returns a schema-conforming analysis for the report. The
// second return value reports whether the deterministic fallback was
// used; it never returns an error.
func (o *Orchestrator) Analyze(ctx context.Context, rep *report.StandardizedReport) (*report.ReportAnalysis, bool) {
	if o.client == nil {
		return Fallback(rep.ReportType, rep.Results), true
	}

	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	raw, err := o.client.Complete(cctx, BuildPrompt(rep))
	if err != nil {
		o.log.Warn().Err(err).Str("file", rep.FileName).Msg("analysis completion failed, using fallback")
		return Fallback(rep.ReportType, rep.Results), true
	}

	parsed, err := ParseAnalysisResponse(raw)
	if err != nil {
		o.log.Warn().Err(err).Str("file", rep.FileName).Msg("analysis response unusable, using fallback")
		return Fallback(rep.ReportType, rep.Results), true
	}
	return parsed, false
}

// Answer responds to a free-text question about a report, used by the
// Q&A and voice endpoints. Like Analyze, it never fails: collaborator
// errors produce a deterministic reply built from the report results.
func (o *Orchestrator) Answer(ctx context.Context, question string, rep *report.StandardizedReport) string {
	if o.client != nil {
		cctx, cancel := context.WithTimeout(ctx, o.timeout)
		defer cancel()

		reply, err := o.client.Complete(cctx, BuildQuestionPrompt(question, rep))
		if err == nil && strings.TrimSpace(reply) != "" {
			return strings.TrimSpace(stripCodeFences(reply))
		}
		o.log.Warn().Err(err).Msg("question completion failed, using fallback answer")
	}
	return FallbackAnswer(question, rep)
}

// ParseAnalysisResponse extracts a ReportAnalysis from a collaborator
// response. Markdown code fences are tolerated; if strict JSON parsing
// fails, a best-effort repair pass (quote normalization, trailing-comma
// removal) runs before giving up.
func ParseAnalysisResponse(raw string) (*report.ReportAnalysis, error) {
	body := stripCodeFences(raw)
	body = extractJSONObject(body)
	if body == "" {
		return nil, fmt.Errorf("analysis: no JSON object in response")
	}

	var out report.ReportAnalysis
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		repaired := RepairJSON(body)
		if err2 := json.Unmarshal([]byte(repaired), &out); err2 != nil {
			return nil, fmt.Errorf("analysis: parse response: %w", err)
		}
	}
	if err := validate(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// validate enforces the required-field contract on parsed responses so
// a syntactically valid but hollow reply still takes the fallback path.
func validate(a *report.ReportAnalysis) error {
	if strings.TrimSpace(a.Summary) == "" {
		return fmt.Errorf("analysis: response missing summary")
	}
	if len(a.Findings) == 0 {
		return fmt.Errorf("analysis: response missing findings")
	}
	if len(a.Recommendations) == 0 {
		return fmt.Errorf("analysis: response missing recommendations")
	}
	if a.AIConfidenceScore <= 0 || a.AIConfidenceScore > 1 {
		a.AIConfidenceScore = 0.5
	}
	return nil
}

// stripCodeFences removes a surrounding ```json ... ``` block if present.
func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	}
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// extractJSONObject returns the outermost {...} span of the text, which
// tolerates prose before or after the JSON payload.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
