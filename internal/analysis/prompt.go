package analysis

import (
	"fmt"
	"strings"

	"medilab-server/internal/report"
)

// BuildPrompt renders the standardized report into the instruction the
// collaborator receives. The response contract mirrors ReportAnalysis
// field for field; the collaborator is told to return JSON only.
func BuildPrompt(rep *report.StandardizedReport) string {
	var sb strings.Builder
	sb.WriteString("You are a medical assistant analyzing a lab report.\n")
	fmt.Fprintf(&sb, "Report type: %s\nFile: %s\n\nExtracted parameters:\n", rep.ReportType, rep.FileName)
	writeParameters(&sb, rep.Results)
	sb.WriteString(`
Return ONLY a JSON object with this exact structure (no extra text):
{
  "summary": "2-3 sentence plain-language summary",
  "findings": ["notable finding", "..."],
  "recommendations": ["actionable recommendation", "..."],
  "possibleConditions": ["condition the pattern may suggest", "..."],
  "followUpRecommended": true,
  "followUpTimeframe": "e.g. within 2 weeks",
  "aiConfidenceScore": 0.85,
  "personalizedRecommendations": ["lifestyle advice", "..."]
}
`)
	return sb.String()
}

// BuildQuestionPrompt renders a free-text question with the report as
// context for the Q&A and voice endpoints.
func BuildQuestionPrompt(question string, rep *report.StandardizedReport) string {
	var sb strings.Builder
	sb.WriteString("You are a medical assistant. Answer the patient's question using only the report below.\n")
	sb.WriteString("Keep the answer short, plain-language and non-alarming. Advise consulting a clinician for diagnosis.\n\n")
	if rep != nil {
		fmt.Fprintf(&sb, "Report type: %s\nParameters:\n", rep.ReportType)
		writeParameters(&sb, rep.Results)
	}
	fmt.Fprintf(&sb, "\nQuestion: %s\n", question)
	return sb.String()
}

func writeParameters(sb *strings.Builder, params []report.TestParameter) {
	for _, p := range params {
		if p.Status == report.StatusNotAvailable {
			continue
		}
		fmt.Fprintf(sb, "- %s: %s %s [%s]", p.Name, p.Value, p.Unit, p.Status)
		if p.ReferenceRange.Bounded() {
			fmt.Fprintf(sb, " (ref %g-%g)", *p.ReferenceRange.Min, *p.ReferenceRange.Max)
		}
		sb.WriteString("\n")
	}
}
