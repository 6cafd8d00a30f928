package analysis

import (
	"fmt"
	"strings"

	"medilab-server/internal/report"
)

// fallbackConfidence marks canned analyses so consumers can tell them
// from live collaborator output.
const fallbackConfidence = 0.3

var reportTypeLabels = map[report.ReportType]string{
	report.ReportTypeCBC:        "complete blood count",
	report.ReportTypeLipidPanel: "lipid panel",
	report.ReportTypeMetabolic:  "metabolic panel",
	report.ReportTypeUrinalysis: "urinalysis",
	report.ReportTypeThyroid:    "thyroid panel",
	report.ReportTypeImaging:    "imaging report",
	report.ReportTypePathology:  "pathology report",
	report.ReportTypeOther:      "lab report",
}

// Fallback builds the deterministic, report-type-aware analysis used
// whenever the collaborator is unavailable or returns unusable output.
// Identical inputs always produce identical analyses.
func Fallback(t report.ReportType, results []report.TestParameter) *report.ReportAnalysis {
	label := reportTypeLabels[t]
	if label == "" {
		label = "lab report"
	}

	abnormal := abnormalParameters(results)
	critical := criticalParameters(results)

	a := &report.ReportAnalysis{
		AIConfidenceScore: fallbackConfidence,
		Findings:          []string{},
		Recommendations: []string{
			"Discuss these results with your healthcare provider.",
			"Keep a copy of this report for your medical records.",
		},
	}

	switch {
	case len(critical) > 0:
		a.Summary = fmt.Sprintf("Your %s contains %d value(s) far outside the reference range. Please contact your healthcare provider promptly.", label, len(critical))
		a.FollowUpRecommended = true
		a.FollowUpTimeframe = "within 1-2 days"
	case len(abnormal) > 0:
		a.Summary = fmt.Sprintf("Your %s shows %d value(s) outside the reference range. Most isolated abnormalities are not alarming, but they are worth reviewing with a clinician.", label, len(abnormal))
		a.FollowUpRecommended = true
		a.FollowUpTimeframe = "within 2-4 weeks"
	default:
		a.Summary = fmt.Sprintf("Your %s values are within their reference ranges where ranges were available.", label)
	}

	for _, p := range abnormal {
		a.Findings = append(a.Findings, fmt.Sprintf("%s is %s at %s %s", p.Name, p.Status, p.Value, p.Unit))
	}
	if len(a.Findings) == 0 {
		a.Findings = append(a.Findings, "No out-of-range values were identified.")
	}

	a.PersonalizedRecommendations = typeRecommendations(t)
	return a
}

// FallbackAnswer is the deterministic reply for the Q&A path when the
// collaborator fails or is not configured.
func FallbackAnswer(question string, rep *report.StandardizedReport) string {
	var sb strings.Builder
	sb.WriteString("I could not reach the analysis service just now. ")
	if rep == nil {
		sb.WriteString("Please try again later, or review your report with a healthcare provider.")
		return sb.String()
	}
	abnormal := abnormalParameters(rep.Results)
	if len(abnormal) == 0 {
		sb.WriteString("Based on the extracted values alone, nothing in this report is outside its reference range.")
	} else {
		fmt.Fprintf(&sb, "Based on the extracted values alone, %d parameter(s) are outside their reference range:", len(abnormal))
		for _, p := range abnormal {
			fmt.Fprintf(&sb, " %s (%s),", p.Name, p.Status)
		}
	}
	sb.WriteString(" Please review the report with a healthcare provider for an answer to your question.")
	return strings.ReplaceAll(sb.String(), ", Please", ". Please")
}

func abnormalParameters(results []report.TestParameter) []report.TestParameter {
	var out []report.TestParameter
	for _, p := range results {
		switch p.Status {
		case report.StatusLow, report.StatusHigh, report.StatusCriticalLow, report.StatusCriticalHigh, report.StatusBorderline:
			out = append(out, p)
		}
	}
	return out
}

func criticalParameters(results []report.TestParameter) []report.TestParameter {
	var out []report.TestParameter
	for _, p := range results {
		if p.Status == report.StatusCriticalLow || p.Status == report.StatusCriticalHigh {
			out = append(out, p)
		}
	}
	return out
}

func typeRecommendations(t report.ReportType) []string {
	switch t {
	case report.ReportTypeCBC:
		return []string{"Maintain a balanced diet with adequate iron and B vitamins.", "Stay hydrated, especially before blood draws."}
	case report.ReportTypeLipidPanel:
		return []string{"Favor unsaturated fats and high-fiber foods.", "Regular aerobic exercise helps improve cholesterol balance."}
	case report.ReportTypeMetabolic:
		return []string{"Limit added sugar and stay consistently hydrated.", "Discuss kidney and liver trends with your clinician if values drift."}
	case report.ReportTypeUrinalysis:
		return []string{"Adequate fluid intake supports urinary health.", "Repeat testing is common when strip results are borderline."}
	case report.ReportTypeThyroid:
		return []string{"Thyroid values vary with time of day and medication timing; keep testing conditions consistent."}
	default:
		return []string{"Bring this report to your next appointment."}
	}
}
