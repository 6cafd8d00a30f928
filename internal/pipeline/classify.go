package pipeline

import (
	"strings"

	"medilab-server/internal/report"
)

// categoryKeywords drives the scored classifier. Each keyword hit adds
// one point to its category; a few strongly identifying phrases carry
// extra weight so that e.g. "complete blood count" outscores incidental
// glucose mentions. Microbiology terms score into Other on purpose: the
// category set has no dedicated bucket for them.
var categoryKeywords = []struct {
	Type     report.ReportType
	Keywords []string
	Strong   []string
}{
	{
		Type:     report.ReportTypeCBC,
		Keywords: []string{"wbc", "rbc", "hemoglobin", "haemoglobin", "hematocrit", "platelets", "platelet count", "mcv", "mch", "mchc", "neutrophils", "lymphocytes", "monocytes", "eosinophils", "basophils"},
		Strong:   []string{"complete blood count", "cbc", "full blood count"},
	},
	{
		Type:     report.ReportTypeLipidPanel,
		Keywords: []string{"cholesterol", "hdl", "ldl", "triglycerides", "vldl", "non-hdl"},
		Strong:   []string{"lipid panel", "lipid profile"},
	},
	{
		Type:     report.ReportTypeMetabolic,
		Keywords: []string{"glucose", "bun", "creatinine", "egfr", "sodium", "potassium", "chloride", "bicarbonate", "calcium", "albumin", "bilirubin", "alt", "ast", "alkaline phosphatase"},
		Strong:   []string{"metabolic panel", "basic metabolic", "comprehensive metabolic", "kidney function", "liver function"},
	},
	{
		Type:     report.ReportTypeImaging,
		Keywords: []string{"x-ray", "xray", "radiograph", "ct scan", "mri", "ultrasound", "impression", "contrast", "modality"},
		Strong:   []string{"radiology report", "imaging report", "chest x-ray"},
	},
	{
		Type:     report.ReportTypePathology,
		Keywords: []string{"biopsy", "specimen", "histology", "cytology", "malignant", "benign", "carcinoma", "microscopic"},
		Strong:   []string{"pathology report", "surgical pathology"},
	},
	{
		Type:     report.ReportTypeUrinalysis,
		Keywords: []string{"urine", "specific gravity", "urobilinogen", "ketones", "leukocyte esterase", "nitrite", "turbidity"},
		Strong:   []string{"urinalysis", "urine analysis"},
	},
	{
		Type:     report.ReportTypeThyroid,
		Keywords: []string{"tsh", "free t4", "free t3", "thyroxine", "triiodothyronine", "thyroglobulin", "tpo"},
		Strong:   []string{"thyroid panel", "thyroid function"},
	},
	{
		Type:     report.ReportTypeOther,
		Keywords: []string{"culture", "sensitivity", "organism", "colony", "antibiotic"},
		Strong:   []string{"microbiology report"},
	},
}

// tiePriority breaks equal scores with the historical check order.
var tiePriority = []report.ReportType{
	report.ReportTypeCBC,
	report.ReportTypeLipidPanel,
	report.ReportTypeMetabolic,
	report.ReportTypeImaging,
	report.ReportTypePathology,
	report.ReportTypeUrinalysis,
	report.ReportTypeThyroid,
	report.ReportTypeOther,
}

const strongKeywordWeight = 3

// Classify assigns a report category by keyword scoring over the text,
// with the file name contributing as a secondary signal. The highest
// score wins; ties fall back to a fixed priority order, and no hits at
// all default to Other.
func Classify(text, fileName string) (report.ReportType, map[report.ReportType]int) {
	lower := strings.ToLower(text)
	lowerName := strings.ToLower(fileName)
	scores := make(map[report.ReportType]int, len(categoryKeywords))

	for _, cat := range categoryKeywords {
		score := 0
		for _, kw := range cat.Keywords {
			if containsToken(lower, kw) {
				score++
			}
			if strings.Contains(lowerName, strings.ReplaceAll(kw, " ", "")) {
				score++
			}
		}
		for _, kw := range cat.Strong {
			if strings.Contains(lower, kw) {
				score += strongKeywordWeight
			}
			if strings.Contains(lowerName, strings.ReplaceAll(kw, " ", "")) {
				score += strongKeywordWeight
			}
		}
		scores[cat.Type] = score
	}

	best := report.ReportTypeOther
	bestScore := 0
	for _, t := range tiePriority {
		if scores[t] > bestScore {
			best = t
			bestScore = scores[t]
		}
	}
	if bestScore == 0 {
		return report.ReportTypeOther, scores
	}
	return best, scores
}

// containsToken matches a keyword at word boundaries so that "alt" does
// not fire inside "alternative". Multi-word keywords use substring match.
func containsToken(text, keyword string) bool {
	if strings.Contains(keyword, " ") || strings.Contains(keyword, "-") {
		return strings.Contains(text, keyword)
	}
	idx := 0
	for {
		i := strings.Index(text[idx:], keyword)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(keyword)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
