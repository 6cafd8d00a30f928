package pipeline

import (
	"time"

	"medilab-server/internal/report"
)

// Input carries everything the standardizer needs for one document.
// ReportType and Parameters are optional caller-supplied overrides.
type Input struct {
	FileName   string
	Text       string
	ReportType report.ReportType
	Parameters []report.TestParameter
}

// Standardizer converts unstructured report text into a normalized
// parameter list. It holds no mutable state and is safe for concurrent
// use across requests.
type Standardizer struct {
	extractor   *Extractor
	criticalPct float64
	now         func() time.Time
}

// NewStandardizer builds a standardizer with a freshly compiled
// extraction cascade. criticalPct widens status resolution with
// critical-low/critical-high bands that far beyond the reference range;
// zero disables the critical bands.
func NewStandardizer(criticalPct float64) *Standardizer {
	return &Standardizer{extractor: NewExtractor(), criticalPct: criticalPct, now: time.Now}
}

// Standardize produces the normalized document. Caller-supplied
// parameters short-circuit extraction entirely; otherwise the category
// is taken from the input or classified from the text, the cascade runs,
// and placeholders are filled for expected-but-missing parameters.
// Identical input always yields identical parameter lists.
func (s *Standardizer) Standardize(in Input) *report.StandardizedReport {
	reportType := in.ReportType
	if reportType == "" {
		reportType, _ = Classify(in.Text, in.FileName)
	}

	out := &report.StandardizedReport{
		ReportType:    reportType,
		RawText:       in.Text,
		FileName:      in.FileName,
		ExtractedDate: s.now(),
	}

	if len(in.Parameters) > 0 {
		out.Results = in.Parameters
		return out
	}

	params := s.extractor.Extract(reportType, in.Text)
	params = FillMissing(reportType, params)
	if s.criticalPct > 0 {
		for i := range params {
			if params[i].Status == report.StatusNotAvailable {
				continue
			}
			params[i].Status = report.ResolveStatus(params[i].Value, params[i].ReferenceRange, s.criticalPct)
		}
	}
	out.Results = params
	return out
}
