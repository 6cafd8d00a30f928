package report

import (
	"encoding/json"
	"time"
)

// FileType identifies what kind of document was uploaded. It is derived
// from the file name and MIME type and never stored.
type FileType string

const (
	FileTypePDF     FileType = "pdf"
	FileTypeImage   FileType = "image"
	FileTypeText    FileType = "text"
	FileTypeDICOM   FileType = "dicom"
	FileTypeHL7     FileType = "hl7"
	FileTypeFHIR    FileType = "fhir"
	FileTypeUnknown FileType = "unknown"
)

// ReportType is the coarse medical category assigned to a report.
type ReportType string

const (
	ReportTypeCBC        ReportType = "cbc"
	ReportTypeLipidPanel ReportType = "lipid_panel"
	ReportTypeMetabolic  ReportType = "metabolic_panel"
	ReportTypeUrinalysis ReportType = "urinalysis"
	ReportTypeThyroid    ReportType = "thyroid_panel"
	ReportTypeImaging    ReportType = "imaging"
	ReportTypePathology  ReportType = "pathology"
	ReportTypeOther      ReportType = "other"
)

// Status classifies a parameter value against its reference range.
type Status string

const (
	StatusNormal       Status = "normal"
	StatusLow          Status = "low"
	StatusHigh         Status = "high"
	StatusCriticalLow  Status = "critical-low"
	StatusCriticalHigh Status = "critical-high"
	StatusBorderline   Status = "borderline"
	StatusNotAvailable Status = "not available"
	StatusUnparseable  Status = "unparseable"
)

// ReferenceRange is the (min, max) interval considered clinically normal.
// Either bound may be absent for one-sided ranges.
type ReferenceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Bounded reports whether both bounds are present.
func (r ReferenceRange) Bounded() bool {
	return r.Min != nil && r.Max != nil
}

// TestParameter is one named lab measurement extracted from a report.
// Value stays a string because urinalysis strips produce categorical
// results ("negative", "trace") alongside numeric ones.
type TestParameter struct {
	Name           string         `json:"name"`
	Value          string         `json:"value"`
	Unit           string         `json:"unit,omitempty"`
	Status         Status         `json:"status"`
	ReferenceRange ReferenceRange `json:"referenceRange"`
}

// UploadedFile is the ephemeral in-memory representation of one upload.
type UploadedFile struct {
	Name     string
	MIMEType string
	Content  []byte
}

// StandardizedReport is the normalized output of the extraction pipeline.
// Results is the single canonical parameter list; the JSON encoding also
// emits a "parameters" mirror for consumers of the old shape.
type StandardizedReport struct {
	ReportType    ReportType      `json:"reportType"`
	Results       []TestParameter `json:"results"`
	RawText       string          `json:"rawText"`
	FileName      string          `json:"fileName"`
	ExtractedDate time.Time       `json:"extractedDate"`
}

// Parameters returns the canonical result list under its legacy name.
func (s *StandardizedReport) Parameters() []TestParameter {
	return s.Results
}

// MarshalJSON duplicates Results into a "parameters" key so older
// consumers keep working without the two fields ever diverging.
func (s StandardizedReport) MarshalJSON() ([]byte, error) {
	type alias StandardizedReport
	return json.Marshal(struct {
		alias
		Parameters []TestParameter `json:"parameters"`
	}{alias(s), s.Results})
}

// ReportAnalysis is the narrative output attached to a report, produced
// by the AI collaborator or by the deterministic fallback.
type ReportAnalysis struct {
	Summary                     string   `json:"summary"`
	Findings                    []string `json:"findings"`
	Recommendations             []string `json:"recommendations"`
	PossibleConditions          []string `json:"possibleConditions,omitempty"`
	FollowUpRecommended         bool     `json:"followUpRecommended"`
	FollowUpTimeframe           string   `json:"followUpTimeframe,omitempty"`
	AIConfidenceScore           float64  `json:"aiConfidenceScore"`
	PersonalizedRecommendations []string `json:"personalizedRecommendations,omitempty"`
}
