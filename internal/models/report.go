package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"medilab-server/internal/report"
)

// ReportStatus tracks the processing lifecycle of a persisted report.
type ReportStatus string

const (
	StatusProcessing          ReportStatus = "processing"
	StatusCompleted           ReportStatus = "completed"
	StatusCompletedWithErrors ReportStatus = "completed_with_errors"
)

// ParameterList stores extracted parameters as a JSON column.
type ParameterList []report.TestParameter

// Value implements driver.Valuer for JSON storage.
func (p ParameterList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("models: marshal parameters: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON storage.
func (p *ParameterList) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("models: unsupported parameter column type %T", value)
		}
	}
	return json.Unmarshal(b, p)
}

// AnalysisColumn stores the report analysis as a JSON column.
type AnalysisColumn struct {
	report.ReportAnalysis
}

// Value implements driver.Valuer for JSON storage.
func (a AnalysisColumn) Value() (driver.Value, error) {
	b, err := json.Marshal(a.ReportAnalysis)
	if err != nil {
		return nil, fmt.Errorf("models: marshal analysis: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON storage.
func (a *AnalysisColumn) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("models: unsupported analysis column type %T", value)
		}
	}
	return json.Unmarshal(b, &a.ReportAnalysis)
}

// StringList stores a list of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer for JSON storage.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("models: marshal string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON storage.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			b = []byte(str)
		} else {
			return fmt.Errorf("models: unsupported string list column type %T", value)
		}
	}
	return json.Unmarshal(b, s)
}

// MedicalReport is one uploaded and processed lab report. Results holds
// the canonical parameter list; Analysis is attached once the analysis
// step finishes and only replaced on an explicit re-request.
type MedicalReport struct {
	BaseModel
	UserID     string            `gorm:"size:36;index" json:"userId"`
	Type       report.ReportType `gorm:"size:50;index" json:"type"`
	Title      string            `gorm:"size:255;not null" json:"title"`
	Status     ReportStatus      `gorm:"size:30;index" json:"status"`
	FileName   string            `gorm:"size:255" json:"fileName"`
	FileType   report.FileType   `gorm:"size:20" json:"fileType"`
	RawText    string            `gorm:"type:mediumtext" json:"-"`
	Results    ParameterList     `gorm:"type:json" json:"results"`
	Analysis   *AnalysisColumn   `gorm:"type:json" json:"analysis,omitempty"`
	UploadDate time.Time         `gorm:"index" json:"uploadDate"`
}

// HealthPlan is a persisted, goal-driven plan derived from a user's
// latest report parameters.
type HealthPlan struct {
	BaseModel
	UserID   string     `gorm:"size:36;index" json:"userId"`
	ReportID string     `gorm:"size:36" json:"reportId,omitempty"`
	Goals    StringList `gorm:"type:json" json:"goals"`
	Actions  StringList `gorm:"type:json" json:"actions"`
	Summary  string     `gorm:"type:text" json:"summary"`
}

// Recommendation is one persisted set of personalized recommendations
// generated from a report.
type Recommendation struct {
	BaseModel
	UserID   string     `gorm:"size:36;index" json:"userId"`
	ReportID string     `gorm:"size:36;index" json:"reportId"`
	Items    StringList `gorm:"type:json" json:"items"`
	Source   string     `gorm:"size:20" json:"source"` // "ai" or "fallback"
}
