package pipeline

import (
	"testing"

	"medilab-server/internal/report"
)

func findParam(params []report.TestParameter, name string) (report.TestParameter, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return report.TestParameter{}, false
}

func TestExtract_CBCCombinedPattern(t *testing.T) {
	text := `COMPLETE BLOOD COUNT
WBC: 12.5 x10^9/L (4.0-11.0)
Hemoglobin: 10.2 g/dL (13.5-17.5)
Platelets: 250 x10^9/L (150-400)`

	params := NewExtractor().Extract(report.ReportTypeCBC, text)

	wbc, ok := findParam(params, "White Blood Cell Count")
	if !ok {
		t.Fatalf("WBC not extracted; got %+v", params)
	}
	if wbc.Value != "12.5" {
		t.Errorf("WBC value = %q, want 12.5", wbc.Value)
	}
	if wbc.Status != report.StatusHigh {
		t.Errorf("WBC status = %q, want high", wbc.Status)
	}
	if !wbc.ReferenceRange.Bounded() || *wbc.ReferenceRange.Min != 4.0 || *wbc.ReferenceRange.Max != 11.0 {
		t.Errorf("WBC range = %+v, want 4.0-11.0", wbc.ReferenceRange)
	}

	hgb, ok := findParam(params, "Hemoglobin")
	if !ok {
		t.Fatal("Hemoglobin not extracted")
	}
	if hgb.Status != report.StatusLow {
		t.Errorf("Hemoglobin status = %q, want low", hgb.Status)
	}

	plt, ok := findParam(params, "Platelets")
	if !ok {
		t.Fatal("Platelets not extracted")
	}
	if plt.Status != report.StatusNormal {
		t.Errorf("Platelets status = %q, want normal", plt.Status)
	}
}

func TestExtract_SimplePatternWithoutRange(t *testing.T) {
	text := "Hemoglobin 13.8\nHematocrit 44"
	params := NewExtractor().Extract(report.ReportTypeCBC, text)

	hgb, ok := findParam(params, "Hemoglobin")
	if !ok {
		t.Fatalf("Hemoglobin not extracted; got %+v", params)
	}
	if hgb.Value != "13.8" {
		t.Errorf("value = %q, want 13.8", hgb.Value)
	}
	// No reference range in the text, so no abnormality call is possible.
	if hgb.Status != report.StatusNormal {
		t.Errorf("status = %q, want normal", hgb.Status)
	}
	if hgb.Unit != "g/dL" {
		t.Errorf("unit = %q, want table default g/dL", hgb.Unit)
	}
}

func TestExtract_TableRows(t *testing.T) {
	text := `Test                Result    Units     Reference
Glucose             118       mg/dL     70-99
Creatinine          0.9       mg/dL     0.6-1.2`

	params := NewExtractor().Extract(report.ReportTypeMetabolic, text)

	glu, ok := findParam(params, "Glucose")
	if !ok {
		t.Fatalf("Glucose not extracted; got %+v", params)
	}
	if glu.Status != report.StatusHigh {
		t.Errorf("Glucose status = %q, want high", glu.Status)
	}
	cre, ok := findParam(params, "Creatinine")
	if !ok {
		t.Fatal("Creatinine not extracted")
	}
	if cre.Status != report.StatusNormal {
		t.Errorf("Creatinine status = %q, want normal", cre.Status)
	}
}

func TestExtract_StructuredTable(t *testing.T) {
	text := `Hematology summary
WBC    HGB    PLT
12.5   10.2   350
4.0-11.0   13.5-17.5   150-400`

	strategy := newStructuredTableStrategy(cbcParams, abbreviationNames())
	params := strategy.TryExtract(text)
	if len(params) != 3 {
		t.Fatalf("expected 3 parameters, got %d: %+v", len(params), params)
	}

	wbc, ok := findParam(params, "White Blood Cell Count")
	if !ok {
		t.Fatal("WBC not resolved from abbreviation")
	}
	if wbc.Value != "12.5" || wbc.Status != report.StatusHigh {
		t.Errorf("WBC = %+v, want value 12.5 status high", wbc)
	}
}

func TestExtract_UrinalysisCategoricalValues(t *testing.T) {
	text := `URINALYSIS
Color: Yellow
Appearance: Clear
Specific Gravity: 1.015
Protein: Negative
Ketones: Trace
Nitrite: Positive`

	params := NewExtractor().Extract(report.ReportTypeUrinalysis, text)

	cases := []struct {
		name   string
		value  string
		status report.Status
	}{
		{"Protein", "Negative", report.StatusNormal},
		{"Ketones", "Trace", report.StatusBorderline},
		{"Nitrite", "Positive", report.StatusHigh},
		{"Color", "Yellow", report.StatusUnparseable},
	}
	for _, tc := range cases {
		p, ok := findParam(params, tc.name)
		if !ok {
			t.Errorf("%s not extracted", tc.name)
			continue
		}
		if p.Value != tc.value {
			t.Errorf("%s value = %q, want %q", tc.name, p.Value, tc.value)
		}
		if p.Status != tc.status {
			t.Errorf("%s status = %q, want %q", tc.name, p.Status, tc.status)
		}
	}
}

func TestExtract_GenericFallbackForUnknownType(t *testing.T) {
	text := `Vitamin D: 18 ng/mL (30-100)
Ferritin: 350 ng/mL (24-336)`

	params := NewExtractor().Extract(report.ReportTypeOther, text)
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d: %+v", len(params), params)
	}
	vd, ok := findParam(params, "Vitamin D")
	if !ok {
		t.Fatal("Vitamin D not extracted")
	}
	if vd.Status != report.StatusLow {
		t.Errorf("Vitamin D status = %q, want low", vd.Status)
	}
}

func TestFillMissing_CompleteSetExactlyOnce(t *testing.T) {
	found := []report.TestParameter{
		{Name: "Hemoglobin", Value: "14.0", Status: report.StatusNormal},
		{Name: "Hemoglobin", Value: "14.0", Status: report.StatusNormal}, // duplicate
	}
	out := FillMissing(report.ReportTypeCBC, found)

	counts := make(map[string]int)
	for _, p := range out {
		counts[p.Name]++
	}
	for _, spec := range cbcParams {
		if counts[spec.Name] != 1 {
			t.Errorf("%s appears %d times, want exactly 1", spec.Name, counts[spec.Name])
		}
	}

	plt, _ := findParam(out, "Platelets")
	if plt.Value != "" || plt.Status != report.StatusNotAvailable {
		t.Errorf("placeholder = %+v, want empty value with not-available status", plt)
	}
}

func TestStrategyNamesAreStable(t *testing.T) {
	e := NewExtractor()
	for typ, strategies := range e.byType {
		if len(strategies) != 4 {
			t.Errorf("%s has %d strategies, want 4", typ, len(strategies))
		}
	}
}
