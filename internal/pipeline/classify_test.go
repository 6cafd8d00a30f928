package pipeline

import (
	"testing"

	"medilab-server/internal/report"
)

func TestClassify_CBC(t *testing.T) {
	text := `Complete Blood Count
Hemoglobin 14.1, Hematocrit 42, Platelets 250`
	got, scores := Classify(text, "labs.pdf")
	if got != report.ReportTypeCBC {
		t.Fatalf("Classify = %q (scores %v), want cbc", got, scores)
	}
}

func TestClassify_LipidBeatsIncidentalKeywords(t *testing.T) {
	// LDL and HDL should pull toward the lipid panel even when
	// cholesterol-adjacent text mentions glucose once.
	text := "Fasting sample. LDL 130 mg/dL, HDL 45 mg/dL, Triglycerides 180. Glucose noted."
	got, scores := Classify(text, "")
	if got != report.ReportTypeLipidPanel {
		t.Fatalf("Classify = %q (scores %v), want lipid_panel", got, scores)
	}
}

func TestClassify_MicrobiologyMapsToOther(t *testing.T) {
	text := "Microbiology report: organism isolated from culture, antibiotic sensitivity attached."
	got, _ := Classify(text, "")
	if got != report.ReportTypeOther {
		t.Fatalf("Classify = %q, want other", got)
	}
}

func TestClassify_NoSignalDefaultsToOther(t *testing.T) {
	got, scores := Classify("quarterly newsletter about parking", "notes.txt")
	if got != report.ReportTypeOther {
		t.Fatalf("Classify = %q, want other", got)
	}
	for typ, s := range scores {
		if s != 0 {
			t.Errorf("unexpected score %d for %s", s, typ)
		}
	}
}

func TestClassify_FilenameSignal(t *testing.T) {
	got, _ := Classify("results attached", "urinalysis-2024.pdf")
	if got != report.ReportTypeUrinalysis {
		t.Fatalf("Classify = %q, want urinalysis", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	text := "TSH 5.2 mIU/L, Free T4 0.7 ng/dL, thyroid function assessment"
	first, _ := Classify(text, "")
	for i := 0; i < 10; i++ {
		if got, _ := Classify(text, ""); got != first {
			t.Fatalf("classification not deterministic: %q vs %q", got, first)
		}
	}
	if first != report.ReportTypeThyroid {
		t.Fatalf("Classify = %q, want thyroid_panel", first)
	}
}
