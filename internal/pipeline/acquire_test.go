package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"medilab-server/internal/report"
)

type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

func TestAcquire_TextPassthrough(t *testing.T) {
	a := NewAcquirer(nil, zerolog.Nop())
	file := report.UploadedFile{Name: "report.txt", Content: []byte("Glucose: 95 mg/dL")}
	got := a.Acquire(context.Background(), file, report.FileTypeText)
	if got != "Glucose: 95 mg/dL" {
		t.Errorf("text passthrough = %q", got)
	}
}

func TestAcquire_OCRSuccess(t *testing.T) {
	a := NewAcquirer(&fakeRecognizer{text: "Hemoglobin 12.0"}, zerolog.Nop())
	file := report.UploadedFile{Name: "scan.png", Content: []byte{1, 2, 3}}
	got := a.Acquire(context.Background(), file, report.FileTypeImage)
	if got != "Hemoglobin 12.0" {
		t.Errorf("ocr text = %q", got)
	}
}

func TestAcquire_OCRFailureFallsBack(t *testing.T) {
	for _, rec := range []Recognizer{
		nil,
		&fakeRecognizer{err: errors.New("engine crashed")},
		&fakeRecognizer{text: "   "},
	} {
		a := NewAcquirer(rec, zerolog.Nop())
		file := report.UploadedFile{Name: "scan.png", Content: []byte{1}}
		got := a.Acquire(context.Background(), file, report.FileTypeImage)
		if !strings.Contains(got, "Normal chest X-ray") {
			t.Errorf("expected canned narrative, got %q", got)
		}
	}
}

func TestAcquire_CorruptPDFFallsBack(t *testing.T) {
	a := NewAcquirer(nil, zerolog.Nop())
	file := report.UploadedFile{Name: "labs.pdf", Content: []byte("not a pdf")}
	got := a.Acquire(context.Background(), file, report.FileTypePDF)
	if !strings.Contains(got, "COMPLETE BLOOD COUNT") {
		t.Errorf("expected synthetic CBC report, got %q", got)
	}
	// The synthetic report must itself standardize cleanly.
	out := NewStandardizer(0).Standardize(Input{FileName: file.Name, Text: got})
	if out.ReportType != report.ReportTypeCBC {
		t.Errorf("synthetic report classified as %q, want cbc", out.ReportType)
	}
}

func TestSynthesizeDICOMSummary(t *testing.T) {
	text := SynthesizeDICOMSummary("ct-chest-20240110.dcm", 2048)
	for _, want := range []string{"CT", "chest", "File Size: 2.0 KB"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}

	unknown := SynthesizeDICOMSummary("study001.dcm", 100)
	if !strings.Contains(unknown, "Unknown modality") {
		t.Errorf("expected unknown modality, got:\n%s", unknown)
	}
}

func TestAcquire_HL7RawBytes(t *testing.T) {
	raw := "MSH|^~\\&|LAB|HOSP|||20240101||ORU^R01|1|P|2.3"
	a := NewAcquirer(nil, zerolog.Nop())
	file := report.UploadedFile{Name: "feed.hl7", Content: []byte(raw)}
	if got := a.Acquire(context.Background(), file, report.FileTypeHL7); got != raw {
		t.Errorf("hl7 passthrough = %q", got)
	}
}
