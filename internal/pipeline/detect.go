package pipeline

import (
	"path/filepath"
	"strings"

	"medilab-server/internal/report"
)

var extensionTypes = map[string]report.FileType{
	"pdf":   report.FileTypePDF,
	"jpg":   report.FileTypeImage,
	"jpeg":  report.FileTypeImage,
	"png":   report.FileTypeImage,
	"gif":   report.FileTypeImage,
	"bmp":   report.FileTypeImage,
	"tiff":  report.FileTypeImage,
	"tif":   report.FileTypeImage,
	"webp":  report.FileTypeImage,
	"txt":   report.FileTypeText,
	"text":  report.FileTypeText,
	"csv":   report.FileTypeText,
	"md":    report.FileTypeText,
	"rtf":   report.FileTypeText,
	"dicom": report.FileTypeDICOM,
	"dcm":   report.FileTypeDICOM,
	"hl7":   report.FileTypeHL7,
	"h7":    report.FileTypeHL7,
	"fhir":  report.FileTypeFHIR,
}

// DetectFileType maps a file name and declared MIME type to a FileType.
// Extension lists are checked first; the MIME type is only a fallback.
// Anything unmatched is Unknown, which callers treat as a rejected upload.
func DetectFileType(fileName, mimeType string) report.FileType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	lowerName := strings.ToLower(fileName)

	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	// FHIR bundles usually arrive as JSON named after the standard.
	if (ext == "json" || ext == "xml") && strings.Contains(lowerName, "fhir") {
		return report.FileTypeFHIR
	}

	mime := strings.ToLower(mimeType)
	switch {
	case mime == "application/pdf":
		return report.FileTypePDF
	case strings.HasPrefix(mime, "image/"):
		return report.FileTypeImage
	case strings.Contains(mime, "fhir"):
		return report.FileTypeFHIR
	case strings.Contains(mime, "hl7"):
		return report.FileTypeHL7
	case strings.Contains(mime, "dicom"):
		return report.FileTypeDICOM
	case strings.HasPrefix(mime, "text/"):
		return report.FileTypeText
	}
	return report.FileTypeUnknown
}
