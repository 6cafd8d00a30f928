package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"medilab-server/internal/analysis"
	"medilab-server/internal/pipeline"
	"medilab-server/internal/report"
	"medilab-server/internal/utils"
)

// PipelineHandler exposes the extraction pipeline directly: classify
// text, standardize text, and analyze images without persisting.
type PipelineHandler struct {
	Acquirer     *pipeline.Acquirer
	Standardizer *pipeline.Standardizer
	Analyzer     *analysis.Orchestrator
	Log          zerolog.Logger
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(acq *pipeline.Acquirer, std *pipeline.Standardizer, an *analysis.Orchestrator, log zerolog.Logger) *PipelineHandler {
	return &PipelineHandler{Acquirer: acq, Standardizer: std, Analyzer: an, Log: log}
}

// ClassifyRequest is the request body for POST /classify.
type ClassifyRequest struct {
	FileName string `json:"fileName"`
	Text     string `json:"text" binding:"required"`
}

// Classify assigns a report category to raw text and returns the full
// per-category scores alongside the winner.
func (h *PipelineHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	reportType, scores := pipeline.Classify(req.Text, req.FileName)
	utils.Success(c, "Text classified successfully", gin.H{
		"reportType": reportType,
		"scores":     scores,
	})
}

// StandardizeRequest is the request body for POST /standardize.
// ReportType and Parameters are optional; supplied parameters are
// returned unchanged without re-extraction.
type StandardizeRequest struct {
	FileName   string                 `json:"fileName"`
	Text       string                 `json:"text" binding:"required"`
	ReportType report.ReportType      `json:"reportType"`
	Parameters []report.TestParameter `json:"parameters"`
}

// Standardize converts raw report text into the normalized document.
func (h *PipelineHandler) Standardize(c *gin.Context) {
	var req StandardizeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	std := h.Standardizer.Standardize(pipeline.Input{
		FileName:   req.FileName,
		Text:       req.Text,
		ReportType: req.ReportType,
		Parameters: req.Parameters,
	})
	utils.Success(c, "Report standardized successfully", std)
}

// ImageAnalysis runs OCR (or its canned fallback) over an uploaded
// image, standardizes the recovered text and returns an analysis
// without persisting anything.
func (h *PipelineHandler) ImageAnalysis(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "image is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerError(c, "Failed to read uploaded image: "+err.Error())
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		utils.InternalServerError(c, "Failed to read uploaded image: "+err.Error())
		return
	}

	file := report.UploadedFile{
		Name:     fileHeader.Filename,
		MIMEType: fileHeader.Header.Get("Content-Type"),
		Content:  content,
	}
	text := h.Acquirer.Acquire(c.Request.Context(), file, report.FileTypeImage)
	std := h.Standardizer.Standardize(pipeline.Input{FileName: file.Name, Text: text})
	result, degraded := h.Analyzer.Analyze(c.Request.Context(), std)

	utils.Success(c, "Image analyzed successfully", gin.H{
		"report":   std,
		"analysis": result,
		"degraded": degraded,
	})
}
