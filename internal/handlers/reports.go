package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medilab-server/internal/analysis"
	"medilab-server/internal/config"
	"medilab-server/internal/models"
	"medilab-server/internal/pipeline"
	"medilab-server/internal/report"
	"medilab-server/internal/utils"
)

// ReportHandler handles report upload, retrieval and re-analysis.
type ReportHandler struct {
	DB           *gorm.DB
	Acquirer     *pipeline.Acquirer
	Standardizer *pipeline.Standardizer
	Analyzer     *analysis.Orchestrator
	Config       *config.Config
	Log          zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(db *gorm.DB, acq *pipeline.Acquirer, std *pipeline.Standardizer, an *analysis.Orchestrator, cfg *config.Config, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{DB: db, Acquirer: acq, Standardizer: std, Analyzer: an, Config: cfg, Log: log}
}

// UploadReport ingests one multipart file, runs the full pipeline and
// persists the result. The report is created in "processing" state and
// finishes as "completed", or "completed_with_errors" when the analysis
// step had to fall back.
func (h *ReportHandler) UploadReport(c *gin.Context) {
	userID := c.PostForm("userId")
	if userID == "" {
		utils.BadRequest(c, "userId is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > int64(h.Config.MaxUploadMB)*1024*1024 {
		utils.BadRequest(c, "file exceeds the upload size limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerError(c, "Failed to read uploaded file: "+err.Error())
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		utils.InternalServerError(c, "Failed to read uploaded file: "+err.Error())
		return
	}

	file := report.UploadedFile{
		Name:     fileHeader.Filename,
		MIMEType: fileHeader.Header.Get("Content-Type"),
		Content:  content,
	}

	fileType := pipeline.DetectFileType(file.Name, file.MIMEType)
	if fileType == report.FileTypeUnknown {
		utils.BadRequest(c, "Unsupported file type")
		return
	}

	text := h.Acquirer.Acquire(c.Request.Context(), file, fileType)
	std := h.Standardizer.Standardize(pipeline.Input{
		FileName:   file.Name,
		Text:       text,
		ReportType: report.ReportType(c.PostForm("reportType")),
	})

	title := c.PostForm("title")
	if title == "" {
		title = file.Name
	}

	rec := models.MedicalReport{
		UserID:     userID,
		Type:       std.ReportType,
		Title:      title,
		Status:     models.StatusProcessing,
		FileName:   file.Name,
		FileType:   fileType,
		RawText:    std.RawText,
		Results:    models.ParameterList(std.Results),
		UploadDate: time.Now(),
	}
	if err := h.DB.Create(&rec).Error; err != nil {
		utils.InternalServerError(c, "Failed to save report: "+err.Error())
		return
	}

	result, degraded := h.Analyzer.Analyze(c.Request.Context(), std)
	rec.Analysis = &models.AnalysisColumn{ReportAnalysis: *result}
	rec.Status = models.StatusCompleted
	if degraded {
		rec.Status = models.StatusCompletedWithErrors
	}
	if err := h.DB.Model(&rec).Updates(map[string]interface{}{
		"analysis": rec.Analysis,
		"status":   rec.Status,
	}).Error; err != nil {
		utils.InternalServerError(c, "Failed to attach analysis: "+err.Error())
		return
	}

	utils.Created(c, "Report processed successfully", rec)
}

// GetReports lists a user's reports, newest first.
func (h *ReportHandler) GetReports(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.BadRequest(c, "userId is required")
		return
	}

	var reports []models.MedicalReport
	if err := h.DB.Where("user_id = ?", userID).Order("upload_date DESC").Find(&reports).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch reports: "+err.Error())
		return
	}
	utils.Success(c, "Reports fetched successfully", reports)
}

// GetReportByID fetches one report.
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	rec, ok := h.loadReport(c, c.Param("id"))
	if !ok {
		return
	}
	utils.Success(c, "Report fetched successfully", rec)
}

// DeleteReport removes a report permanently. Reports are only ever
// deleted by explicit user action.
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	rec, ok := h.loadReport(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.DB.Delete(rec).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete report: "+err.Error())
		return
	}
	utils.Success(c, "Report deleted successfully", nil)
}

// ReanalyzeReport regenerates the analysis for an existing report on
// explicit request, replacing the attached analysis.
func (h *ReportHandler) ReanalyzeReport(c *gin.Context) {
	rec, ok := h.loadReport(c, c.Param("id"))
	if !ok {
		return
	}

	std := standardizedFromModel(rec)
	result, degraded := h.Analyzer.Analyze(c.Request.Context(), std)
	rec.Analysis = &models.AnalysisColumn{ReportAnalysis: *result}
	rec.Status = models.StatusCompleted
	if degraded {
		rec.Status = models.StatusCompletedWithErrors
	}
	if err := h.DB.Model(rec).Updates(map[string]interface{}{
		"analysis": rec.Analysis,
		"status":   rec.Status,
	}).Error; err != nil {
		utils.InternalServerError(c, "Failed to update analysis: "+err.Error())
		return
	}
	utils.Success(c, "Report re-analyzed successfully", rec)
}

func (h *ReportHandler) loadReport(c *gin.Context, id string) (*models.MedicalReport, bool) {
	var rec models.MedicalReport
	if err := h.DB.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &rec, true
}

// standardizedFromModel rebuilds the pipeline output shape from a
// persisted report, for re-analysis and Q&A over stored data.
func standardizedFromModel(rec *models.MedicalReport) *report.StandardizedReport {
	return &report.StandardizedReport{
		ReportType:    rec.Type,
		Results:       []report.TestParameter(rec.Results),
		RawText:       rec.RawText,
		FileName:      rec.FileName,
		ExtractedDate: rec.UploadDate,
	}
}
