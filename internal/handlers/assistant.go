package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medilab-server/internal/analysis"
	"medilab-server/internal/models"
	"medilab-server/internal/report"
	"medilab-server/internal/utils"
)

// AssistantHandler answers free-text questions about reports, for the
// Q&A and voice endpoints.
type AssistantHandler struct {
	DB       *gorm.DB
	Analyzer *analysis.Orchestrator
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(db *gorm.DB, an *analysis.Orchestrator) *AssistantHandler {
	return &AssistantHandler{DB: db, Analyzer: an}
}

// AskRequest is the request body for POST /ai.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
	ReportID string `json:"reportId"`
}

// Ask answers a question, optionally grounded in one stored report.
// The answer is always produced; collaborator failures fall back to a
// deterministic reply.
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req AskRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	h.answer(c, req.Question, req.ReportID)
}

// VoiceRequest is the request body for POST /voice. The transcript is
// treated as the question text.
type VoiceRequest struct {
	Transcript string `json:"transcript" binding:"required"`
	ReportID   string `json:"reportId"`
}

// Voice answers a transcribed spoken question through the same path as
// Ask.
func (h *AssistantHandler) Voice(c *gin.Context) {
	var req VoiceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	h.answer(c, req.Transcript, req.ReportID)
}

func (h *AssistantHandler) answer(c *gin.Context, question, reportID string) {
	var std *report.StandardizedReport
	if reportID != "" {
		var rec models.MedicalReport
		if err := h.DB.Where("id = ?", reportID).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFound(c, "Report not found")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return
		}
		std = standardizedFromModel(&rec)
	}

	answer := h.Analyzer.Answer(c.Request.Context(), question, std)
	utils.Success(c, "Question answered", gin.H{"answer": answer})
}
