package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medilab-server/internal/analysis"
	"medilab-server/internal/models"
	"medilab-server/internal/report"
	"medilab-server/internal/utils"
)

// InsightsHandler produces and persists derived artifacts from reports:
// personalized recommendations, health plans and parameter trends.
type InsightsHandler struct {
	DB       *gorm.DB
	Analyzer *analysis.Orchestrator
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(db *gorm.DB, an *analysis.Orchestrator) *InsightsHandler {
	return &InsightsHandler{DB: db, Analyzer: an}
}

// RecommendationsRequest is the request body for POST /recommendations.
// When ReportID is empty, the user's most recent report is used.
type RecommendationsRequest struct {
	UserID   string `json:"userId" binding:"required"`
	ReportID string `json:"reportId"`
}

// Recommendations generates personalized recommendations for a report
// and persists them. The attached analysis supplies the items when
// present; otherwise the deterministic fallback derives them from the
// report's abnormal parameters.
func (h *InsightsHandler) Recommendations(c *gin.Context) {
	var req RecommendationsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	rec, ok := h.findReport(c, req.UserID, req.ReportID)
	if !ok {
		return
	}

	items, source := recommendationItems(rec)
	row := models.Recommendation{
		UserID:   req.UserID,
		ReportID: rec.ID,
		Items:    models.StringList(items),
		Source:   source,
	}
	if err := h.DB.Create(&row).Error; err != nil {
		utils.InternalServerError(c, "Failed to save recommendations: "+err.Error())
		return
	}
	utils.Created(c, "Recommendations generated successfully", row)
}

// HealthPlanRequest is the request body for POST /health-plan.
type HealthPlanRequest struct {
	UserID string   `json:"userId" binding:"required"`
	Goals  []string `json:"goals" binding:"required,min=1"`
}

// HealthPlan builds a goal-driven plan from the user's latest report
// and persists it.
func (h *InsightsHandler) HealthPlan(c *gin.Context) {
	var req HealthPlanRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	rec, ok := h.findReport(c, req.UserID, "")
	if !ok {
		return
	}

	fallback := analysis.Fallback(rec.Type, []report.TestParameter(rec.Results))
	actions := make([]string, 0, len(req.Goals)+len(fallback.PersonalizedRecommendations))
	for _, goal := range req.Goals {
		actions = append(actions, fmt.Sprintf("Track progress toward: %s", goal))
	}
	actions = append(actions, fallback.PersonalizedRecommendations...)

	plan := models.HealthPlan{
		UserID:   req.UserID,
		ReportID: rec.ID,
		Goals:    models.StringList(req.Goals),
		Actions:  models.StringList(actions),
		Summary:  fallback.Summary,
	}
	if err := h.DB.Create(&plan).Error; err != nil {
		utils.InternalServerError(c, "Failed to save health plan: "+err.Error())
		return
	}
	utils.Created(c, "Health plan created successfully", plan)
}

// TrendPoint is one sample in a parameter's time series.
type TrendPoint struct {
	Date   time.Time     `json:"date"`
	Value  string        `json:"value"`
	Unit   string        `json:"unit,omitempty"`
	Status report.Status `json:"status"`
}

// Trends returns the time series of one named parameter across a user's
// reports, ordered by upload date.
func (h *InsightsHandler) Trends(c *gin.Context) {
	userID := c.Query("userId")
	paramName := c.Query("parameter")
	if userID == "" || paramName == "" {
		utils.BadRequest(c, "userId and parameter are required")
		return
	}

	var reports []models.MedicalReport
	if err := h.DB.Where("user_id = ?", userID).Order("upload_date ASC").Find(&reports).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch reports: "+err.Error())
		return
	}

	var points []TrendPoint
	for _, rec := range reports {
		for _, p := range rec.Results {
			if !strings.EqualFold(p.Name, paramName) || p.Value == "" {
				continue
			}
			points = append(points, TrendPoint{
				Date:   rec.UploadDate,
				Value:  p.Value,
				Unit:   p.Unit,
				Status: p.Status,
			})
			break
		}
	}
	utils.Success(c, "Trends fetched successfully", gin.H{
		"parameter": paramName,
		"points":    points,
	})
}

// findReport loads the requested report, or the user's newest one when
// id is empty.
func (h *InsightsHandler) findReport(c *gin.Context, userID, id string) (*models.MedicalReport, bool) {
	var rec models.MedicalReport
	q := h.DB.Where("user_id = ?", userID)
	if id != "" {
		q = q.Where("id = ?", id)
	}
	if err := q.Order("upload_date DESC").First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "No report found for this user")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &rec, true
}

// recommendationItems pulls items from the attached analysis when it
// has any, falling back to the deterministic generator.
func recommendationItems(rec *models.MedicalReport) ([]string, string) {
	if rec.Analysis != nil && len(rec.Analysis.PersonalizedRecommendations) > 0 {
		return rec.Analysis.PersonalizedRecommendations, "ai"
	}
	fb := analysis.Fallback(rec.Type, []report.TestParameter(rec.Results))
	items := append([]string{}, fb.Recommendations...)
	items = append(items, fb.PersonalizedRecommendations...)
	return items, "fallback"
}
