package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/moonlabs/moon-agent-backend/internal/domain"
	"github.com/moonlabs/moon-agent-backend/internal/services"
)

const (
	defaultReportLimit = 7
	maxReportLimit     = 50
)

type ReportHandler struct {
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// POST /trigger-report
// Runs one assembly cycle synchronously. If a scheduled run is executing the
// call queues behind it rather than racing it.
func (h *ReportHandler) TriggerReport(c *gin.Context) {
	report, err := h.reports.GenerateDaily(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "report_generation_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"message":   "Report generation triggered successfully",
		"report_id": report.ID,
	})
}

type reportView struct {
	ID          int64                 `json:"id"`
	ReportDate  string                `json:"report_date"`
	ReportType  string                `json:"report_type"`
	GeneratedAt time.Time             `json:"generated_at"`
	Sections    *types.ReportSections `json:"sections"`
}

// GET /reports/:type?limit=7
// Most recent documents of a type, newest first, sections decoded.
func (h *ReportHandler) GetReports(c *gin.Context) {
	reportType := c.Param("type")

	limit := defaultReportLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > maxReportLimit {
		limit = maxReportLimit
	}

	rows, err := h.reports.Latest(c.Request.Context(), reportType, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "report_query_failed", err)
		return
	}

	out := make([]reportView, 0, len(rows))
	for _, row := range rows {
		sections, err := types.DecodeSections(row.Data)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "report_decode_failed", fmt.Errorf("report %d: %w", row.ID, err))
			return
		}
		out = append(out, reportView{
			ID:          row.ID,
			ReportDate:  row.ReportDate.Format("2006-01-02"),
			ReportType:  row.ReportType,
			GeneratedAt: row.GeneratedAt,
			Sections:    sections,
		})
	}
	RespondOK(c, gin.H{"reports": out})
}
