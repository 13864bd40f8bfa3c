package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/moonlabs/moon-agent-backend/internal/pkg/errors"
	"github.com/moonlabs/moon-agent-backend/internal/services"
)

type TargetHandler struct {
	targets services.TargetCheckService
}

func NewTargetHandler(targets services.TargetCheckService) *TargetHandler {
	return &TargetHandler{targets: targets}
}

// GET /performance/targets/:agent_id
func (h *TargetHandler) CheckAgent(c *gin.Context) {
	agentID, err := strconv.ParseInt(c.Param("agent_id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_agent_id", fmt.Errorf("agent_id must be an integer"))
		return
	}

	status, err := h.targets.CheckAgent(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "preferences_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "target_check_failed", err)
		return
	}
	RespondOK(c, status)
}
