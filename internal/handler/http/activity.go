package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tweeter/internal/service"
)

// ActivityHandler 返回当前用户的操作记录
type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListMine 支持 ?limit=N，非法值按默认处理
func (h *ActivityHandler) ListMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	activities, err := h.activityService.ListMine(c.Request.Context(), actorFrom(c), limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	out := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, ActivityResponse{Verb: a.Verb, TargetID: a.TargetID, OccurredAt: a.OccurredAt})
	}
	SuccessResponse(c, http.StatusOK, out)
}
