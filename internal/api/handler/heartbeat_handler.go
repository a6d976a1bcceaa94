package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reeltracker/worker/internal/api/dto"
	"github.com/reeltracker/worker/internal/pkg/consts"
	"github.com/reeltracker/worker/internal/pkg/response"
	"github.com/reeltracker/worker/internal/repository"
)

type HeartbeatHandler struct {
	heartbeats       repository.HeartbeatRepo
	heartbeatInterval time.Duration
}

func NewHeartbeatHandler(heartbeats repository.HeartbeatRepo, heartbeatInterval time.Duration) *HeartbeatHandler {
	return &HeartbeatHandler{heartbeats: heartbeats, heartbeatInterval: heartbeatInterval}
}

// Status derives worker liveness from the last heartbeat write:
// running within 2x the heartbeat interval, stale beyond that but
// still marked running, stopped if graceful shutdown set it so.
func (h *HeartbeatHandler) Status(c *gin.Context) {
	heartbeat, err := h.heartbeats.GetHeartbeat(c.Request.Context(), consts.HeartbeatWorkerName)
	if err != nil {
		response.Error(c, err)
		return
	}
	if heartbeat == nil {
		response.Fail(c, response.NotFound, "no heartbeat recorded yet")
		return
	}

	status := dto.WorkerStatusRunning
	switch {
	case string(heartbeat.Status) == "stopped":
		status = dto.WorkerStatusStopped
	case time.Since(heartbeat.LastHeartbeat) > 2*h.heartbeatInterval:
		status = dto.WorkerStatusStale
	}

	response.Success(c, dto.HeartbeatResponse{
		WorkerName:    heartbeat.WorkerName,
		Status:        status,
		LastHeartbeat: heartbeat.LastHeartbeat,
		PID:           heartbeat.PID,
	})
}
