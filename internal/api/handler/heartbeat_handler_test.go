package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/repository"
)

type fakeHeartbeatRepo struct {
	repository.HeartbeatRepo
	heartbeat *model.WorkerHeartbeat
}

func (f *fakeHeartbeatRepo) GetHeartbeat(ctx context.Context, name string) (*model.WorkerHeartbeat, error) {
	return f.heartbeat, nil
}

func TestHeartbeatHandler_Status_StaleWhenOverdue(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &fakeHeartbeatRepo{heartbeat: &model.WorkerHeartbeat{
		WorkerName:    "unified-scheduler",
		LastHeartbeat: time.Now().Add(-30 * time.Minute),
		Status:        model.HeartbeatStatusRunning,
		PID:           123,
	}}
	h := NewHeartbeatHandler(repo, time.Minute)

	r := gin.New()
	r.GET("/api/worker/status", h.Status)

	req := httptest.NewRequest(http.MethodGet, "/api/worker/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Status != "stale" {
		t.Errorf("expected stale status, got %s", body.Data.Status)
	}
}

func TestHeartbeatHandler_Status_RunningWithinWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &fakeHeartbeatRepo{heartbeat: &model.WorkerHeartbeat{
		WorkerName:    "unified-scheduler",
		LastHeartbeat: time.Now(),
		Status:        model.HeartbeatStatusRunning,
		PID:           123,
	}}
	h := NewHeartbeatHandler(repo, time.Minute)

	r := gin.New()
	r.GET("/api/worker/status", h.Status)

	req := httptest.NewRequest(http.MethodGet, "/api/worker/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Status != "running" {
		t.Errorf("expected running status, got %s", body.Data.Status)
	}
}
