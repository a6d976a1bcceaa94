package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/reeltracker/worker/internal/model"
)

func TestUpsertHeartbeat_ConflictsOnWorkerName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHeartbeatRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO .worker_heartbeats.`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.UpsertHeartbeat(context.Background(), "unified-scheduler", 123, model.HeartbeatStatusRunning)
	if err != nil {
		t.Fatalf("UpsertHeartbeat returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestGetHeartbeat_ReturnsNilWithoutErrorWhenAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHeartbeatRepo(db)

	mock.ExpectQuery(`SELECT \* FROM .worker_heartbeats. WHERE worker_name = \?`).
		WithArgs("unified-scheduler").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	heartbeat, err := repo.GetHeartbeat(context.Background(), "unified-scheduler")
	if err != nil {
		t.Fatalf("GetHeartbeat returned error: %v", err)
	}
	if heartbeat != nil {
		t.Errorf("expected nil heartbeat when absent, got %+v", heartbeat)
	}
}
