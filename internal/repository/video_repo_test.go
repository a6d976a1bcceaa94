package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/reeltracker/worker/internal/model"
)

func TestGetVideoByID_NotFoundIsClassified(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepo(db)

	mock.ExpectQuery(`SELECT \* FROM .videos. WHERE \(id = \?\)`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetVideoByID(context.Background(), 42)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound classification, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUpsertVideo_ConflictsOnVideoIDAndDoesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepo(db)

	published := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO .videos.`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), uint64(500), "abc123", sqlmock.AnyArg(), published, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	video := &model.Video{VideoID: 500, Shortcode: "abc123", PublishedAt: published}
	if err := repo.UpsertVideo(context.Background(), video); err != nil {
		t.Fatalf("UpsertVideo returned error: %v", err)
	}
}

func TestCountVideosByAccount_ReturnsCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepo(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM .videos. WHERE account_id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountVideosByAccount(context.Background(), 7)
	if err != nil {
		t.Fatalf("CountVideosByAccount returned error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestFillEnrichment_OmitsNilFieldsFromUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepo(db)

	transcript := "hello world"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE .videos. SET .*transcription.*WHERE id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.FillEnrichment(context.Background(), 9, nil, &transcript); err != nil {
		t.Fatalf("FillEnrichment returned error: %v", err)
	}
}
