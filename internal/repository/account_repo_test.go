package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/reeltracker/worker/internal/model"
)

func TestUpsertAccount_ConflictUpdatesMutableFieldsOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO .accounts.*ON DUPLICATE KEY UPDATE`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.UpsertAccount(context.Background(), &model.Account{
		ID:       42,
		Username: "a",
	})
	if err != nil {
		t.Fatalf("UpsertAccount returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestSeedAccount_ConflictDoesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO .accounts.*ON DUPLICATE KEY UPDATE .id. = .id.`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.SeedAccount(context.Background(), &model.Account{
		ID:       42,
		Username: "a",
	})
	if err != nil {
		t.Fatalf("SeedAccount returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestListAccounts_OrdersByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepo(db)

	mock.ExpectQuery(`SELECT \* FROM .accounts. ORDER BY username ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(1, "a").
			AddRow(2, "b"))

	accounts, err := repo.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts returned error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}
