package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reeltracker/worker/internal/model"
)

type AccountRepo interface {
	UpsertAccount(ctx context.Context, account *model.Account) error
	SeedAccount(ctx context.Context, account *model.Account) error
	ListAccounts(ctx context.Context) ([]*model.Account, error)
	GetAccountByID(ctx context.Context, id uint64) (*model.Account, error)
	UpdateFollowersCount(ctx context.Context, id uint64, followers uint64) error
}

type accountRepoImpl struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepo {
	return &accountRepoImpl{db: db}
}

// UpsertAccount inserts on (id) conflict updates only the mutable
// fields; username is immutable from the system's view once seeded.
func (r *accountRepoImpl) UpsertAccount(ctx context.Context, account *model.Account) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"profile_url", "followers_count", "updated_at"}),
	}).Create(account)
	if result.Error != nil {
		return newStoreError("UpsertAccount", Transient, result.Error)
	}
	return nil
}

// SeedAccount inserts a new tracked account, silently skipping one
// that already exists. Unlike UpsertAccount, it never overwrites an
// existing row: a re-seed of an already-discovered account must not
// clobber real profile_url/followers_count back to seed-time zero
// values.
func (r *accountRepoImpl) SeedAccount(ctx context.Context, account *model.Account) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(account)
	if result.Error != nil {
		return newStoreError("SeedAccount", Transient, result.Error)
	}
	return nil
}

// ListAccounts returns every tracked account ordered by username, the
// order the discover job walks them in.
func (r *accountRepoImpl) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	accounts := make([]*model.Account, 0)
	result := r.db.WithContext(ctx).Order("username ASC").Find(&accounts)
	if result.Error != nil {
		return nil, newStoreError("ListAccounts", Transient, result.Error)
	}
	return accounts, nil
}

func (r *accountRepoImpl) GetAccountByID(ctx context.Context, id uint64) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newStoreError("GetAccountByID", NotFound, err)
		}
		return nil, newStoreError("GetAccountByID", Transient, err)
	}
	return &account, nil
}

func (r *accountRepoImpl) UpdateFollowersCount(ctx context.Context, id uint64, followers uint64) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Update("followers_count", followers)
	if result.Error != nil {
		return newStoreError("UpdateFollowersCount", Transient, result.Error)
	}
	return nil
}
