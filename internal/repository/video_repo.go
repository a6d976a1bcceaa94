package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reeltracker/worker/internal/model"
)

type VideoRepo interface {
	GetVideoByID(ctx context.Context, id uint64) (*model.Video, error)
	GetVideoByShortcode(ctx context.Context, shortcode string) (*model.Video, error)
	UpsertVideo(ctx context.Context, video *model.Video) error
	ListVideosByAccount(ctx context.Context, accountID uint64, limit int) ([]*model.Video, error)
	CountVideosByAccount(ctx context.Context, accountID uint64) (int64, error)
	IterateAll(ctx context.Context, fn func(*model.Video) error) error
	FillEnrichment(ctx context.Context, videoID uint64, audioFilePath *string, transcription *string) error
}

type videoRepoImpl struct {
	db *gorm.DB
}

func NewVideoRepo(db *gorm.DB) VideoRepo {
	return &videoRepoImpl{db: db}
}

func (r *videoRepoImpl) GetVideoByID(ctx context.Context, id uint64) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newStoreError("GetVideoByID", NotFound, err)
		}
		return nil, newStoreError("GetVideoByID", Transient, err)
	}
	return &video, nil
}

func (r *videoRepoImpl) GetVideoByShortcode(ctx context.Context, shortcode string) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Where("shortcode = ?", shortcode).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newStoreError("GetVideoByShortcode", NotFound, err)
		}
		return nil, newStoreError("GetVideoByShortcode", Transient, err)
	}
	return &video, nil
}

// UpsertVideo conflicts on (video_id): a conflicting insert does
// nothing, so immutable fields (shortcode, account_id, published_at)
// are left untouched,
// and enrichment fields are only ever set by FillEnrichment once a
// row already exists — this insert path fills them at creation time
// only.
func (r *videoRepoImpl) UpsertVideo(ctx context.Context, video *model.Video) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}},
		DoNothing: true,
	}).Create(video)
	if result.Error != nil {
		return newStoreError("UpsertVideo", Transient, result.Error)
	}
	return nil
}

func (r *videoRepoImpl) ListVideosByAccount(ctx context.Context, accountID uint64, limit int) ([]*model.Video, error) {
	videos := make([]*model.Video, 0)
	result := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("published_at DESC").
		Limit(limit).
		Find(&videos)
	if result.Error != nil {
		return nil, newStoreError("ListVideosByAccount", Transient, result.Error)
	}
	return videos, nil
}

func (r *videoRepoImpl) CountVideosByAccount(ctx context.Context, accountID uint64) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Video{}).
		Where("account_id = ?", accountID).
		Count(&count)
	if result.Error != nil {
		return 0, newStoreError("CountVideosByAccount", Transient, result.Error)
	}
	return count, nil
}

// IterateAll walks every video in batches, calling fn for each. Used
// by the reschedule job, which must visit every video without loading
// the whole table into memory at once.
func (r *videoRepoImpl) IterateAll(ctx context.Context, fn func(*model.Video) error) error {
	var videos []model.Video
	var batchErr error

	result := r.db.WithContext(ctx).FindInBatches(&videos, 200, func(tx *gorm.DB, batch int) error {
		for i := range videos {
			if err := fn(&videos[i]); err != nil {
				batchErr = err
				return err
			}
		}
		return nil
	})
	if result.Error != nil {
		return newStoreError("IterateAll", Transient, result.Error)
	}
	return batchErr
}

// FillEnrichment fills the nullable enrichment columns only if they
// are currently null, so a retried enrichment never clobbers a prior
// success.
func (r *videoRepoImpl) FillEnrichment(ctx context.Context, videoID uint64, audioFilePath *string, transcription *string) error {
	updates := map[string]any{"updated_at": time.Now()}
	if audioFilePath != nil {
		updates["audio_file_path"] = gorm.Expr("COALESCE(audio_file_path, ?)", *audioFilePath)
	}
	if transcription != nil {
		updates["transcription"] = gorm.Expr("COALESCE(transcription, ?)", *transcription)
	}

	result := r.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		Updates(updates)
	if result.Error != nil {
		return newStoreError("FillEnrichment", Transient, result.Error)
	}
	return nil
}
