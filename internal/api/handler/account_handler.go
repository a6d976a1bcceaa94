package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/reeltracker/worker/internal/api/dto"
	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/pkg/mongo"
	"github.com/reeltracker/worker/internal/pkg/response"
	"github.com/reeltracker/worker/internal/repository"
	"github.com/reeltracker/worker/internal/upstream"
)

const defaultRawPayloadLimit = 20

type AccountHandler struct {
	accounts repository.AccountRepo
	videos   repository.VideoRepo
	metrics  repository.MetricRepo
	mongoDB  *mongodriver.Database
	upstream *upstream.Client
}

func NewAccountHandler(accounts repository.AccountRepo, videos repository.VideoRepo, metrics repository.MetricRepo, mongoDB *mongodriver.Database, upstreamClient *upstream.Client) *AccountHandler {
	return &AccountHandler{accounts: accounts, videos: videos, metrics: metrics, mongoDB: mongoDB, upstream: upstreamClient}
}

// ListAccounts returns every tracked account with its video count.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		count, err := h.videos.CountVideosByAccount(c.Request.Context(), a.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		out = append(out, dto.AccountResponse{
			ID:             a.ID,
			Username:       a.Username,
			ProfileURL:     a.ProfileURL,
			FollowersCount: a.FollowersCount,
			VideoCount:     count,
			CreatedAt:      a.CreatedAt,
		})
	}
	response.Success(c, out)
}

// ListAccountVideos returns recent videos for one account, most recent
// first, each with its latest metric row attached.
func (h *AccountHandler) ListAccountVideos(c *gin.Context) {
	idParam := c.Param("id")
	accountID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, "invalid account id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	videos, err := h.videos.ListVideosByAccount(c.Request.Context(), accountID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, h.attachLatestMetrics(c.Request.Context(), videos))
}

// attachLatestMetrics resolves each video's most recent metric row.
// Videos not yet sampled by dispatch-due simply carry a nil metric.
func (h *AccountHandler) attachLatestMetrics(ctx context.Context, videos []*model.Video) []dto.VideoResponse {
	out := make([]dto.VideoResponse, 0, len(videos))
	for _, v := range videos {
		var resp dto.VideoResponse
		_ = copier.Copy(&resp, v)
		resp.HasTranscript = v.Transcription != nil

		if metric, err := h.metrics.LatestMetricForVideo(ctx, v.ID); err == nil && metric != nil {
			var metricResp dto.MetricResponse
			_ = copier.Copy(&metricResp, metric)
			resp.LatestMetric = &metricResp
		}
		out = append(out, resp)
	}
	return out
}

// RecentRawPayloads returns an account's most recently archived raw
// upstream responses (C14), for diagnosing a discrepancy the typed
// Store columns can't explain. Empty, not an error, when the Mongo
// archive integration is disabled.
func (h *AccountHandler) RecentRawPayloads(c *gin.Context) {
	idParam := c.Param("id")
	accountID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, "invalid account id")
		return
	}

	payloads, err := mongo.RecentPayloadsForAccount(c.Request.Context(), h.mongoDB, accountID, defaultRawPayloadLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.RawPayloadResponse, 0, len(payloads))
	for _, p := range payloads {
		var resp dto.RawPayloadResponse
		_ = copier.Copy(&resp, p)
		out = append(out, resp)
	}
	response.Success(c, out)
}

// SeedAccounts bulk-inserts accounts from a bare JSON array of
// {username, user_pk} records, skipping any that already exist.
// user_pk is optional per record: a record that omits it is resolved
// against the Upstream Client by username, and only records that
// remain unresolved are rejected.
func (h *AccountHandler) SeedAccounts(c *gin.Context) {
	var items []dto.SeedAccountItem
	if err := c.ShouldBindJSON(&items); err != nil {
		response.Fail(c, response.BadRequest, "invalid seed payload")
		return
	}

	ctx := c.Request.Context()
	seeded := 0
	rejected := make([]string, 0)

	for _, item := range items {
		userPK, ok := h.resolveUserPK(ctx, item)
		if !ok {
			rejected = append(rejected, item.Username)
			continue
		}

		account := &model.Account{
			ID:       userPK,
			Username: item.Username,
		}
		if err := h.accounts.SeedAccount(ctx, account); err != nil {
			response.Error(c, err)
			return
		}
		seeded++
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     response.Ok,
		"message":  "success",
		"seeded":   seeded,
		"rejected": rejected,
	})
}

// resolveUserPK returns item's numeric user key, resolving it from
// Username via the Upstream Client when the record omits it. Returns
// ok=false when the key remains unresolved and the record must be
// rejected.
func (h *AccountHandler) resolveUserPK(ctx context.Context, item dto.SeedAccountItem) (uint64, bool) {
	if item.UserPK != nil {
		return *item.UserPK, true
	}
	if h.upstream == nil {
		return 0, false
	}

	userPK, err := h.upstream.ResolveUsername(ctx, item.Username)
	if err != nil {
		return 0, false
	}
	return userPK, true
}
