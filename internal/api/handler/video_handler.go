package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/reeltracker/worker/internal/api/dto"
	"github.com/reeltracker/worker/internal/pkg/es"
	"github.com/reeltracker/worker/internal/pkg/response"
)

type VideoHandler struct{}

func NewVideoHandler() *VideoHandler {
	return &VideoHandler{}
}

// Search runs a full-text query over indexed transcriptions and
// captions (C12). Returns an empty result set, not an error, if
// Elasticsearch is disabled.
func (h *VideoHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Fail(c, response.BadRequest, "missing query parameter q")
		return
	}

	hits, err := es.SearchTranscripts(c.Request.Context(), query, 20)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.VideoSearchHit, 0, len(hits))
	for _, hit := range hits {
		out = append(out, dto.VideoSearchHit{
			Shortcode:  hit.Shortcode,
			AccountID:  hit.AccountID,
			Username:   hit.Username,
			Caption:    hit.Caption,
			Transcript: hit.Transcript,
		})
	}
	response.Success(c, out)
}
