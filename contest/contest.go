package contest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"photo-contest-backend/imagehost"
	"photo-contest-backend/live"
	"photo-contest-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	dbTimeout     = 5 * time.Second
	uploadTimeout = 60 * time.Second

	// Pages advance by a fixed stride of two documents, whatever the size.
	pageStride = 2
)

type Handler struct {
	contests Store
	uploader imagehost.Uploader
	events   Publisher
}

func NewHandler(contests Store, uploader imagehost.Uploader, events Publisher) *Handler {
	return &Handler{
		contests: contests,
		uploader: uploader,
		events:   events,
	}
}

// HandleCreateContest uploads the cover image and stores the submitted form
// fields with its URL.
func (h *Handler) HandleCreateContest(c *gin.Context) {
	path, cleanup, err := utils.SaveTempUpload(c, "image")
	defer cleanup()
	if err != nil {
		if errors.Is(err, utils.ErrMissingFile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
			return
		}
		log.Error().Err(err).Msg("Failed to buffer contest image")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read image"})
		return
	}

	fields, err := utils.FormFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	uploadCtx, cancelUpload := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancelUpload()
	imageURL, err := h.uploader.Upload(uploadCtx, path)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upload contest image")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not upload image"})
		return
	}

	contest := bson.M(fields)
	contest["image"] = imageURL

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()
	result, err := h.contests.Insert(ctx, contest)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create contest")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create contest"})
		return
	}

	contestID := idString(result.InsertedID)
	log.Info().Str("contest_id", contestID).Msg("Contest created")
	h.events.Publish(live.Event{Type: live.EventContestCreated, ContestID: contestID})

	c.JSON(http.StatusOK, result)
}

// HandleListContests returns contests with the estimated total. When page is
// set the listing skips page*2 documents and returns at most size of them.
func (h *Handler) HandleListContests(c *gin.Context) {
	var skip, limit int64
	if pageStr := c.Query("page"); pageStr != "" {
		var page int64
		if _, err := fmt.Sscanf(pageStr, "%d", &page); err != nil || page < 0 || page > math.MaxInt64/pageStride {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter"})
			return
		}
		skip = page * pageStride

		if sizeStr := c.Query("size"); sizeStr != "" {
			if _, err := fmt.Sscanf(sizeStr, "%d", &limit); err != nil {
				limit = 0
			} else if limit < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size parameter"})
				return
			}
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	contests, err := h.contests.List(ctx, skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list contests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve contests"})
		return
	}

	count, err := h.contests.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count contests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count contests"})
		return
	}

	c.JSON(http.StatusOK, PaginatedContestResponse{
		Count:  count,
		Result: contests,
	})
}

func (h *Handler) HandleGetAllContests(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	contests, err := h.contests.List(ctx, 0, 0)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list contests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve contests"})
		return
	}

	c.JSON(http.StatusOK, contests)
}

// HandleGetContest responds with the contest, or null when it does not exist.
func (h *Handler) HandleGetContest(c *gin.Context) {
	contestID, err := utils.StringToObjectId(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contest ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	contest, err := h.contests.FindByID(ctx, contestID)
	if err != nil {
		log.Error().Err(err).Str("contest_id", contestID.Hex()).Msg("Failed to find contest")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve contest"})
		return
	}

	c.JSON(http.StatusOK, contest)
}

// HandleDeleteContest removes the contest. Its entries are kept.
func (h *Handler) HandleDeleteContest(c *gin.Context) {
	contestID, err := utils.StringToObjectId(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contest ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	result, err := h.contests.Delete(ctx, contestID)
	if err != nil {
		log.Error().Err(err).Str("contest_id", contestID.Hex()).Msg("Failed to delete contest")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete contest"})
		return
	}

	if result.DeletedCount > 0 {
		log.Info().Str("contest_id", contestID.Hex()).Msg("Contest deleted")
		h.events.Publish(live.Event{Type: live.EventContestDeleted, ContestID: contestID.Hex()})
	}

	c.JSON(http.StatusOK, result)
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
