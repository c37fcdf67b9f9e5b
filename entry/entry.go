package entry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"photo-contest-backend/imagehost"
	"photo-contest-backend/live"
	"photo-contest-backend/models"
	"photo-contest-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	dbTimeout     = 5 * time.Second
	uploadTimeout = 60 * time.Second
)

type Handler struct {
	entries  Store
	uploader imagehost.Uploader
	events   Publisher
}

func NewHandler(entries Store, uploader imagehost.Uploader, events Publisher) *Handler {
	return &Handler{
		entries:  entries,
		uploader: uploader,
		events:   events,
	}
}

// HandleUploadEntry stores a user's photo submission for a contest. The
// contest id is not checked against the contest collection.
func (h *Handler) HandleUploadEntry(c *gin.Context) {
	contestID := c.Param("id")
	email := c.Param("email")

	path, cleanup, err := utils.SaveTempUpload(c, "image")
	defer cleanup()
	if err != nil {
		if errors.Is(err, utils.ErrMissingFile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
			return
		}
		log.Error().Err(err).Msg("Failed to buffer entry image")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read image"})
		return
	}

	uploadCtx, cancelUpload := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancelUpload()
	imageURL, err := h.uploader.Upload(uploadCtx, path)
	if err != nil {
		log.Error().Err(err).Str("contest_id", contestID).Msg("Failed to upload entry image")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not upload image"})
		return
	}

	entry := models.NewEntry(contestID, email, imageURL)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()
	result, err := h.entries.Insert(ctx, entry)
	if err != nil {
		log.Error().Err(err).Str("contest_id", contestID).Msg("Failed to create entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create entry"})
		return
	}

	log.Info().Str("contest_id", contestID).Str("email", email).Msg("Entry submitted")
	h.events.Publish(live.Event{
		Type:      live.EventEntrySubmitted,
		ContestID: contestID,
		EntryID:   entry.ID.Hex(),
		Email:     email,
	})

	c.JSON(http.StatusOK, result)
}

func (h *Handler) HandleGetContestEntries(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	entries, err := h.entries.ListByContest(ctx, c.Param("id"))
	if err != nil {
		log.Error().Err(err).Str("contest_id", c.Param("id")).Msg("Failed to list entries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *Handler) HandleGetEntries(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	entries, err := h.entries.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list entries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// HandleGetUserEntry returns the user's first entry in the contest, or
// {"userEmail": null} when there is none.
func (h *Handler) HandleGetUserEntry(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	entry, err := h.entries.FindForUser(ctx, c.Param("id"), c.Param("email"))
	if err != nil {
		log.Error().Err(err).Str("contest_id", c.Param("id")).Msg("Failed to find entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve entry"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"userEmail": nil})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// HandleVote appends the voter's email to the entry's vote list. Repeat votes
// are recorded again.
func (h *Handler) HandleVote(c *gin.Context) {
	entryID, err := utils.StringToObjectId(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	result, err := h.entries.PushVote(ctx, entryID, req.Email)
	if err != nil {
		log.Error().Err(err).Str("entry_id", entryID.Hex()).Msg("Failed to record vote")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record vote"})
		return
	}

	h.events.Publish(live.Event{Type: live.EventVoteCast, EntryID: entryID.Hex(), Email: req.Email})

	c.JSON(http.StatusOK, result)
}
