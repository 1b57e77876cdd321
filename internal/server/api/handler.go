package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/assetvault/internal/common"
	"github.com/dmitrijs2005/assetvault/internal/logging"
	"github.com/dmitrijs2005/assetvault/internal/server/models"
	"github.com/dmitrijs2005/assetvault/internal/server/services"
)

// Response messages.
const (
	MsgPresigned        = "Presign urls generated successfully"
	MsgDeleted          = "Files deleted successfully"
	ErrMsgNotConfigured = "Object storage not configured"
	ErrMsgPresign       = "Failed to generate presigned URLs"
	ErrMsgDelete        = "Failed to delete files"
	ErrMsgDownload      = "Failed to get file url"
	ErrMsgNotFound      = "File not found"
)

// AssetService is what the handlers need from services.AssetService.
type AssetService interface {
	Presign(ctx context.Context, userID string, reqs []models.UploadRequest) ([]models.PresignedGrant, error)
	Delete(ctx context.Context, key string) error
	DownloadURL(ctx context.Context, key string) (string, error)
}

// PresignData is the data payload of a successful presign response.
type PresignData struct {
	URLs []models.PresignedGrant `json:"urls"`
}

type handler struct {
	assets AssetService
	logger logging.Logger
}

func (h *handler) presign(c *gin.Context) {
	ctx := c.Request.Context()

	var reqs []models.UploadRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid field(s): body"})
		return
	}

	userID := ""
	if id := identityFrom(c); id != nil {
		userID = id.UserID
	}

	grants, err := h.assets.Presign(ctx, userID, reqs)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"err": ve.Error()})
		case errors.Is(err, common.ErrNotConfigured):
			c.JSON(http.StatusOK, gin.H{"err": ErrMsgNotConfigured})
		default:
			h.logger.Error(ctx, "Error generating presigned URLs", "error", err)
			c.JSON(http.StatusOK, gin.H{"err": ErrMsgPresign})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":  MsgPresigned,
		"data": PresignData{URLs: grants},
	})
}

func (h *handler) delete(c *gin.Context) {
	ctx := c.Request.Context()

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid field(s): body"})
		return
	}
	key, ok := body["key"].(string)
	if !ok || key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid field(s): key"})
		return
	}

	if err := h.assets.Delete(ctx, key); err != nil {
		if errors.Is(err, common.ErrNotConfigured) {
			c.JSON(http.StatusOK, gin.H{"err": ErrMsgNotConfigured})
			return
		}
		h.logger.Error(ctx, "Error deleting files", "key", key, "error", err)
		c.JSON(http.StatusOK, gin.H{"err": ErrMsgDelete})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": MsgDeleted})
}

func (h *handler) downloadURL(c *gin.Context) {
	ctx := c.Request.Context()

	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid field(s): key"})
		return
	}

	u, err := h.assets.DownloadURL(ctx, key)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"url": u}})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": ErrMsgNotFound})
	case errors.Is(err, common.ErrNotConfigured):
		c.JSON(http.StatusOK, gin.H{"err": ErrMsgNotConfigured})
	default:
		h.logger.Error(ctx, "Error getting file url", "key", key, "error", err)
		c.JSON(http.StatusOK, gin.H{"err": ErrMsgDownload})
	}
}
