package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Itish41/InnovationTracker/models"
	services "github.com/Itish41/InnovationTracker/service"
	"github.com/gin-gonic/gin"
)

type linkRequest struct {
	ExternalURL     string `json:"external_url" form:"external_url" validate:"required,url"`
	StorageProvider string `json:"storage_provider" form:"storage_provider" validate:"max=20"`
	Filename        string `json:"filename" form:"filename" validate:"max=255"`
}

// GetAttachments handles GET /api/initiatives/:id/attachments.
func (ctl *InitiativeController) GetAttachments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	attachments, err := ctl.attachments.List(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, err, "fetch attachments")
		return
	}
	if attachments == nil {
		attachments = []models.Attachment{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(attachments),
		"attachments": attachments,
	})
}

// CreateAttachment handles POST /api/initiatives/:id/attachments. A multipart
// "file" is stored; otherwise external_url is recorded as a link.
func (ctl *InitiativeController) CreateAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var (
		attachment *models.Attachment
		err        error
	)
	isMultipart := strings.HasPrefix(c.ContentType(), "multipart/form-data")

	if isMultipart {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctl.attachments.MaxBytes()+(1<<20))
		header, ferr := c.FormFile("file")
		switch {
		case ferr == nil:
			file, oerr := header.Open()
			if oerr != nil {
				badRequest(c, "Failed to read uploaded file")
				return
			}
			defer file.Close()

			attachment, err = ctl.attachments.Upload(c.Request.Context(), id, services.FileUpload{
				Filename: header.Filename,
				MimeType: header.Header.Get("Content-Type"),
				Size:     header.Size,
				Body:     file,
			}, ctl.actorID(c))
		case errors.Is(ferr, http.ErrMissingFile):
			attachment, ok = ctl.addLink(c, id, true)
			if !ok {
				return
			}
		default:
			var maxErr *http.MaxBytesError
			if errors.As(ferr, &maxErr) {
				ctl.respondError(c, services.ErrFileTooLarge, "upload attachment")
				return
			}
			badRequest(c, "Upload error: "+ferr.Error())
			return
		}
	} else {
		attachment, ok = ctl.addLink(c, id, false)
		if !ok {
			return
		}
	}
	if err != nil {
		ctl.respondError(c, err, "upload attachment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Attachment uploaded successfully",
		"attachment": attachment,
	})
}

// addLink binds and stores an external link. It writes the response itself
// on failure.
func (ctl *InitiativeController) addLink(c *gin.Context, id uint, fromForm bool) (*models.Attachment, bool) {
	var req linkRequest
	if fromForm {
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "Invalid request body: "+err.Error())
			return nil, false
		}
	} else if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req) {
			return nil, false
		}
	}
	req.ExternalURL = strings.TrimSpace(req.ExternalURL)
	if req.ExternalURL == "" {
		ctl.respondError(c, services.ErrAttachmentSource, "upload attachment")
		return nil, false
	}
	if !validateRequest(c, &req) {
		return nil, false
	}

	attachment, err := ctl.attachments.AddLink(c.Request.Context(), id, services.LinkInput{
		URL:             req.ExternalURL,
		StorageProvider: req.StorageProvider,
		Filename:        req.Filename,
	}, ctl.actorID(c))
	if err != nil {
		ctl.respondError(c, err, "upload attachment")
		return nil, false
	}
	return attachment, true
}

// DeleteAttachment handles DELETE /api/initiatives/:id/attachments/:attachmentId.
func (ctl *InitiativeController) DeleteAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseID(c, "attachmentId")
	if !ok {
		return
	}

	if err := ctl.attachments.Delete(c.Request.Context(), id, attachmentID); err != nil {
		ctl.respondError(c, err, "delete attachment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Attachment deleted successfully",
	})
}
