package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/Itish41/InnovationTracker/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultMaxUploadBytes is the upload limit when none is configured.
const DefaultMaxUploadBytes int64 = 50 << 20

var allowedMimeTypes = map[string]models.AttachmentType{
	"image/jpeg": models.AttachmentImage,
	"image/jpg":  models.AttachmentImage,
	"image/png":  models.AttachmentImage,
	"image/gif":  models.AttachmentImage,
	"image/webp": models.AttachmentImage,

	"video/mp4":       models.AttachmentVideo,
	"video/mpeg":      models.AttachmentVideo,
	"video/quicktime": models.AttachmentVideo,
	"video/x-msvideo": models.AttachmentVideo,
	"video/webm":      models.AttachmentVideo,

	"application/pdf":    models.AttachmentDocument,
	"application/msword": models.AttachmentDocument,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   models.AttachmentDocument,
	"application/vnd.ms-excel":                                                  models.AttachmentDocument,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         models.AttachmentDocument,
	"application/vnd.ms-powerpoint":                                             models.AttachmentDocument,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": models.AttachmentDocument,
	"text/plain": models.AttachmentDocument,
}

// AttachmentTypeFor maps an allowed mime type to its attachment type.
func AttachmentTypeFor(mimeType string) (models.AttachmentType, error) {
	base := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	t, ok := allowedMimeTypes[base]
	if !ok {
		return "", fmt.Errorf("%w: %s. Allowed types: images, videos, PDF, Office documents, and text files", ErrUnsupportedFileType, mimeType)
	}
	return t, nil
}

// AttachmentService stores files and links attached to initiatives.
type AttachmentService struct {
	db       *gorm.DB
	storage  ObjectStorage
	maxBytes int64
	logger   *zap.Logger
	now      func() time.Time
}

func NewAttachmentService(db *gorm.DB, storage ObjectStorage, maxBytes int64, opts ...Option) *AttachmentService {
	o := newOptions(opts)
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &AttachmentService{
		db:       db,
		storage:  storage,
		maxBytes: maxBytes,
		logger:   o.logger.Named("attachments"),
		now:      o.now,
	}
}

// MaxBytes is the largest accepted upload.
func (s *AttachmentService) MaxBytes() int64 { return s.maxBytes }

// FileUpload is an uploaded file as received by the controller.
type FileUpload struct {
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

// LinkInput attaches an external resource by URL.
type LinkInput struct {
	URL             string
	StorageProvider string
	Filename        string
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// objectKey is {initiative}/{sanitized name}-{uuid}{ext}.
func objectKey(initiativeID uint, filename string) string {
	ext := path.Ext(filename)
	base := unsafeNameChars.ReplaceAllString(strings.TrimSuffix(path.Base(filename), ext), "_")
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d/%s-%s%s", initiativeID, base, uuid.NewString(), strings.ToLower(ext))
}

// List returns the attachments of an initiative, newest first.
func (s *AttachmentService) List(ctx context.Context, initiativeID uint) ([]models.Attachment, error) {
	db := s.db.WithContext(ctx)
	if err := initiativeExists(db, initiativeID); err != nil {
		return nil, err
	}

	var attachments []models.Attachment
	err := db.Where("initiative_id = ?", initiativeID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("list attachments for initiative %d: %w", initiativeID, err)
	}
	for i := range attachments {
		s.resolveURL(&attachments[i])
	}
	return attachments, nil
}

// Upload stores the file and records the attachment. The stored object is
// removed again when the row cannot be written.
func (s *AttachmentService) Upload(ctx context.Context, initiativeID uint, file FileUpload, createdBy *uint) (*models.Attachment, error) {
	if file.Size > s.maxBytes {
		return nil, fmt.Errorf("%w of %dMB", ErrFileTooLarge, s.maxBytes>>20)
	}
	attachmentType, err := AttachmentTypeFor(file.MimeType)
	if err != nil {
		return nil, err
	}
	if err := initiativeExists(s.db.WithContext(ctx), initiativeID); err != nil {
		return nil, err
	}

	key := objectKey(initiativeID, file.Filename)
	if err := s.storage.Put(ctx, key, io.LimitReader(file.Body, s.maxBytes+1), file.MimeType); err != nil {
		s.logger.Error("store attachment failed", zap.Uint("initiative_id", initiativeID), zap.Error(err))
		return nil, err
	}

	size := file.Size
	attachment := models.Attachment{
		InitiativeID:    initiativeID,
		AttachmentType:  attachmentType,
		FilePath:        &key,
		StorageProvider: s.storage.Provider(),
		Filename:        file.Filename,
		FileSize:        &size,
		MimeType:        file.MimeType,
		CreatedAt:       s.now(),
		CreatedBy:       createdBy,
	}
	if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("remove orphaned object failed", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("insert attachment: %w", err)
	}

	s.logger.Info("attachment uploaded",
		zap.Uint("initiative_id", initiativeID),
		zap.Uint("attachment_id", attachment.ID),
		zap.String("type", string(attachmentType)),
		zap.Int64("size", size),
	)
	s.resolveURL(&attachment)
	return &attachment, nil
}

// AddLink records an external URL as a LINK attachment.
func (s *AttachmentService) AddLink(ctx context.Context, initiativeID uint, in LinkInput, createdBy *uint) (*models.Attachment, error) {
	raw := strings.TrimSpace(in.URL)
	if raw == "" {
		return nil, ErrAttachmentSource
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: external_url must be an absolute URL", ErrAttachmentSource)
	}
	if err := initiativeExists(s.db.WithContext(ctx), initiativeID); err != nil {
		return nil, err
	}

	provider := strings.ToUpper(strings.TrimSpace(in.StorageProvider))
	if provider == "" {
		provider = models.StorageGeneric
	}
	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		filename = "External Link"
	}

	attachment := models.Attachment{
		InitiativeID:    initiativeID,
		AttachmentType:  models.AttachmentLink,
		ExternalURL:     &raw,
		StorageProvider: provider,
		Filename:        filename,
		CreatedAt:       s.now(),
		CreatedBy:       createdBy,
	}
	if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
		return nil, fmt.Errorf("insert attachment: %w", err)
	}
	s.logger.Info("link attached", zap.Uint("initiative_id", initiativeID), zap.Uint("attachment_id", attachment.ID))
	s.resolveURL(&attachment)
	return &attachment, nil
}

// Delete removes the row and, best effort, the stored object.
func (s *AttachmentService) Delete(ctx context.Context, initiativeID, attachmentID uint) error {
	db := s.db.WithContext(ctx)
	if err := initiativeExists(db, initiativeID); err != nil {
		return err
	}

	var attachment models.Attachment
	if err := db.First(&attachment, attachmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("load attachment %d: %w", attachmentID, err)
	}
	if attachment.InitiativeID != initiativeID {
		return ErrAttachmentMismatch
	}

	if attachment.FilePath != nil && attachment.StorageProvider == s.storage.Provider() {
		if err := s.storage.Delete(ctx, *attachment.FilePath); err != nil {
			s.logger.Warn("remove stored object failed",
				zap.Uint("attachment_id", attachmentID),
				zap.String("key", *attachment.FilePath),
				zap.Error(err),
			)
		}
	}

	if err := db.Delete(&models.Attachment{}, attachment.ID).Error; err != nil {
		return fmt.Errorf("delete attachment %d: %w", attachment.ID, err)
	}
	s.logger.Info("attachment deleted", zap.Uint("initiative_id", initiativeID), zap.Uint("attachment_id", attachmentID))
	return nil
}

func (s *AttachmentService) resolveURL(a *models.Attachment) {
	switch {
	case a.ExternalURL != nil:
		a.URL = *a.ExternalURL
	case a.FilePath != nil && a.StorageProvider == s.storage.Provider():
		a.URL = s.storage.URL(*a.FilePath)
	}
}
