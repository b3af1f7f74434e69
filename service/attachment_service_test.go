package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Itish41/InnovationTracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttachmentFixture(t *testing.T) (*fixture, *AttachmentService, string) {
	t.Helper()
	f := newFixture(t)
	root := t.TempDir()
	svc := NewAttachmentService(f.db, NewLocalStorage(root), 1<<10, WithClock(f.clock.Now))
	return f, svc, root
}

func TestAttachmentTypeFor(t *testing.T) {
	tests := []struct {
		mime    string
		want    models.AttachmentType
		wantErr bool
	}{
		{mime: "image/png", want: models.AttachmentImage},
		{mime: "video/webm", want: models.AttachmentVideo},
		{mime: "application/pdf", want: models.AttachmentDocument},
		{mime: "text/plain; charset=utf-8", want: models.AttachmentDocument},
		{mime: "application/x-msdownload", wantErr: true},
		{mime: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			got, err := AttachmentTypeFor(tt.mime)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttachmentService_UploadListDelete(t *testing.T) {
	f, svc, root := newAttachmentFixture(t)
	ctx := context.Background()
	sub := f.user(t, "Ada", "Lovelace", "ada@example.com")
	target := f.initiative(t, "Attachment target", models.CategoryProcess, sub.ID)

	body := "hello attachment"
	a, err := svc.Upload(ctx, target.ID, FileUpload{
		Filename: "Pilot Plan (v2).txt",
		MimeType: "text/plain",
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	}, &sub.ID)
	require.NoError(t, err)

	assert.Equal(t, models.AttachmentDocument, a.AttachmentType)
	assert.Equal(t, models.StorageLocal, a.StorageProvider)
	require.NotNil(t, a.FilePath)
	assert.True(t, strings.HasPrefix(*a.FilePath, "1/Pilot_Plan__v2_-"), *a.FilePath)
	assert.True(t, strings.HasSuffix(*a.FilePath, ".txt"))
	assert.Equal(t, LocalURLPrefix+"/"+*a.FilePath, a.URL)

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(*a.FilePath)))
	require.NoError(t, err)
	assert.Equal(t, body, string(stored))

	link, err := svc.AddLink(ctx, target.ID, LinkInput{URL: "https://example.com/demo.mp4", StorageProvider: "youtube"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AttachmentLink, link.AttachmentType)
	assert.Equal(t, "YOUTUBE", link.StorageProvider)
	assert.Equal(t, "External Link", link.Filename)

	list, err := svc.List(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, link.ID, list[0].ID)
	assert.Equal(t, "https://example.com/demo.mp4", list[0].URL)

	require.NoError(t, svc.Delete(ctx, target.ID, a.ID))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(*a.FilePath)))
	assert.True(t, os.IsNotExist(err))

	list, err = svc.List(ctx, target.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAttachmentService_Rejections(t *testing.T) {
	f, svc, _ := newAttachmentFixture(t)
	ctx := context.Background()
	sub := f.user(t, "Ada", "Lovelace", "ada@example.com")
	a := f.initiative(t, "Rejection A", models.CategoryProcess, sub.ID)
	b := f.initiative(t, "Rejection B", models.CategoryProcess, sub.ID)

	_, err := svc.Upload(ctx, a.ID, FileUpload{Filename: "big.pdf", MimeType: "application/pdf", Size: 2 << 10, Body: strings.NewReader("x")}, nil)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(ctx, a.ID, FileUpload{Filename: "run.exe", MimeType: "application/x-msdownload", Size: 1, Body: strings.NewReader("x")}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = svc.Upload(ctx, 999, FileUpload{Filename: "a.png", MimeType: "image/png", Size: 1, Body: strings.NewReader("x")}, nil)
	assert.ErrorIs(t, err, ErrInitiativeNotFound)

	_, err = svc.AddLink(ctx, a.ID, LinkInput{URL: "not a url"}, nil)
	assert.ErrorIs(t, err, ErrAttachmentSource)

	_, err = svc.AddLink(ctx, a.ID, LinkInput{}, nil)
	assert.ErrorIs(t, err, ErrAttachmentSource)

	link, err := svc.AddLink(ctx, a.ID, LinkInput{URL: "https://example.com/pilot-plan"}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, b.ID, link.ID), ErrAttachmentMismatch)
	assert.ErrorIs(t, svc.Delete(ctx, a.ID, 999), ErrAttachmentNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	store := NewLocalStorage(t.TempDir())
	err := store.Put(context.Background(), "../outside.txt", strings.NewReader("x"), "text/plain")
	assert.Error(t, err)
}
