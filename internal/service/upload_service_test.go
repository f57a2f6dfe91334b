package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/share2teach-api/internal/dto"
	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/repository"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/watermark"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type uploadFixture struct {
	svc      *UploadService
	docs     *fakeDocumentRepo
	store    *fakeStore
	marker   *fakeMarker
	queue    *fakeQueue
	activity *fakeActivity
}

func newUploadFixture(maxBytes int64) *uploadFixture {
	docs := newFakeDocumentRepo()
	store := newFakeStore()
	marker := &fakeMarker{}
	queue := &fakeQueue{}
	activity := &fakeActivity{}
	cleaner := NewOrphanCleaner(store, nil, nil)
	cleaner.UseQueue(queue)
	svc := NewUploadService(docs, store, marker, cleaner, activity, nil, nil, nil, UploadConfig{MaxFileSizeBytes: maxBytes})
	return &uploadFixture{svc: svc, docs: docs, store: store, marker: marker, queue: queue, activity: activity}
}

var educator = &Caller{UserID: 7, Role: models.RoleEducator}

func TestUploadServiceStoresWatermarkedDocument(t *testing.T) {
	f := newUploadFixture(0)
	subject := int64(3)

	doc, err := f.svc.Upload(context.Background(), educator, UploadInput{
		Filename:     "Lesson plan (final).pdf",
		DeclaredMIME: "application/pdf",
		Data:         samplePDF,
		Meta:         dto.UploadDocumentRequest{Subject: &subject, Keywords: "Algebra, equations, algebra"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.DocumentPending, doc.Status)
	assert.Equal(t, 0.0, doc.Rating)
	assert.Equal(t, "Lesson_plan__final_.pdf", doc.FileName)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.Equal(t, []string{"algebra", "equations"}, doc.Keywords)
	assert.Equal(t, int64(7), *doc.UploadedBy)
	assert.Contains(t, doc.StoragePath, "http://store.local/")

	stored, err := f.store.Get(context.Background(), doc.StoragePath)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(stored, []byte("LICENSED")))
	assert.Equal(t, []string{models.ActivityUpload}, f.activity.entries)
}

func TestUploadServiceRejectsDisallowedFilesBeforeAnyWrite(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		declared string
		data     []byte
	}{
		{"extension", "virus.exe", "application/pdf", samplePDF},
		{"declared type", "notes.pdf", "application/octet-stream", samplePDF},
		{"content mismatch", "notes.pdf", "application/pdf", []byte("just some text")},
		{"legacy binary office", "notes.doc", "application/msword", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newUploadFixture(0)
			_, err := f.svc.Upload(context.Background(), educator, UploadInput{Filename: tc.filename, DeclaredMIME: tc.declared, Data: tc.data})
			require.ErrorIs(t, err, appErrors.ErrUnsupportedFormat)
			assert.Equal(t, 0, f.store.count())
			assert.Empty(t, f.docs.docs)
			assert.Zero(t, f.marker.applied)
		})
	}
}

func TestUploadServiceRejectsOversizedAndEmptyFiles(t *testing.T) {
	f := newUploadFixture(16)

	_, err := f.svc.Upload(context.Background(), educator, UploadInput{Filename: "notes.pdf", DeclaredMIME: "application/pdf", Data: samplePDF})
	require.ErrorIs(t, err, appErrors.ErrFileTooLarge)

	_, err = f.svc.Upload(context.Background(), educator, UploadInput{Filename: "notes.pdf", DeclaredMIME: "application/pdf"})
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 0, f.store.count())
}

func TestUploadServiceRejectsPackagesThatInflateTooFar(t *testing.T) {
	f := newUploadFixture(0)
	f.marker.err = fmt.Errorf("read word/document.xml: %w", watermark.ErrTooLarge)

	_, err := f.svc.Upload(context.Background(), educator, UploadInput{Filename: "notes.pdf", DeclaredMIME: "application/pdf", Data: samplePDF})
	require.ErrorIs(t, err, appErrors.ErrFileTooLarge)
	assert.Equal(t, 0, f.store.count())
	assert.Empty(t, f.docs.docs)
}

func TestUploadServiceStoreFailureIsUpstream(t *testing.T) {
	f := newUploadFixture(0)
	f.store.putErr = errBoom

	_, err := f.svc.Upload(context.Background(), educator, UploadInput{Filename: "notes.pdf", DeclaredMIME: "application/pdf", Data: samplePDF})
	require.ErrorIs(t, err, appErrors.ErrUpstream)
	assert.Empty(t, f.docs.docs)
}

func TestUploadServiceCompensatesWhenMetadataFails(t *testing.T) {
	f := newUploadFixture(0)
	f.docs.createErr = errBoom

	_, err := f.svc.Upload(context.Background(), educator, UploadInput{Filename: "notes.pdf", DeclaredMIME: "application/pdf", Data: samplePDF})
	require.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Equal(t, 0, f.store.count())
	assert.Empty(t, f.queue.jobs)
}

func TestUploadServiceQueuesFailedCompensation(t *testing.T) {
	f := newUploadFixture(0)
	f.docs.createErr = errBoom
	f.store.deleteErr = errBoom

	_, err := f.svc.Upload(context.Background(), educator, UploadInput{Filename: "notes.pdf", DeclaredMIME: "application/pdf", Data: samplePDF})
	require.Error(t, err)
	require.Len(t, f.queue.jobs, 1)
	assert.Equal(t, JobDeleteObject, f.queue.jobs[0].Type)

	f.store.deleteErr = nil
	cleaner := NewOrphanCleaner(f.store, nil, nil)
	require.NoError(t, cleaner.Handle(context.Background(), f.queue.jobs[0]))
	assert.Equal(t, 0, f.store.count())
}

func TestUploadServiceUnknownSubjectIsValidationError(t *testing.T) {
	f := newUploadFixture(0)
	f.docs.createErr = repository.ErrForeignKeyViolation

	_, err := f.svc.Upload(context.Background(), educator, UploadInput{Filename: "notes.txt", DeclaredMIME: "text/plain", Data: []byte("hello")})
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 0, f.store.count())
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b-c.d.pdf", SanitizeFilename("a b-c.d.pdf"))
	assert.Equal(t, ".._.._.txt", SanitizeFilename("../../.txt"))
	assert.Equal(t, "file", SanitizeFilename(".."))
	assert.Equal(t, "file", SanitizeFilename(""))
}
