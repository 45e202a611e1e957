package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/utils"
)

type fakeUploader struct {
	err     error
	objects []string
}

func (f *fakeUploader) Upload(_ context.Context, objectName, _ string, _ io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.objects = append(f.objects, objectName)
	return "https://storage.googleapis.com/bucket/" + objectName, nil
}

type fakeEnqueuer struct {
	err  error
	jobs []AnalysisJob
}

func (f *fakeEnqueuer) EnqueueAnalysis(_ context.Context, job AnalysisJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func TestUploadRequiresTenant(t *testing.T) {
	repo := &fakeUploadRepo{rows: map[string]*models.CVUpload{}}
	uploader := &fakeUploader{}
	svc := NewUploadService(repo, uploader, &fakeEnqueuer{}, nil)

	ident := models.Identity{UserID: "user-1", Role: models.RoleApplicant}
	_, err := svc.Upload(context.Background(), ident, "cv.pdf", 10, "application/pdf", strings.NewReader("pdf"))
	if !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Fatalf("err = %v, want UNAUTHORIZED", err)
	}
	if len(uploader.objects) != 0 {
		t.Error("blob written despite the rejected request")
	}
	if len(repo.inserted) != 0 {
		t.Error("row written despite the rejected request")
	}
}

func TestUploadStorageFailureLeavesNoRow(t *testing.T) {
	repo := &fakeUploadRepo{rows: map[string]*models.CVUpload{}}
	queue := &fakeEnqueuer{}
	svc := NewUploadService(repo, &fakeUploader{err: errors.New("bucket unavailable")}, queue, nil)

	_, err := svc.Upload(context.Background(), applicantIdent(), "cv.pdf", 10, "application/pdf", strings.NewReader("pdf"))
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("err = %v, want UNAVAILABLE", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("row written despite the storage failure")
	}
	if len(queue.jobs) != 0 {
		t.Error("job enqueued despite the storage failure")
	}
}

func TestUploadInsertFailureLeavesOrphanBlob(t *testing.T) {
	repo := &fakeUploadRepo{rows: map[string]*models.CVUpload{}, insertErr: errors.New("db down")}
	uploader := &fakeUploader{}
	queue := &fakeEnqueuer{}
	svc := NewUploadService(repo, uploader, queue, nil)

	_, err := svc.Upload(context.Background(), applicantIdent(), "cv.pdf", 10, "application/pdf", strings.NewReader("pdf"))
	if !utils.IsCode(err, utils.CodeInternal) {
		t.Fatalf("err = %v, want INTERNAL", err)
	}
	// the blob exists until the sweeper reclaims it
	if len(uploader.objects) != 1 {
		t.Errorf("objects = %v, want exactly the orphan", uploader.objects)
	}
	if len(queue.jobs) != 0 {
		t.Error("job enqueued despite the insert failure")
	}
}

func TestUploadEnqueueFailureStillReturnsRow(t *testing.T) {
	repo := &fakeUploadRepo{rows: map[string]*models.CVUpload{}}
	svc := NewUploadService(repo, &fakeUploader{}, &fakeEnqueuer{err: errors.New("stream gone")}, nil)

	row, err := svc.Upload(context.Background(), applicantIdent(), "cv.pdf", 10, "application/pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if row == nil || row.ID == "" {
		t.Fatal("no row returned")
	}
	if !row.Pending() {
		t.Error("fresh upload should read as pending")
	}
	if len(repo.inserted) != 1 {
		t.Errorf("inserted = %d rows, want 1", len(repo.inserted))
	}
}

func TestUploadSuccess(t *testing.T) {
	repo := &fakeUploadRepo{rows: map[string]*models.CVUpload{}}
	uploader := &fakeUploader{}
	queue := &fakeEnqueuer{}
	svc := NewUploadService(repo, uploader, queue, nil)

	row, err := svc.Upload(context.Background(), applicantIdent(), "my resume.pdf", 42, "application/pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if len(uploader.objects) != 1 {
		t.Fatalf("objects = %v, want 1", uploader.objects)
	}
	obj := uploader.objects[0]
	if !strings.HasPrefix(obj, "cv-uploads/company-1/user-1-") {
		t.Errorf("object name = %q, want tenant-scoped prefix", obj)
	}
	if !strings.HasSuffix(obj, "-my_resume.pdf") {
		t.Errorf("object name = %q, want sanitized file name suffix", obj)
	}
	if row.FilePath != obj {
		t.Errorf("row.FilePath = %q, want %q", row.FilePath, obj)
	}
	if row.FileURL == "" || row.FileSize != 42 {
		t.Errorf("row = %+v", row)
	}

	if len(queue.jobs) != 1 {
		t.Fatalf("jobs = %v, want 1", queue.jobs)
	}
	job := queue.jobs[0]
	if job.CVUploadID != row.ID || job.FileURL != row.FileURL {
		t.Errorf("job = %+v does not match row %+v", job, row)
	}
	if job.UserID != "user-1" || job.Role != string(models.RoleApplicant) || job.CompanyID != "company-1" {
		t.Errorf("job identity = %+v", job)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cv.pdf", "cv.pdf"},
		{"my resume.pdf", "my_resume.pdf"},
		{"../../etc/passwd.pdf", "passwd.pdf"},
		{`C:\Users\jane\cv.pdf`, "cv.pdf"},
		{"", "cv.pdf"},
	}
	for _, tc := range tests {
		if got := sanitizeFileName(tc.in); got != tc.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
