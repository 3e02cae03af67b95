package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// Upload is a resume file received from a client.
type Upload struct {
	Filename string
	Reader   io.Reader
}

type StoredResume struct {
	Path string
	Text string
}

// ResumeService stores uploaded resumes on disk and pulls their text out
// for profile drafting.
type ResumeService struct {
	Dir      string
	MaxBytes int64
	Log      *logrus.Entry
}

func NewResumeService(dir string, maxBytes int64, log *logrus.Entry) *ResumeService {
	return &ResumeService{Dir: dir, MaxBytes: maxBytes, Log: log.WithField("component", "resumes")}
}

// Save validates and writes the upload. Text extraction is best effort: a
// PDF without a text layer is still accepted.
func (s *ResumeService) Save(u *Upload) (*StoredResume, error) {
	if u == nil || u.Reader == nil {
		return nil, ErrResumeMissing
	}

	data, err := io.ReadAll(io.LimitReader(u.Reader, s.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrResumeMissing
	}
	if int64(len(data)) > s.MaxBytes {
		return nil, ErrResumeTooLarge
	}
	if !mimetype.Detect(data).Is("application/pdf") {
		return nil, ErrResumeNotPDF
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	path := filepath.Join(s.Dir, uuid.NewString()+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write resume: %w", err)
	}

	text, err := ExtractPDFText(data)
	if err != nil {
		s.Log.WithError(err).WithField("file", u.Filename).Warn("⚠️ resume text extraction failed")
	}
	return &StoredResume{Path: path, Text: text}, nil
}

// Remove deletes a stored resume whose transition did not commit.
func (s *ResumeService) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.Log.WithError(err).WithField("path", path).Warn("⚠️ failed to remove orphaned resume")
	}
}

// ExtractPDFText returns the text of every page that has any.
func ExtractPDFText(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("page count: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		text, err := ex.ExtractText()
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("no text in %d page(s)", numPages)
	}
	return out, nil
}

func nowUTC() time.Time { return time.Now().UTC() }
