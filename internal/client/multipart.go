package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
)

// FormField is a plain text part.
type FormField struct {
	Name  string
	Value string
}

// FileField is a file part.
type FileField struct {
	Name        string
	FileName    string
	ContentType string
	Reader      io.Reader
}

// Multipart is an encoded multipart/form-data body.
type Multipart struct {
	Body        []byte
	ContentType string
}

// File is a local file picked for upload.
type File struct {
	Name   string
	Reader io.Reader
}

// ScreeningSubmission is the first-screening form.
type ScreeningSubmission struct {
	CandidateID   string
	Resume        *File
	CurrentSalary float64
	AskingSalary  float64
	Interviewer   string
	Remarks       string
}

var ErrNoResume = errors.New("resume file is required")

// BuildMultipart encodes fields then files, in the order given.
func BuildMultipart(fields []FormField, files []FileField) (*Multipart, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Name, f.FileName))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, fmt.Errorf("copy %s: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &Multipart{Body: buf.Bytes(), ContentType: w.FormDataContentType()}, nil
}

// BuildScreeningMultipart lays out the first-screening form the way
// POST /candidates/screening expects it.
func BuildScreeningMultipart(s ScreeningSubmission) (*Multipart, error) {
	if s.Resume == nil || s.Resume.Reader == nil {
		return nil, ErrNoResume
	}
	return BuildMultipart(
		[]FormField{
			{Name: "candidateId", Value: s.CandidateID},
			{Name: "currentSalary", Value: formatAmount(s.CurrentSalary)},
			{Name: "askingSalary", Value: formatAmount(s.AskingSalary)},
			{Name: "interviewer", Value: s.Interviewer},
			{Name: "remarks", Value: s.Remarks},
		},
		[]FileField{
			{Name: "resume", FileName: s.Resume.Name, ContentType: "application/pdf", Reader: s.Resume.Reader},
		},
	)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
