package services

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grrt-recruitment/pipeline/internal/logging"
)

func TestResumeSave(t *testing.T) {
	dir := t.TempDir()
	svc := NewResumeService(dir, 1<<20, logging.Discard())

	stored, err := svc.Save(&Upload{Filename: "cv.pdf", Reader: bytes.NewReader(minimalPDF)})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(stored.Path))
	assert.Equal(t, ".pdf", filepath.Ext(stored.Path))

	data, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, minimalPDF, data)

	svc.Remove(stored.Path)
	_, err = os.Stat(stored.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestResumeSaveRejects(t *testing.T) {
	svc := NewResumeService(t.TempDir(), 64, logging.Discard())

	_, err := svc.Save(nil)
	assert.ErrorIs(t, err, ErrResumeMissing)

	_, err = svc.Save(&Upload{Filename: "empty.pdf", Reader: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, ErrResumeMissing)

	_, err = svc.Save(&Upload{Filename: "cv.docx", Reader: bytes.NewReader([]byte("PK\x03\x04 word document"))})
	assert.ErrorIs(t, err, ErrResumeNotPDF)

	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 100)...)
	_, err = svc.Save(&Upload{Filename: "big.pdf", Reader: bytes.NewReader(big)})
	assert.ErrorIs(t, err, ErrResumeTooLarge)
}
