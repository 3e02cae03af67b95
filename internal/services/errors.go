package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyAdvanced    = errors.New("candidate already moved to the next stage")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrResumeMissing      = errors.New("resume file is required")
	ErrResumeTooLarge     = errors.New("resume file too large")
	ErrResumeNotPDF       = errors.New("resume must be a PDF")
	ErrNoResumeText       = errors.New("no resume text available")
	ErrLLMDisabled        = errors.New("profile drafting is not configured")
)

// notFound converts gorm's record-not-found into ErrNotFound and leaves
// other errors alone.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
