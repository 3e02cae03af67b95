package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/pipeline"
	"github.com/grrt-recruitment/pipeline/internal/services"
)

type CandidateHandler struct {
	Candidates *services.CandidateService
	LLM        *services.LLMService // nil when drafting is disabled
	// MaxUploadBytes caps the whole multipart body, resume included.
	MaxUploadBytes int64
}

func NewCandidateHandler(candidates *services.CandidateService, llm *services.LLMService, maxUploadBytes int64) *CandidateHandler {
	return &CandidateHandler{Candidates: candidates, LLM: llm, MaxUploadBytes: maxUploadBytes}
}

// List returns the handler for one stage's list endpoint.
func (h *CandidateHandler) List(stage pipeline.Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := h.Candidates.List(c.Request.Context(), stage)
		if err != nil {
			respondError(c, "Failed to load "+stage.Label()+" candidates", err)
			return
		}
		c.JSON(http.StatusOK, dtos.CandidateListResponse{Data: data})
	}
}

// AddInitialScreening is the POST /candidates/initial-screening endpoint
func (h *CandidateHandler) AddInitialScreening(c *gin.Context) {
	var req dtos.InitialScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.Candidates.AddInitialScreening(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to add candidate", err)
		return
	}
	c.JSON(http.StatusCreated, dtos.CandidateResponse{Message: "Candidate added", Data: *v})
}

// MoveToScreening is the POST /candidates/contact endpoint
func (h *CandidateHandler) MoveToScreening(c *gin.Context) {
	var req dtos.ContactStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.Candidates.MoveToScreening(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to move candidate to screening", err)
		return
	}
	c.JSON(http.StatusCreated, dtos.CandidateResponse{Message: "Candidate moved to screening", Data: *v})
}

// MoveToEndorsement is the POST /candidates/screening multipart endpoint
func (h *CandidateHandler) MoveToEndorsement(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	var req dtos.ScreeningRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, "Failed to read upload", services.ErrResumeTooLarge)
			return
		}
		badRequest(c, err)
		return
	}

	fh, err := c.FormFile("resume")
	if err != nil {
		respondError(c, "Failed to read upload", services.ErrResumeMissing)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, "Failed to read upload", err)
		return
	}
	defer f.Close()

	v, err := h.Candidates.MoveToEndorsement(c.Request.Context(), &req, &services.Upload{Filename: fh.Filename, Reader: f})
	if err != nil {
		respondError(c, "Failed to move candidate to endorsement", err)
		return
	}
	c.JSON(http.StatusCreated, dtos.CandidateResponse{Message: "Candidate moved to endorsement", Data: *v})
}

// MoveToCandidateEndorsement is the POST /candidates/candidateProfile/:id endpoint
func (h *CandidateHandler) MoveToCandidateEndorsement(c *gin.Context) {
	var req dtos.CandidateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.Candidates.MoveToCandidateEndorsement(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, "Failed to endorse candidate", err)
		return
	}
	c.JSON(http.StatusCreated, dtos.CandidateResponse{Message: "Candidate endorsed", Data: *v})
}

// DraftProfile is the POST /candidates/candidateProfile/:id/draft endpoint
func (h *CandidateHandler) DraftProfile(c *gin.Context) {
	if h.LLM == nil {
		respondError(c, "AI drafting unavailable", services.ErrLLMDisabled)
		return
	}
	text, err := h.Candidates.ResumeText(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "AI drafting failed", err)
		return
	}
	draft, err := h.LLM.DraftProfile(c.Request.Context(), text)
	if err != nil {
		respondError(c, "AI drafting failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft})
}

func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	v, err := h.Candidates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to load candidate", err)
		return
	}
	c.JSON(http.StatusOK, dtos.CandidateResponse{Data: *v})
}

// DeleteCandidate is the DELETE /candidates/:id endpoint
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	v, err := h.Candidates.DeleteCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to delete candidate", err)
		return
	}
	c.JSON(http.StatusOK, dtos.DeleteCandidateResponse{DeletedCandidate: v, Message: "Candidate deleted successfully"})
}
