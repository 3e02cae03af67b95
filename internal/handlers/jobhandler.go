package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(j *services.JobService) *JobHandler {
	return &JobHandler{JobService: j}
}

// ListJobs is the GET /jobs endpoint; ?status=Open hides closed and draft jobs.
func (h *JobHandler) ListJobs(c *gin.Context) {
	openOnly := strings.EqualFold(c.Query("status"), dtos.JobOpen)
	jobs, err := h.JobService.ListJobs(c.Request.Context(), openOnly)
	if err != nil {
		respondError(c, "Failed to load jobs", err)
		return
	}
	c.JSON(http.StatusOK, dtos.JobListResponse{JobPosted: jobs})
}

// SearchJobs is the GET /jobs/search endpoint
func (h *JobHandler) SearchJobs(c *gin.Context) {
	var params dtos.JobSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.JobService.SearchJobs(c.Request.Context(), params)
	if err != nil {
		respondError(c, "Search failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// creating the job
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to create job", err)
		return
	}
	c.JSON(http.StatusCreated, dtos.JobCreationResponse{Feedback: "Success", Message: "Job created successfully", Job: *job})
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job, err := h.JobService.UpdateJob(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, "Failed to update job", err)
		return
	}
	c.JSON(http.StatusOK, dtos.JobUpdateResponse{Message: "Job updated successfully", JobUpdate: *job})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.JobService.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete job", err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Job deleted successfully"})
}
