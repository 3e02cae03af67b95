package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/grrt-recruitment/pipeline/internal/auth"
	"github.com/grrt-recruitment/pipeline/internal/config"
	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/logging"
	"github.com/grrt-recruitment/pipeline/internal/pipeline"
	"github.com/grrt-recruitment/pipeline/internal/services"
)

// multipartOverhead is added to the resume cap for the other form fields.
const multipartOverhead = 1 << 20

type Deps struct {
	Candidates   *services.CandidateService
	Jobs         *services.JobService
	Users        *services.UserService
	LLM          *services.LLMService // optional
	Issuer       *auth.Issuer
	LoginLimiter *auth.LoginLimiter

	CORSOrigins    config.Origins
	MaxResumeBytes int64
	Log            *logrus.Entry
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(d.Log.WithField("component", "http")))
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	candidateHandler := NewCandidateHandler(d.Candidates, d.LLM, d.MaxResumeBytes+multipartOverhead)
	jobHandler := NewJobHandler(d.Jobs)
	userHandler := NewUserHandler(d.Users, d.Issuer)

	requireAuth := auth.RequireAuth(d.Issuer)
	managers := auth.RequireRole(dtos.RoleAdmin, dtos.RoleManager)
	admins := auth.RequireRole(dtos.RoleAdmin)

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		// Pipeline Routes
		cands := api.Group("", requireAuth)
		for _, stage := range pipeline.Stages {
			cands.GET(stage.ListPath(), candidateHandler.List(stage))
		}
		cands.POST("/candidates/initial-screening", candidateHandler.AddInitialScreening)
		cands.POST("/candidates/contact", candidateHandler.MoveToScreening)
		cands.POST("/candidates/screening", candidateHandler.MoveToEndorsement)
		cands.POST("/candidates/candidateProfile/:id", candidateHandler.MoveToCandidateEndorsement)
		cands.POST("/candidates/candidateProfile/:id/draft", candidateHandler.DraftProfile)
		cands.GET("/candidates/:id", candidateHandler.GetCandidate)
		cands.DELETE("/candidates/:id", managers, candidateHandler.DeleteCandidate)

		// Job Routes
		api.GET("/jobs", jobHandler.ListJobs)
		api.GET("/jobs/search", jobHandler.SearchJobs)
		api.POST("/jobs/createJob", requireAuth, managers, jobHandler.CreateJob)
		api.PUT("/jobs/:id", requireAuth, managers, jobHandler.UpdateJob)
		api.DELETE("/jobs/:id", requireAuth, managers, jobHandler.DeleteJob)

		// User Routes
		api.POST("/users/register", auth.OptionalAuth(d.Issuer), userHandler.Register)
		api.POST("/users/login", d.LoginLimiter.Middleware(), userHandler.Login)
		api.GET("/users/profile", requireAuth, userHandler.Profile)
		api.PUT("/users/updateProfile", requireAuth, userHandler.UpdateProfile)
		api.PATCH("/users/update-password", requireAuth, userHandler.UpdatePassword)
		api.GET("/users", requireAuth, admins, userHandler.ListUsers)
		api.PATCH("/users/:id/setPrivilege", requireAuth, admins, userHandler.SetPrivilege)
		api.DELETE("/users/:id", requireAuth, admins, userHandler.DeleteUser)
	}
	return r
}

func corsConfig(origins config.Origins) cors.Config {
	c := cors.DefaultConfig()
	if origins.AllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", logging.RequestIDHeader}
	c.ExposeHeaders = []string{logging.RequestIDHeader}
	c.MaxAge = 12 * time.Hour
	return c
}
