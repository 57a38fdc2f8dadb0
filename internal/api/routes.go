package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/config"
	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/middleware"
)

// multipartOverhead is added to upload caps for form fields and boundaries.
const multipartOverhead = 1 << 20

// Services bundles the service layer the routes dispatch to.
type Services struct {
	Auth       core.AuthService
	Members    core.MemberService
	Feed       core.FeedService
	Calendar   core.CalendarService
	Accounting core.AccountingService
	Complaints core.ComplaintService
	Committee  core.CommitteeService
	Documents  core.DocumentService
	Elections  core.ElectionService
	Audit      core.AuditService
}

// SetupRoutes registers the /api/v1 surface and /health on router. Global
// middleware (logging, recovery, CORS) is applied by the caller.
func SetupRoutes(router *gin.Engine, cfg *config.Config, logger *zap.Logger, authMW *middleware.AuthMiddleware, svc Services) {
	if err := RegisterValidators(); err != nil {
		logger.Fatal("failed to register request validators", zap.Error(err))
	}

	authHandler := NewAuthHandler(svc.Auth, svc.Members, logger)
	memberHandler := NewMemberHandler(svc.Members, logger)
	feedHandler := NewFeedHandler(svc.Feed, logger)
	eventHandler := NewEventHandler(svc.Calendar, logger)
	contributionHandler := NewContributionHandler(svc.Accounting, logger)
	complaintHandler := NewComplaintHandler(svc.Complaints, logger)
	committeeHandler := NewCommitteeHandler(svc.Committee, logger)
	documentHandler := NewDocumentHandler(svc.Documents, logger)
	electionHandler := NewElectionHandler(svc.Elections, logger)
	auditHandler := NewAuditHandler(svc.Audit, logger)

	singleUpload := limitBody(cfg.MaxUploadBytes + multipartOverhead)
	complaintUpload := limitBody(cfg.MaxUploadBytes*core.MaxAttachments + multipartOverhead)
	staff := middleware.RequireStaff()
	admin := middleware.RequireAdmin()

	apiV1 := router.Group("/api/v1")

	public := apiV1.Group("/auth")
	{
		public.POST("/login", authHandler.Login)
		public.POST("/refresh", authHandler.Refresh)
		public.POST("/password-reset", authHandler.RequestPasswordReset)
	}

	authed := apiV1.Group("", authMW.VerifyToken())
	{
		authed.GET("/auth/session", authHandler.Session)
		authed.POST("/auth/push-token", authHandler.RegisterPushToken)

		authed.GET("/members", memberHandler.ListMembers)
		authed.GET("/members/:memberId", memberHandler.GetMember)
		authed.GET("/profile", memberHandler.GetProfile)
		authed.PATCH("/profile", memberHandler.UpdateProfile)
		authed.POST("/profile/photo", singleUpload, memberHandler.UpdatePhoto)

		posts := authed.Group("/posts")
		{
			posts.GET("", feedHandler.ListPosts)
			posts.GET("/stream", feedHandler.StreamPosts)
			posts.POST("", staff, feedHandler.CreatePost)
			posts.GET("/:postId", feedHandler.GetPost)
			posts.PATCH("/:postId", feedHandler.UpdatePost)
			posts.DELETE("/:postId", feedHandler.DeletePost)
			posts.PUT("/:postId/like", feedHandler.Like)
			posts.DELETE("/:postId/like", feedHandler.Unlike)
			posts.GET("/:postId/comments", feedHandler.ListComments)
			posts.POST("/:postId/comments", feedHandler.AddComment)
			posts.DELETE("/:postId/comments/:commentId", feedHandler.DeleteComment)
		}

		events := authed.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.GET("/:eventId", eventHandler.GetEvent)
			events.POST("", staff, eventHandler.CreateEvent)
			events.PATCH("/:eventId", staff, eventHandler.UpdateEvent)
			events.DELETE("/:eventId", staff, eventHandler.DeleteEvent)
		}

		authed.GET("/contributions", contributionHandler.ListOwn)
		authed.POST("/contributions", singleUpload, contributionHandler.Submit)
		authed.PATCH("/contributions/:contributionId/status", staff, contributionHandler.UpdateStatus)

		complaints := authed.Group("/complaints")
		{
			complaints.GET("", complaintHandler.List)
			complaints.POST("", complaintUpload, complaintHandler.File)
			complaints.GET("/:complaintId", complaintHandler.Get)
			complaints.PATCH("/:complaintId/status", staff, complaintHandler.UpdateStatus)
		}

		committee := authed.Group("/committee")
		{
			committee.GET("", committeeHandler.List)
			committee.POST("", admin, committeeHandler.Create)
			committee.PATCH("/:id", admin, committeeHandler.Update)
			committee.DELETE("/:id", admin, committeeHandler.Delete)
		}

		authed.GET("/documents", documentHandler.ListOwn)
		authed.DELETE("/documents/:documentId", staff, documentHandler.Delete)

		accounts := authed.Group("/accounts/:accountNumber", staff)
		{
			accounts.GET("/contributions", contributionHandler.ListForAccount)
			accounts.GET("/documents", documentHandler.ListForAccount)
			accounts.POST("/documents", singleUpload, documentHandler.Upload)
		}

		elections := authed.Group("/elections")
		{
			elections.GET("", electionHandler.List)
			elections.POST("", admin, electionHandler.Create)
			elections.GET("/:electionId", electionHandler.Get)
			elections.POST("/:electionId/candidates", admin, singleUpload, electionHandler.AddCandidate)
			elections.DELETE("/:electionId/candidates/:candidateId", admin, electionHandler.DeleteCandidate)
			elections.POST("/:electionId/votes", electionHandler.CastVote)
			elections.GET("/:electionId/votes/me", electionHandler.MyVote)
			elections.GET("/:electionId/results", electionHandler.Results)
			elections.GET("/:electionId/results/stream", electionHandler.StreamResults)
		}

		authed.GET("/audit-logs", admin, auditHandler.List)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
