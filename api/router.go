// Package api is the thin HTTP transport over the core services. It
// resolves the acting user from the session token, maps the error
// taxonomy to statuses, and performs the one caller-side authorization
// check the core deliberately leaves to it (admin before room delete).
package api

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"roomhub/auth"
	"roomhub/services"
)

type Handlers struct {
	authService services.IAuthService
	rooms       services.IRoomService
	memberships services.IMembershipService
	messages    services.IMessageService
	log         *slog.Logger
}

func NewRouter(log *slog.Logger,
	authService services.IAuthService,
	rooms services.IRoomService,
	memberships services.IMembershipService,
	messages services.IMessageService,
	tokens *auth.TokenManager,
	allowedOrigins []string) *gin.Engine {

	h := &Handlers{
		authService: authService,
		rooms:       rooms,
		memberships: memberships,
		messages:    messages,
		log:         log,
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	public := router.Group("/api")
	{
		public.POST("/users", h.Register)
		public.POST("/login", h.Login)
	}

	protected := router.Group("/api", auth.Middleware(tokens))
	{
		protected.GET("/users/id", h.LookupID)

		protected.POST("/rooms", h.CreateRoom)
		protected.GET("/rooms", h.ListRooms)
		protected.DELETE("/rooms/:code", h.DeleteRoom)
		protected.GET("/rooms/:code/theme", h.Theme)
		protected.GET("/rooms/:code/roster", h.Roster)
		protected.POST("/rooms/:code/join", h.JoinRoom)
		protected.POST("/rooms/:code/leave", h.LeaveRoom)

		protected.GET("/rooms/:code/messages", h.ListMessages)
		protected.POST("/rooms/:code/messages", h.SendMessage)
		protected.POST("/messages/:id/approve", h.ApproveMessage)
		protected.DELETE("/messages/:id", h.DeleteMessage)
	}

	return router
}
