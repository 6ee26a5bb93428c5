package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/pprofhandler"

	apiHandler "github.com/fastygo/teamups/api/handler"
)

type Handlers struct {
	User         *apiHandler.UserHandler
	Team         *apiHandler.TeamHandler
	Invitation   *apiHandler.InvitationHandler
	Task         *apiHandler.TaskHandler
	Notification *apiHandler.NotificationHandler
	Health       *apiHandler.HealthHandler
}

type Options struct {
	EnablePprof bool
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, opts Options) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	if opts.EnablePprof {
		r.GET("/debug/pprof/{profile:*}", pprofhandler.PprofHandler)
	}

	api := r.Group("/api/v1")

	api.POST("/users", handlers.User.SignUp)

	// Protected routes
	api.PUT("/users/me/availability", authMiddleware(handlers.User.SetAvailability))
	api.GET("/users/{id}", authMiddleware(handlers.User.Get))
	api.POST("/users/{id}/ratings", authMiddleware(handlers.User.Rate))

	api.POST("/teams", authMiddleware(handlers.Team.Create))
	api.GET("/teams", authMiddleware(handlers.Team.List))
	api.GET("/teams/{id}", authMiddleware(handlers.Team.Get))
	api.DELETE("/teams/{id}", authMiddleware(handlers.Team.Delete))
	api.POST("/teams/{id}/members", authMiddleware(handlers.Team.AddMember))
	api.DELETE("/teams/{id}/members/{userID}", authMiddleware(handlers.Team.RemoveMember))
	api.POST("/teams/{id}/ratings", authMiddleware(handlers.Team.Rate))
	api.POST("/teams/{id}/invitations", authMiddleware(handlers.Team.Invite))

	api.GET("/invitations", authMiddleware(handlers.Invitation.ListPending))
	api.POST("/invitations/{id}/accept", authMiddleware(handlers.Invitation.Accept))
	api.POST("/invitations/{id}/decline", authMiddleware(handlers.Invitation.Decline))

	api.GET("/tasks", authMiddleware(handlers.Task.GetTasks))
	api.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	api.GET("/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	api.POST("/tasks/{id}/complete", authMiddleware(handlers.Task.CompleteTask))
	api.POST("/tasks/{id}/extend", authMiddleware(handlers.Task.ExtendDeadline))

	api.GET("/notifications", authMiddleware(handlers.Notification.List))
	api.POST("/notifications/{id}/read", authMiddleware(handlers.Notification.MarkRead))

	return r
}
