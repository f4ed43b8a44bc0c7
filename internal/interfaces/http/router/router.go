// Package router wires the HTTP surface: middleware order, route layout,
// and role requirements per route group.
package router

import (
	"time"

	"github.com/Robi000/CMS/internal/infrastructure/auth"
	"github.com/Robi000/CMS/internal/infrastructure/logger"
	"github.com/Robi000/CMS/internal/interfaces/http/handler"
	"github.com/Robi000/CMS/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	System      *handler.SystemHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Association *handler.AssociationHandler
	Household   *handler.HouseholdHandler
	Invoice     *handler.InvoiceHandler
	Finance     *handler.FinanceHandler
	Event       *handler.EventHandler
}

// Config carries the router's cross-cutting dependencies
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	CORS           middleware.CORSConfig
}

const (
	roleAdmin     = "admin"
	roleCommittee = "committee"

	maxRequestBody        = 1 << 20 // 1 MiB
	authAttemptsPerMinute = 10
)

// New builds the gin engine with the full route table. Committee members
// can run day-to-day operations; account management, association setup,
// and destructive financial operations stay admin-only.
func New(cfg Config, h Handlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.Secure(),
		middleware.BodyLimit(maxRequestBody),
	)

	engine.GET("/health", h.System.Health)

	jwtCfg := middleware.DefaultJWTConfig(cfg.JWTService)
	jwtCfg.TokenBlacklist = cfg.TokenBlacklist
	jwtCfg.Logger = cfg.Logger

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	// Credential guessing gets throttled before it reaches bcrypt
	loginLimiter := middleware.NewRateLimiter(authAttemptsPerMinute, time.Minute)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", middleware.AuthRateLimit(loginLimiter), h.Auth.Login)
		authGroup.POST("/refresh", middleware.AuthRateLimit(loginLimiter), h.Auth.RefreshToken)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/me", h.Auth.Me)
		authGroup.POST("/change-password", h.Auth.ChangePassword)
	}

	api.GET("/system/info", h.System.Info)

	users := api.Group("/users", middleware.RequireRole(roleAdmin))
	{
		users.POST("", h.User.Register)
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/role", h.User.ChangeRole)
		users.POST("/:id/deactivate", h.User.Deactivate)
		users.POST("/:id/activate", h.User.Activate)
		users.POST("/:id/reset-password", h.User.ResetPassword)
		users.DELETE("/:id", h.User.Delete)
	}

	api.GET("/association", h.Association.GetCurrent)
	associations := api.Group("/associations", middleware.RequireRole(roleAdmin))
	{
		associations.POST("", h.Association.Create)
		associations.GET("", h.Association.List)
	}

	households := api.Group("/households", middleware.RequireRole(roleAdmin, roleCommittee))
	{
		households.POST("", h.Household.Register)
		households.GET("", h.Household.List)
		households.GET("/:id", h.Household.Get)
		households.PUT("/:id/contact", h.Household.UpdateContact)
		households.DELETE("/:id", middleware.RequireRole(roleAdmin), h.Household.Delete)
		households.POST("/:id/leave", h.Household.Leave)
		households.POST("/:id/members", h.Household.AddMember)
		households.GET("/:id/members", h.Household.ListMembers)
		households.GET("/:id/statement", h.Invoice.Statement)
		households.POST("/:id/invoices/pay-all", h.Invoice.PayAllForHousehold)
		households.POST("/:id/invoices/clear", middleware.RequireRole(roleAdmin), h.Invoice.ClearAllForHousehold)
	}
	api.GET("/members/search", middleware.RequireRole(roleAdmin, roleCommittee), h.Household.SearchMembers)

	invoices := api.Group("/invoices", middleware.RequireRole(roleAdmin, roleCommittee))
	{
		invoices.POST("", h.Invoice.Create)
		invoices.POST("/batch", h.Invoice.CreateBatch)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/groups", h.Invoice.ListGroups)
		invoices.POST("/groups/:group/pay", h.Invoice.PayGroup)
		invoices.DELETE("/groups/:group", middleware.RequireRole(roleAdmin), h.Invoice.DeleteGroup)
		invoices.POST("/pay", h.Invoice.PayMany)
		invoices.POST("/delete", middleware.RequireRole(roleAdmin), h.Invoice.DeleteMany)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/pay", h.Invoice.Pay)
		invoices.DELETE("/:id", middleware.RequireRole(roleAdmin), h.Invoice.Delete)
	}

	transactions := api.Group("/transactions", middleware.RequireRole(roleAdmin, roleCommittee))
	{
		transactions.POST("", h.Finance.Record)
		transactions.GET("", h.Finance.List)
		transactions.GET("/:id", h.Finance.Get)
		transactions.PUT("/:id", middleware.RequireRole(roleAdmin), h.Finance.Update)
		transactions.DELETE("/:id", middleware.RequireRole(roleAdmin), h.Finance.Delete)
	}

	finance := api.Group("/finance", middleware.RequireRole(roleAdmin, roleCommittee))
	{
		finance.GET("/balance", h.Finance.Balance)
		finance.GET("/summary", h.Finance.Summary)
	}

	events := api.Group("/events", middleware.RequireRole(roleAdmin, roleCommittee))
	{
		events.POST("", h.Event.Create)
		events.GET("", h.Event.List)
		events.GET("/:id", h.Event.Get)
		events.POST("/:id/start", h.Event.Start)
		events.POST("/:id/end", h.Event.End)
		events.POST("/entries", h.Event.RecordEntry)
		events.POST("/exits", h.Event.RecordExit)
		events.POST("/:id/finalize", h.Event.Finalize)
		events.DELETE("/:id", middleware.RequireRole(roleAdmin), h.Event.Delete)
	}

	return engine
}
