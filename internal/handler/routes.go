package handler

import (
	"workorder-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything mounted under the API prefix.
type Handlers struct {
	Auth       *AuthHandler
	Locations  *LocationHandler
	WorkOrders *WorkOrderHandler
}

// RegisterRoutes mounts the API on rg. Everything except signup, signin and
// refresh requires a bearer token.
func RegisterRoutes(rg *gin.RouterGroup, h Handlers, authenticator middleware.Authenticator) {
	requireAuth := middleware.RequireAuth(authenticator)

	auth := rg.Group("/auth")
	auth.POST("/signup", h.Auth.SignUp)
	auth.POST("/signin", h.Auth.SignIn)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/signout", requireAuth, h.Auth.SignOut)
	auth.GET("/me", requireAuth, h.Auth.Me)

	locations := rg.Group("/locations", requireAuth)
	locations.POST("", h.Locations.Create)
	locations.GET("", h.Locations.List)
	locations.GET("/:id", h.Locations.Get)
	locations.POST("/:id/geocode", h.Locations.Regeocode)

	workOrders := rg.Group("/work-orders", requireAuth)
	workOrders.GET("", h.WorkOrders.List)
	workOrders.POST("", h.WorkOrders.Create)
	workOrders.GET("/:id", h.WorkOrders.Get)
	workOrders.PUT("/:id", h.WorkOrders.Update)
	workOrders.DELETE("/:id", h.WorkOrders.Delete)
}
