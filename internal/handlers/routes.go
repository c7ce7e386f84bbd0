package handlers

import (
	"github.com/folio-dev/folio/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterDashboardRoutes mounts the editor behind the session middleware
func RegisterDashboardRoutes(router gin.IRouter, session gin.HandlerFunc, h *DashboardHandler, maxBody int64) {
	router.GET("/preview/:id", session, middleware.NoStoreMiddleware(), h.Preview)

	dash := router.Group("/dashboard")
	dash.Use(session)
	dash.Use(middleware.NoStoreMiddleware())
	dash.Use(middleware.BodySizeLimitMiddleware(maxBody))

	dash.GET("", h.Index)
	dash.GET("/:section", h.Show)
	dash.POST("/:section/save", h.Save)
	dash.POST("/:section/revert", h.Revert)
	dash.POST("/:section/reload", h.Reload)
	dash.POST("/:section/cancel", h.CancelEdit)

	dash.POST("/:section/rows", h.AddRow)
	dash.POST("/:section/rows/:key/save", h.SaveRow)
	dash.POST("/:section/rows/:key/delete", h.DeleteRow)
	dash.POST("/:section/rows/:key/revert", h.RevertRow)
	dash.POST("/:section/rows/:key/edit", h.EditRow)
}
