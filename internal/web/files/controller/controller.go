// Package controller exposes the REST surface for files and administration.
package controller

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/datagate/internal/web/files/service"
)

func Initialize(ctx context.Context) {
	service.Initialize(ctx)
}

// RegisterRoutes mounts file routes (authenticated) and admin routes
// (authenticated + elevated role).
func RegisterRoutes(server *gin.Engine) {
	files := server.Group("/api/files", authUserMw())
	files.POST("/upload", uploadHandler)
	files.POST("/upload-batch", uploadBatchHandler)
	files.GET("/my-files", myFilesHandler)
	files.DELETE("/:id", deleteFileHandler)
	files.GET("/:id/download", downloadURLHandler)

	admin := server.Group("/api/admin", authUserMw(), requireElevatedMw())
	admin.GET("/users", listUsersHandler)
	admin.GET("/files", listFilesHandler)
	admin.DELETE("/files/:id", adminDeleteFileHandler)
	admin.PUT("/users/:id/file-limit", setFileLimitHandler)
	admin.PUT("/users/:id/max-file-size", setMaxFileSizeHandler)
	admin.PUT("/users/:id/user-type", setUserTypeHandler)
	admin.GET("/users/:id/files", userFilesHandler)
	admin.GET("/stats", statsHandler)
}
