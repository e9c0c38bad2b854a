package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/datagate/internal/web/files/dto"
	"github.com/Laisky/datagate/internal/web/files/model"
	"github.com/Laisky/datagate/internal/web/files/service"
)

func listUsersHandler(ctx *gin.Context) {
	users, err := service.Instance.ListUsers(ctx)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	resp := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.NewUserResponse(u))
	}

	ctx.JSON(http.StatusOK, resp)
}

func listFilesHandler(ctx *gin.Context) {
	files, err := service.Instance.ListAllFiles(ctx)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	resp, err := newFileListResponse(files)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp.Files)
}

// adminDeleteFileHandler reuses the ownership-checked delete; the elevated
// role admits any record and the owner's counter is the one decremented.
func adminDeleteFileHandler(ctx *gin.Context) {
	if err := service.Instance.Delete(ctx, userFrom(ctx), ctx.Param("id")); err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

func setFileLimitHandler(ctx *gin.Context) {
	var req dto.UpdateFileLimitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.NewLimit == nil {
		abortErr(ctx, model.NewError(model.ErrCodeInvalidArgument,
			"json field `new_limit` is required"))
		return
	}

	if err := service.Instance.SetFileLimit(ctx, ctx.Param("id"), *req.NewLimit); err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("File limit updated to %d", *req.NewLimit),
	})
}

func setMaxFileSizeHandler(ctx *gin.Context) {
	var req dto.UpdateMaxFileSizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.MaxFileSize == nil {
		abortErr(ctx, model.NewError(model.ErrCodeInvalidArgument,
			"json field `max_file_size` is required"))
		return
	}

	if err := service.Instance.SetMaxFileSize(ctx, ctx.Param("id"), *req.MaxFileSize); err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Max file size updated to %d", *req.MaxFileSize),
	})
}

func setUserTypeHandler(ctx *gin.Context) {
	var req dto.UpdateUserTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserType == "" {
		abortErr(ctx, model.NewError(model.ErrCodeInvalidArgument,
			"json field `user_type` is required"))
		return
	}

	err := service.Instance.SetRole(ctx,
		userFrom(ctx), ctx.Param("id"), model.Role(req.UserType))
	if err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User type updated to %s", req.UserType),
	})
}

func userFilesHandler(ctx *gin.Context) {
	files, err := service.Instance.ListUserFiles(ctx, ctx.Param("id"))
	if err != nil {
		abortErr(ctx, err)
		return
	}

	resp, err := newFileListResponse(files)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp.Files)
}

func statsHandler(ctx *gin.Context) {
	stats, err := service.Instance.Stats(ctx)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
