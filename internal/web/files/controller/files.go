package controller

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/datagate/internal/web/files/dto"
	"github.com/Laisky/datagate/internal/web/files/model"
	"github.com/Laisky/datagate/internal/web/files/service"
)

// readIncoming drains one multipart part, reading at most one byte beyond
// the caller's size ceiling so an oversized body never fills memory.
func readIncoming(actor *model.User, fh *multipart.FileHeader) (*dto.IncomingFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open multipart file `%s`", fh.Filename)
	}
	defer f.Close() // nolint: errcheck

	content, err := io.ReadAll(io.LimitReader(f, actor.EffectiveMaxFileSize()+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read multipart file `%s`", fh.Filename)
	}

	return &dto.IncomingFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func uploadHandler(ctx *gin.Context) {
	actor := userFrom(ctx)

	fh, err := ctx.FormFile("file")
	if err != nil {
		abortErr(ctx, model.NewError(model.ErrCodeInvalidArgument,
			"multipart field `file` is required"))
		return
	}

	in, err := readIncoming(actor, fh)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	file, err := service.Instance.Upload(ctx, actor, in)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &dto.FileUploadResponse{
		FileID:   file.ID.Hex(),
		FileName: file.FileName,
		FileSize: file.FileSize,
		Message:  "File uploaded successfully",
	})
}

// collectIncoming drains every part of the batch. A part that cannot be
// read joins the failed list instead of failing the batch.
func collectIncoming(actor *model.User,
	fhs []*multipart.FileHeader) (items []*dto.IncomingFile, failed []*dto.FailedUpload) {
	for _, fh := range fhs {
		in, err := readIncoming(actor, fh)
		if err != nil {
			failed = append(failed, &dto.FailedUpload{
				FileName: fh.Filename,
				Error:    "failed to read file",
			})
			continue
		}

		items = append(items, in)
	}

	return items, failed
}

func uploadBatchHandler(ctx *gin.Context) {
	actor := userFrom(ctx)

	form, err := ctx.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		abortErr(ctx, model.NewError(model.ErrCodeInvalidArgument,
			"multipart field `files` is required"))
		return
	}

	// the admission precheck covers every part, readable or not
	parts := form.File["files"]
	if err := service.CheckAdmission(actor, len(parts)); err != nil {
		abortErr(ctx, err)
		return
	}

	items, failed := collectIncoming(actor, parts)
	resp, err := service.Instance.UploadBatch(ctx, actor, items)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	resp.FailedUploads = append(resp.FailedUploads, failed...)
	resp.FailedCount += len(failed)
	resp.TotalFiles = len(parts)

	// partial failures still answer 200
	ctx.JSON(http.StatusOK, resp)
}

func myFilesHandler(ctx *gin.Context) {
	actor := userFrom(ctx)

	files, err := service.Instance.ListUserFiles(ctx, actor.UID)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	resp, err := newFileListResponse(files)
	if err != nil {
		abortErr(ctx, err)
		return
	}

	resp.UserFileLimit = actor.EffectiveFileLimit()
	resp.UserFileCount = actor.FileCount
	ctx.JSON(http.StatusOK, resp)
}

func newFileListResponse(files []*model.File) (*dto.FileListResponse, error) {
	resp := &dto.FileListResponse{
		Files:      make([]*dto.FileResponse, 0, len(files)),
		TotalCount: len(files),
	}
	for _, f := range files {
		fr, err := dto.NewFileResponse(f)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		resp.Files = append(resp.Files, fr)
	}

	return resp, nil
}

func deleteFileHandler(ctx *gin.Context) {
	if err := service.Instance.Delete(ctx, userFrom(ctx), ctx.Param("id")); err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

func downloadURLHandler(ctx *gin.Context) {
	url, err := service.Instance.DownloadURL(ctx, userFrom(ctx), ctx.Param("id"))
	if err != nil {
		abortErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"download_url": url})
}
