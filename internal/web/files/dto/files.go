// Package dto defines the request and response shapes of the REST surface.
package dto

import (
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/jinzhu/copier"

	"github.com/Laisky/datagate/internal/web/files/model"
)

// IncomingFile is one file extracted from a multipart request.
type IncomingFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// FileResponse is one file record as returned to clients.
type FileResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
	DownloadURL string    `json:"download_url,omitempty"`
}

// NewFileResponse converts a file record into its response shape.
func NewFileResponse(file *model.File) (*FileResponse, error) {
	resp := new(FileResponse)
	if err := copier.Copy(resp, file); err != nil {
		return nil, errors.Wrap(err, "copy file record")
	}

	resp.ID = file.ID.Hex()
	resp.UploadedAt = file.CreatedAt
	return resp, nil
}

// FileUploadResponse confirms a single persisted upload.
type FileUploadResponse struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	Message  string `json:"message"`
}

// FailedUpload reports one file the batch could not persist.
type FailedUpload struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

// BatchUploadResponse sums a batch: successful_count + failed_count equals
// the number of files attempted.
type BatchUploadResponse struct {
	SuccessfulUploads []*FileUploadResponse `json:"successful_uploads"`
	FailedUploads     []*FailedUpload       `json:"failed_uploads"`
	TotalFiles        int                   `json:"total_files"`
	SuccessfulCount   int                   `json:"successful_count"`
	FailedCount       int                   `json:"failed_count"`
}

// FileListResponse lists a user's files with a quota snapshot.
type FileListResponse struct {
	Files         []*FileResponse `json:"files"`
	TotalCount    int             `json:"total_count"`
	UserFileLimit int64           `json:"user_file_limit"`
	UserFileCount int64           `json:"user_file_count"`
}

// UserResponse is one user record as returned to administrators.
type UserResponse struct {
	UID       string     `json:"uid"`
	Email     string     `json:"email"`
	UserType  model.Role `json:"user_type"`
	FileLimit int64      `json:"file_limit"`
	FileCount int64      `json:"file_count"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewUserResponse converts a user record into its response shape.
func NewUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		UID:       user.UID,
		Email:     user.Email,
		UserType:  user.Role,
		FileLimit: user.EffectiveFileLimit(),
		FileCount: user.FileCount,
		CreatedAt: user.CreatedAt,
	}
}

// UpdateFileLimitRequest adjusts a user's file count ceiling.
type UpdateFileLimitRequest struct {
	NewLimit *int64 `json:"new_limit"`
}

// UpdateMaxFileSizeRequest adjusts a user's single-file byte ceiling.
type UpdateMaxFileSizeRequest struct {
	MaxFileSize *int64 `json:"max_file_size"`
}

// UpdateUserTypeRequest changes a user's role.
type UpdateUserTypeRequest struct {
	UserType string `json:"user_type"`
}

// AdminStats is the administrative dashboard summary.
type AdminStats struct {
	TotalUsers       int     `json:"total_users"`
	AdminUsers       int     `json:"admin_users"`
	RegularUsers     int     `json:"regular_users"`
	TotalFiles       int     `json:"total_files"`
	TotalStorageByte int64   `json:"total_storage_bytes"`
	TotalStorageMB   float64 `json:"total_storage_mb"`
}
