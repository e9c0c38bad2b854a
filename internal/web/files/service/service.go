// Package service implements quota enforcement and upload orchestration.
package service

import (
	"context"
	"math"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/datagate/internal/web/files/dao"
	"github.com/Laisky/datagate/internal/web/files/dto"
	"github.com/Laisky/datagate/internal/web/files/model"
	"github.com/Laisky/datagate/library/log"
	"github.com/Laisky/datagate/library/storage"
)

// UserStore is the per-user record contract.
type UserStore interface {
	Get(ctx context.Context, uid string) (*model.User, error)
	IncrFileCount(ctx context.Context, uid string, delta int64) error
	SetFileCount(ctx context.Context, uid string, count int64) error
	SetFileLimit(ctx context.Context, uid string, limit int64) error
	SetMaxFileSize(ctx context.Context, uid string, size int64) error
	SetRole(ctx context.Context, uid string, role model.Role) error
	List(ctx context.Context) ([]*model.User, error)
}

// FileStore is the per-file record contract. All listings are newest first.
type FileStore interface {
	Create(ctx context.Context, file *model.File) (string, error)
	Get(ctx context.Context, id string) (*model.File, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerUID string) ([]*model.File, error)
	ListAll(ctx context.Context) ([]*model.File, error)
	CountByOwner(ctx context.Context, ownerUID string) (int64, error)
	SetDownloadURL(ctx context.Context, id, url string) error
}

// ObjectStore is the blob lifecycle contract.
type ObjectStore interface {
	Put(ctx context.Context, ownerUID, fileName string, content []byte, contentType string) (string, error)
	Delete(ctx context.Context, storagePath string) error
	Exists(ctx context.Context, storagePath string) (bool, error)
	SignDownloadURL(ctx context.Context, storagePath string, ttl time.Duration) (string, time.Time, error)
}

var Instance *Type

func Initialize(ctx context.Context) {
	dao.Initialize(ctx)

	Instance = New(dao.InstanceUsers, dao.InstanceFiles, model.Store)
}

// Type orchestrates record stores and the object store per request.
type Type struct {
	users   UserStore
	files   FileStore
	objects ObjectStore
}

func New(users UserStore, files FileStore, objects ObjectStore) *Type {
	return &Type{
		users:   users,
		files:   files,
		objects: objects,
	}
}

// GetUser loads the user record for an authenticated uid.
func (s *Type) GetUser(ctx context.Context, uid string) (*model.User, error) {
	return s.users.Get(ctx, uid)
}

// Upload admits, stores, and records a single file, then adjusts the
// owner's counter.
func (s *Type) Upload(ctx context.Context,
	actor *model.User, in *dto.IncomingFile) (*model.File, error) {
	if err := CheckAdmission(actor, 1); err != nil {
		return nil, err
	}

	file, err := s.uploadOne(ctx, actor, in)
	if err != nil {
		return nil, err
	}

	s.bumpFileCount(ctx, actor.UID, 1)
	return file, nil
}

// UploadBatch admits the batch as a whole against the count quota, then
// uploads file by file. A per-file failure does not abort the rest; the
// counter is incremented by the number of files actually persisted.
func (s *Type) UploadBatch(ctx context.Context,
	actor *model.User, items []*dto.IncomingFile) (*dto.BatchUploadResponse, error) {
	if err := CheckAdmission(actor, len(items)); err != nil {
		return nil, err
	}

	resp := &dto.BatchUploadResponse{
		SuccessfulUploads: []*dto.FileUploadResponse{},
		FailedUploads:     []*dto.FailedUpload{},
		TotalFiles:        len(items),
	}
	for _, in := range items {
		file, err := s.uploadOne(ctx, actor, in)
		if err != nil {
			resp.FailedUploads = append(resp.FailedUploads, &dto.FailedUpload{
				FileName: in.FileName,
				Error:    safeFailureMessage(err),
			})
			continue
		}

		resp.SuccessfulUploads = append(resp.SuccessfulUploads, &dto.FileUploadResponse{
			FileID:   file.ID.Hex(),
			FileName: file.FileName,
			FileSize: file.FileSize,
			Message:  "Uploaded successfully",
		})
	}

	resp.SuccessfulCount = len(resp.SuccessfulUploads)
	resp.FailedCount = len(resp.FailedUploads)
	if resp.SuccessfulCount > 0 {
		s.bumpFileCount(ctx, actor.UID, int64(resp.SuccessfulCount))
	}

	return resp, nil
}

// uploadOne validates one file, writes the blob, then the record. If the
// record write fails after the blob write succeeded, the blob is deleted
// again so no orphan outlives the request.
func (s *Type) uploadOne(ctx context.Context,
	actor *model.User, in *dto.IncomingFile) (*model.File, error) {
	logger := gmw.GetLogger(ctx)

	size := int64(len(in.Content))
	if err := CheckIncomingFile(actor, in.FileName, size, in.ContentType); err != nil {
		return nil, err
	}

	path, err := s.objects.Put(ctx, actor.UID, in.FileName, in.Content, in.ContentType)
	if err != nil {
		return nil, errors.Wrapf(err, "upload blob `%s`", in.FileName)
	}

	file := &model.File{
		OwnerUID:    actor.UID,
		FileName:    in.FileName,
		FileSize:    size,
		ContentType: in.ContentType,
		StoragePath: path,
	}
	if _, err := s.files.Create(ctx, file); err != nil {
		if delErr := s.objects.Delete(ctx, path); delErr != nil {
			logger.Error("clean up orphaned blob",
				zap.Error(delErr), zap.String("storage_path", path))
		}

		return nil, errors.Wrapf(err, "create file record `%s`", in.FileName)
	}

	logger.Info("uploaded file",
		zap.String("owner", actor.UID),
		zap.String("file", in.FileName),
		zap.Int64("size", size))
	return file, nil
}

// bumpFileCount adjusts the denormalized counter. Failures are logged, not
// fatal: file records stay the source of truth and the reconcile repair
// rewrites drifted counters.
func (s *Type) bumpFileCount(ctx context.Context, uid string, delta int64) {
	if err := s.users.IncrFileCount(ctx, uid, delta); err != nil {
		gmw.GetLogger(ctx).Error("adjust file count",
			zap.Error(err), zap.String("uid", uid), zap.Int64("delta", delta))
	}
}

// ListUserFiles returns the owner's records newest first, each with a
// freshly signed download URL. A signing failure leaves the URL empty.
func (s *Type) ListUserFiles(ctx context.Context, ownerUID string) ([]*model.File, error) {
	files, err := s.files.ListByOwner(ctx, ownerUID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	s.signAll(ctx, files)
	return files, nil
}

// ListAllFiles returns every record newest first, for administrators.
func (s *Type) ListAllFiles(ctx context.Context) ([]*model.File, error) {
	files, err := s.files.ListAll(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	s.signAll(ctx, files)
	return files, nil
}

func (s *Type) signAll(ctx context.Context, files []*model.File) {
	logger := gmw.GetLogger(ctx)
	for _, f := range files {
		url, _, err := s.objects.SignDownloadURL(ctx, f.StoragePath, storage.DefaultSignTTL)
		if err != nil {
			logger.Warn("sign download url",
				zap.Error(err), zap.String("storage_path", f.StoragePath))
			f.DownloadURL = ""
			continue
		}

		f.DownloadURL = url
	}
}

// Delete destroys the blob first and the record second, so a partial
// failure can orphan a blobless record but never a recordless blob that a
// record still references. The owner's counter is decremented afterwards.
func (s *Type) Delete(ctx context.Context, actor *model.User, fileID string) error {
	file, err := s.files.Get(ctx, fileID)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := CheckOwnership(actor, file); err != nil {
		return err
	}

	if err := s.objects.Delete(ctx, file.StoragePath); err != nil {
		return errors.Wrapf(err, "delete blob of `%s`", fileID)
	}

	if err := s.files.Delete(ctx, fileID); err != nil {
		return errors.WithStack(err)
	}

	s.bumpFileCount(ctx, file.OwnerUID, -1)
	return nil
}

// DownloadURL mints a fresh signed URL for the file and refreshes the
// cached one on the record. The route is strictly owner-only: elevated
// actors obtain signed URLs through the admin listings instead.
func (s *Type) DownloadURL(ctx context.Context, actor *model.User, fileID string) (string, error) {
	file, err := s.files.Get(ctx, fileID)
	if err != nil {
		return "", errors.WithStack(err)
	}

	if actor.UID != file.OwnerUID {
		return "", model.NewError(model.ErrCodeForbidden,
			"you can only download your own files")
	}

	// a signed link for a vanished blob would only 404 later at the store
	ok, err := s.objects.Exists(ctx, file.StoragePath)
	if err != nil {
		return "", errors.Wrapf(err, "stat blob of `%s`", fileID)
	}
	if !ok {
		return "", model.NewError(model.ErrCodeNotFound,
			"file `%s` has no stored content", fileID)
	}

	url, _, err := s.objects.SignDownloadURL(ctx, file.StoragePath, storage.DefaultSignTTL)
	if err != nil {
		return "", errors.Wrapf(err, "sign download url of `%s`", fileID)
	}

	// cache refresh is best effort
	if err := s.files.SetDownloadURL(ctx, fileID, url); err != nil {
		gmw.GetLogger(ctx).Warn("cache download url",
			zap.Error(err), zap.String("file", fileID))
	}

	return url, nil
}

// ListUsers enumerates all user records, for administrators.
func (s *Type) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// SetFileLimit updates a user's file count ceiling.
func (s *Type) SetFileLimit(ctx context.Context, uid string, limit int64) error {
	if limit < 0 {
		return model.NewError(model.ErrCodeInvalidArgument,
			"file limit must be non-negative")
	}

	return s.users.SetFileLimit(ctx, uid, limit)
}

// SetMaxFileSize updates a user's single-file byte ceiling.
func (s *Type) SetMaxFileSize(ctx context.Context, uid string, size int64) error {
	if size <= 0 {
		return model.NewError(model.ErrCodeInvalidArgument,
			"max file size must be positive")
	}

	return s.users.SetMaxFileSize(ctx, uid, size)
}

// SetRole updates a user's role, guarded against self-demotion.
func (s *Type) SetRole(ctx context.Context,
	actor *model.User, targetUID string, newRole model.Role) error {
	if err := CheckRoleChange(actor, targetUID, newRole); err != nil {
		return err
	}

	return s.users.SetRole(ctx, targetUID, newRole)
}

// Stats summarizes users and files for the admin dashboard.
func (s *Type) Stats(ctx context.Context) (*dto.AdminStats, error) {
	var (
		users []*model.User
		files []*model.File
	)

	pool, ctx := errgroup.WithContext(ctx)
	pool.Go(func() (err error) {
		users, err = s.users.List(ctx)
		return errors.Wrap(err, "list users")
	})
	pool.Go(func() (err error) {
		files, err = s.files.ListAll(ctx)
		return errors.Wrap(err, "list files")
	})
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	stats := &dto.AdminStats{
		TotalUsers: len(users),
		TotalFiles: len(files),
	}
	for _, u := range users {
		if u.IsElevated() {
			stats.AdminUsers++
		}
	}
	stats.RegularUsers = stats.TotalUsers - stats.AdminUsers

	for _, f := range files {
		stats.TotalStorageByte += f.FileSize
	}
	stats.TotalStorageMB = math.Round(float64(stats.TotalStorageByte)/(1<<20)*100) / 100

	return stats, nil
}

// ReconcileFileCounts recomputes every user's counter from the files
// collection and rewrites the ones that drifted. File records are
// authoritative; the counter is only a denormalized admission gate.
func (s *Type) ReconcileFileCounts(ctx context.Context) (fixed int, err error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list users")
	}

	for _, u := range users {
		actual, err := s.files.CountByOwner(ctx, u.UID)
		if err != nil {
			return fixed, errors.Wrapf(err, "count files of `%s`", u.UID)
		}

		if actual == u.FileCount {
			continue
		}

		if err := s.users.SetFileCount(ctx, u.UID, actual); err != nil {
			return fixed, errors.Wrapf(err, "repair file count of `%s`", u.UID)
		}

		log.Logger.Info("repaired file count",
			zap.String("uid", u.UID),
			zap.Int64("stored", u.FileCount),
			zap.Int64("actual", actual))
		fixed++
	}

	return fixed, nil
}

// safeFailureMessage keeps policy reasons readable in batch reports while
// masking upstream internals.
func safeFailureMessage(err error) string {
	if model.CodeOf(err) != model.ErrCodeUpstream {
		return err.Error()
	}

	return "upload failed"
}
