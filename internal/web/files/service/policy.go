package service

import (
	"path/filepath"
	"strings"

	"github.com/Laisky/datagate/internal/web/files/model"
)

// allowedExtensions is the fixed extension allow-list: documents, images,
// audio, video, archives, and common text/code formats.
var allowedExtensions = map[string]struct{}{
	// documents
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
	".ppt": {}, ".pptx": {}, ".odt": {}, ".ods": {}, ".odp": {},
	// images
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {},
	".webp": {}, ".svg": {}, ".tif": {}, ".tiff": {},
	// audio
	".mp3": {}, ".wav": {}, ".ogg": {}, ".flac": {}, ".m4a": {}, ".aac": {},
	// video
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".webm": {},
	// archives
	".zip": {}, ".tar": {}, ".gz": {}, ".tgz": {}, ".bz2": {},
	".rar": {}, ".7z": {},
	// text & code
	".txt": {}, ".md": {}, ".rst": {}, ".csv": {}, ".tsv": {},
	".json": {}, ".xml": {}, ".yaml": {}, ".yml": {}, ".toml": {},
	".html": {}, ".htm": {}, ".css": {}, ".js": {}, ".ts": {},
	".go": {}, ".py": {}, ".rb": {}, ".java": {}, ".c": {}, ".h": {},
	".cpp": {}, ".rs": {}, ".sql": {}, ".log": {},
	// never .exe, .bat, or .sh: executables and shell scripts stay out
}

// allowedMIMEPrefixes is the fixed content-type allow-list. A declared type
// must match one prefix. Both this and the extension list are enforced; a
// file failing either is rejected.
var allowedMIMEPrefixes = []string{
	"text/",
	"image/",
	"video/",
	"audio/",
	"application/pdf",
	"application/json",
	"application/xml",
	"application/zip",
	"application/gzip",
	"application/x-tar",
	"application/x-bzip2",
	"application/x-rar-compressed",
	"application/x-7z-compressed",
	"application/msword",
	"application/vnd.ms-excel",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.",
	"application/vnd.oasis.opendocument.",
}

// CheckAdmission decides whether incoming new files fit the user's file
// count quota. Exactly at the limit admits.
func CheckAdmission(user *model.User, incoming int) error {
	limit := user.EffectiveFileLimit()
	if user.FileCount+int64(incoming) > limit {
		return model.NewError(model.ErrCodeQuotaExceeded,
			"uploading %d file(s) would exceed limit (%d/%d)",
			incoming, user.FileCount, limit)
	}

	return nil
}

// CheckIncomingFile validates one file's extension, declared content type,
// and byte size against the user's ceiling. Extension and MIME checks are
// an AND: both must pass.
func CheckIncomingFile(user *model.User, fileName string, size int64, contentType string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return model.NewError(model.ErrCodeInvalidFile,
			"file extension `%s` is not allowed", ext)
	}

	if !mimeAllowed(contentType) {
		return model.NewError(model.ErrCodeInvalidFile,
			"content type `%s` is not allowed", contentType)
	}

	if maxSize := user.EffectiveMaxFileSize(); size > maxSize {
		return model.NewError(model.ErrCodeFileTooLarge,
			"file size %d exceeds the %d byte limit", size, maxSize)
	}

	return nil
}

func mimeAllowed(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" {
		return false
	}

	for _, prefix := range allowedMIMEPrefixes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}

	return false
}

// CheckOwnership decides whether the actor may mutate the file record:
// the owner, or any elevated actor.
func CheckOwnership(actor *model.User, file *model.File) error {
	if actor.UID == file.OwnerUID || actor.IsElevated() {
		return nil
	}

	return model.NewError(model.ErrCodeForbidden,
		"you can only act on your own files")
}

// CheckRoleChange guards role updates: an elevated actor may not strip its
// own elevated role.
func CheckRoleChange(actor *model.User, targetUID string, newRole model.Role) error {
	if !newRole.Valid() {
		return model.NewError(model.ErrCodeInvalidArgument,
			"user type must be `%s` or `%s`", model.RoleElevated, model.RoleStandard)
	}

	if targetUID == actor.UID && newRole != model.RoleElevated {
		return model.NewError(model.ErrCodeInvalidArgument,
			"you cannot demote yourself")
	}

	return nil
}
