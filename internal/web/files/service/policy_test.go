package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/datagate/internal/web/files/model"
)

func i64(v int64) *int64 { return &v }

func TestCheckAdmission(t *testing.T) {
	t.Parallel()

	t.Run("under limit admits", func(t *testing.T) {
		t.Parallel()
		u := &model.User{UID: "u1", FileLimit: i64(10), FileCount: 3}
		require.NoError(t, CheckAdmission(u, 1))
	})

	t.Run("exactly at limit admits", func(t *testing.T) {
		t.Parallel()
		u := &model.User{UID: "u1", FileLimit: i64(10), FileCount: 9}
		require.NoError(t, CheckAdmission(u, 1))
	})

	t.Run("one past limit rejects", func(t *testing.T) {
		t.Parallel()
		u := &model.User{UID: "u1", FileLimit: i64(10), FileCount: 10}
		err := CheckAdmission(u, 1)
		require.Error(t, err)
		require.True(t, model.IsCode(err, model.ErrCodeQuotaExceeded))
	})

	t.Run("batch counted as a whole", func(t *testing.T) {
		t.Parallel()
		u := &model.User{UID: "u1", FileLimit: i64(10), FileCount: 8}
		require.NoError(t, CheckAdmission(u, 2))
		err := CheckAdmission(u, 3)
		require.True(t, model.IsCode(err, model.ErrCodeQuotaExceeded))
	})

	t.Run("unset limit falls back to default", func(t *testing.T) {
		t.Parallel()
		u := &model.User{UID: "u1", FileCount: model.DefaultFileLimit - 1}
		require.NoError(t, CheckAdmission(u, 1))
		err := CheckAdmission(u, 2)
		require.True(t, model.IsCode(err, model.ErrCodeQuotaExceeded))
	})

	t.Run("explicit zero limit rejects any upload", func(t *testing.T) {
		t.Parallel()
		u := &model.User{UID: "u1", FileLimit: i64(0)}
		err := CheckAdmission(u, 1)
		require.True(t, model.IsCode(err, model.ErrCodeQuotaExceeded))
	})
}

func TestCheckIncomingFile(t *testing.T) {
	t.Parallel()
	u := &model.User{UID: "u1", MaxFileSize: i64(1024)}

	t.Run("allowed file passes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, CheckIncomingFile(u, "report.pdf", 512, "application/pdf"))
	})

	t.Run("uppercase extension normalized", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, CheckIncomingFile(u, "PHOTO.JPG", 512, "image/jpeg"))
	})

	t.Run("executable rejected regardless of size", func(t *testing.T) {
		t.Parallel()
		err := CheckIncomingFile(u, "setup.exe", 1<<30, "application/octet-stream")
		require.True(t, model.IsCode(err, model.ErrCodeInvalidFile))
	})

	t.Run("dangerous extensions rejected regardless of declared type", func(t *testing.T) {
		t.Parallel()
		cases := []struct {
			fileName    string
			contentType string
		}{
			{"setup.exe", "application/octet-stream"},
			{"run.bat", "text/plain"},
			{"deploy.sh", "text/x-shellscript"},
			{"deploy.sh", "text/plain"},
		}
		for _, tc := range cases {
			err := CheckIncomingFile(u, tc.fileName, 10, tc.contentType)
			require.True(t, model.IsCode(err, model.ErrCodeInvalidFile), tc.fileName)
		}
	})

	t.Run("missing extension rejected", func(t *testing.T) {
		t.Parallel()
		err := CheckIncomingFile(u, "README", 10, "text/plain")
		require.True(t, model.IsCode(err, model.ErrCodeInvalidFile))
	})

	t.Run("allowed extension with disallowed mime rejected", func(t *testing.T) {
		t.Parallel()
		err := CheckIncomingFile(u, "notes.txt", 10, "application/octet-stream")
		require.True(t, model.IsCode(err, model.ErrCodeInvalidFile))
	})

	t.Run("mime parameters stripped", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, CheckIncomingFile(u, "notes.txt", 10, "text/plain; charset=utf-8"))
	})

	t.Run("empty content type rejected", func(t *testing.T) {
		t.Parallel()
		err := CheckIncomingFile(u, "notes.txt", 10, "")
		require.True(t, model.IsCode(err, model.ErrCodeInvalidFile))
	})

	t.Run("size exactly at ceiling passes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, CheckIncomingFile(u, "a.txt", 1024, "text/plain"))
	})

	t.Run("size one past ceiling rejected", func(t *testing.T) {
		t.Parallel()
		err := CheckIncomingFile(u, "a.txt", 1025, "text/plain")
		require.True(t, model.IsCode(err, model.ErrCodeFileTooLarge))
	})

	t.Run("unset ceiling falls back to default", func(t *testing.T) {
		t.Parallel()
		noCeiling := &model.User{UID: "u2"}
		require.NoError(t, CheckIncomingFile(noCeiling, "a.txt", model.DefaultMaxFileSize, "text/plain"))
		err := CheckIncomingFile(noCeiling, "a.txt", model.DefaultMaxFileSize+1, "text/plain")
		require.True(t, model.IsCode(err, model.ErrCodeFileTooLarge))
	})
}

func TestCheckOwnership(t *testing.T) {
	t.Parallel()
	file := &model.File{OwnerUID: "owner"}

	t.Run("owner allowed", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, CheckOwnership(&model.User{UID: "owner"}, file))
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		t.Parallel()
		err := CheckOwnership(&model.User{UID: "other"}, file)
		require.True(t, model.IsCode(err, model.ErrCodeForbidden))
	})

	t.Run("elevated stranger allowed", func(t *testing.T) {
		t.Parallel()
		admin := &model.User{UID: "other", Role: model.RoleElevated}
		require.NoError(t, CheckOwnership(admin, file))
	})
}

func TestCheckRoleChange(t *testing.T) {
	t.Parallel()
	actor := &model.User{UID: "admin1", Role: model.RoleElevated}

	t.Run("promote other", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, CheckRoleChange(actor, "u1", model.RoleElevated))
	})

	t.Run("demote other", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, CheckRoleChange(actor, "u1", model.RoleStandard))
	})

	t.Run("self promotion is a no-op but allowed", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, CheckRoleChange(actor, "admin1", model.RoleElevated))
	})

	t.Run("self demotion rejected", func(t *testing.T) {
		t.Parallel()
		err := CheckRoleChange(actor, "admin1", model.RoleStandard)
		require.True(t, model.IsCode(err, model.ErrCodeInvalidArgument))
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		t.Parallel()
		err := CheckRoleChange(actor, "u1", model.Role("superuser"))
		require.True(t, model.IsCode(err, model.ErrCodeInvalidArgument))
	})
}
