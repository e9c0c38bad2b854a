package dao

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/datagate/internal/web/files/model"
	"github.com/Laisky/datagate/library/config"
)

func TestFilesRoundTrip(t *testing.T) {
	if os.Getenv("RUN_DATAGATE_INTEGRATION_TESTS") == "" {
		t.Skip("integration test requires RUN_DATAGATE_INTEGRATION_TESTS=1, a reachable MongoDB instance and an S3 endpoint")
	}

	ctx := context.Background()
	config.LoadTest()
	Initialize(ctx)

	id, err := InstanceFiles.Create(ctx, &model.File{
		OwnerUID:    "it-owner",
		FileName:    "probe.txt",
		FileSize:    5,
		ContentType: "text/plain",
		StoragePath: "it-owner/probe",
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	file, err := InstanceFiles.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "probe.txt", file.FileName)

	files, err := InstanceFiles.ListByOwner(ctx, "it-owner")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	cnt, err := InstanceFiles.CountByOwner(ctx, "it-owner")
	require.NoError(t, err)
	require.GreaterOrEqual(t, cnt, int64(1))

	require.NoError(t, InstanceFiles.Delete(ctx, id))
	_, err = InstanceFiles.Get(ctx, id)
	require.True(t, model.IsCode(err, model.ErrCodeNotFound))
}
