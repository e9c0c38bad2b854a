package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestObjectKeyIsOpaque ensures the display name never leaks into the key
// beyond its extension, and keys are unique per call.
func TestObjectKeyIsOpaque(t *testing.T) {
	k1 := objectKey("uid-1", "report.PDF")
	k2 := objectKey("uid-1", "report.PDF")

	require.NotEqual(t, k1, k2)
	require.True(t, strings.HasPrefix(k1, "uid-1/"))
	require.True(t, strings.HasSuffix(k1, ".pdf"))
	require.NotContains(t, k1, "report")

	token := strings.TrimSuffix(strings.TrimPrefix(k1, "uid-1/"), ".pdf")
	_, err := uuid.Parse(token)
	require.NoError(t, err)
}

func TestObjectKeyWithoutExtension(t *testing.T) {
	k := objectKey("uid-2", "README")
	require.True(t, strings.HasPrefix(k, "uid-2/"))
	require.NotContains(t, k, "README")
	require.False(t, strings.Contains(strings.TrimPrefix(k, "uid-2/"), "."))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(Config{Endpoint: "localhost:9000"})
	require.Error(t, err)
}
