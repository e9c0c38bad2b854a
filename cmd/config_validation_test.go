package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeGetter(values map[string]string) configGetter {
	return func(key string) string {
		return values[key]
	}
}

func validConfigValues() map[string]string {
	return map[string]string{
		"settings.secret":           "0123456789abcdef",
		"settings.db.datagate.addr": "localhost:27017",
		"settings.db.datagate.db":   "datagate",
		"settings.storage.endpoint": "localhost:9000",
		"settings.storage.bucket":   "datagate",
	}
}

func TestValidateStartupConfig(t *testing.T) {
	t.Parallel()

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		err := validateStartupConfigWithGetter(fakeGetter(validConfigValues()))
		require.NoError(t, err)
	})

	t.Run("nil getter", func(t *testing.T) {
		t.Parallel()
		err := validateStartupConfigWithGetter(nil)
		require.Error(t, err)
	})

	t.Run("short secret rejected", func(t *testing.T) {
		t.Parallel()
		values := validConfigValues()
		values["settings.secret"] = "short"
		err := validateStartupConfigWithGetter(fakeGetter(values))
		require.Error(t, err)
		require.Contains(t, err.Error(), "settings.secret")
	})

	t.Run("missing db addr rejected", func(t *testing.T) {
		t.Parallel()
		values := validConfigValues()
		delete(values, "settings.db.datagate.addr")
		err := validateStartupConfigWithGetter(fakeGetter(values))
		require.Error(t, err)
		require.Contains(t, err.Error(), "settings.db.datagate.addr")
	})

	t.Run("missing storage bucket rejected", func(t *testing.T) {
		t.Parallel()
		values := validConfigValues()
		values["settings.storage.bucket"] = ""
		err := validateStartupConfigWithGetter(fakeGetter(values))
		require.Error(t, err)
		require.Contains(t, err.Error(), "settings.storage.bucket")
	})

	t.Run("all errors reported together", func(t *testing.T) {
		t.Parallel()
		err := validateStartupConfigWithGetter(fakeGetter(map[string]string{}))
		require.Error(t, err)
		require.Contains(t, err.Error(), "settings.secret")
		require.Contains(t, err.Error(), "settings.db.datagate.db")
		require.Contains(t, err.Error(), "settings.storage.endpoint")
	})
}
