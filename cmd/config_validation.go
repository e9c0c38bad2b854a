package cmd

import (
	"strings"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
)

// configGetter retrieves configuration values by dotted key path.
type configGetter func(key string) string

// validateStartupConfig validates startup configuration from the shared
// config source and returns an error when any value violates constraints.
func validateStartupConfig() error {
	return validateStartupConfigWithGetter(gconfig.Shared.GetString)
}

func validateStartupConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)

	validateSecretConfig(get, &validationErrs)
	validateDBConfig(get, &validationErrs)
	validateStorageConfig(get, &validationErrs)

	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

func validateSecretConfig(get configGetter, errs *[]string) {
	if len(get("settings.secret")) < 16 {
		*errs = append(*errs, "settings.secret must be at least 16 characters")
	}
}

func validateDBConfig(get configGetter, errs *[]string) {
	for _, key := range []string{
		"settings.db.datagate.addr",
		"settings.db.datagate.db",
	} {
		if get(key) == "" {
			*errs = append(*errs, key+" must be set")
		}
	}
}

func validateStorageConfig(get configGetter, errs *[]string) {
	for _, key := range []string{
		"settings.storage.endpoint",
		"settings.storage.bucket",
	} {
		if get(key) == "" {
			*errs = append(*errs, key+" must be set")
		}
	}
}
