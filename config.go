package templatemark

import "github.com/goliatone/go-templatemark/internal/runtimeconfig"

var (
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
)

type (
	Config           = runtimeconfig.Config
	LoggingConfig    = runtimeconfig.LoggingConfig
	StorageConfig    = runtimeconfig.StorageConfig
	ConversionConfig = runtimeconfig.ConversionConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
