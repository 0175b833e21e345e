package config

// Defaults mirrored from the struct tags in config.go. TestDefaultConstantsMatch keeps them in sync.
const (
	DefaultVersion    = "1"
	DefaultAPIBaseURL = "http://localhost:12600"
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = "12600"
	DefaultStorage    = "sqlite"
	DefaultLogLevel   = "info"
)

var SupportedVersions = []string{"1"}

const (
	EnvAPIURL      = "POSTDECK_API_URL"
	EnvLogLevel    = "POSTDECK_LOG_LEVEL"
	EnvS3AccessKey = "POSTSD_S3_ACCESS_KEY"
	EnvS3SecretKey = "POSTSD_S3_SECRET_KEY"
)

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageS3     = "s3"
)
