package storage

// Config points at the S3 compatible bucket that receives exports.
type Config struct {
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives exported comparison CSVs.
	Bucket string `mapstructure:"bucket" default:"tracker-exports"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds the TLS handshake and response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
