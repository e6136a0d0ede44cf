package miniowr

// Config defines the MinIO connection and target bucket.
type Config struct {
	// Endpoint is host:port of the MinIO server.
	Endpoint  string `yaml:"endpoint"   validate:"required"`
	AccessKey string `yaml:"access_key" validate:"required"`
	SecretKey string `yaml:"secret_key" validate:"required" mask:"true"`
	Bucket    string `yaml:"bucket"     validate:"required"`
	UseSSL    bool   `yaml:"use_ssl"    default:"false"`
	// CreateBucket makes the bucket at startup when it does not exist.
	CreateBucket bool `yaml:"create_bucket" default:"false"`
}
