package s3wr

// Config defines an S3-compatible endpoint and target bucket.
type Config struct {
	// Endpoint overrides the AWS endpoint; leave empty for AWS itself.
	Endpoint     string `yaml:"endpoint"`
	Region       string `yaml:"region"         default:"us-east-1"`
	AccessKey    string `yaml:"access_key"     validate:"required"`
	SecretKey    string `yaml:"secret_key"     validate:"required" mask:"true"`
	Bucket       string `yaml:"bucket"         validate:"required"`
	UsePathStyle bool   `yaml:"use_path_style" default:"true"`
}
