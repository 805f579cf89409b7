package storage

const (
	// KindFS stores objects on the local filesystem.
	KindFS = "fs"

	// KindMinio stores objects in a MinIO or S3 compatible service.
	KindMinio = "minio"
)

// StorageConfig
type StorageConfig struct {
	Kind string

	Endpoint  string
	UseSSL    bool
	AccessKey string
	SecretKey string

	Region                 string
	CreateBucketIfNotExist bool
}
