package storage

const (
	// CodeStorageUnavailable means the bytes could not be reached: the source
	// is missing (type NotFound) or the remote failed (type Internal).
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	// CodeStorageWriteFailed means moving, copying or uploading failed.
	CodeStorageWriteFailed = "STORAGE_WRITE_FAILED"
)
