package filestore

const (
	// CodeObjectNotFound is returned when no object exists under the key.
	CodeObjectNotFound = "OBJECT_NOT_FOUND"
)
