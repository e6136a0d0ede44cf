package restype

const (
	CodeUnknownResourceType = "UNKNOWN_RESOURCE_TYPE"
	CodeReadFailed          = "RESOURCE_READ_FAILED"
	CodeWriteFailed         = "RESOURCE_WRITE_FAILED"
	CodeNotPreviewable      = "RESOURCE_NOT_PREVIEWABLE"
)
