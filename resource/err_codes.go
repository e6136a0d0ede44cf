package resource

const (
	CodeResourceNotFound = "RESOURCE_NOT_FOUND"
	CodeMetadataNotFound = "RESOURCE_METADATA_NOT_FOUND"
	CodeResourceExists   = "RESOURCE_ALREADY_EXISTS"
	CodeInvalidMetadata  = "INVALID_RESOURCE_METADATA"
	CodeMetadataTooLarge = "RESOURCE_METADATA_TOO_LARGE"
)
