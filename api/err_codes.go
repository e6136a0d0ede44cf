package api

const (
	CodeInvalidResourceID  = "INVALID_RESOURCE_ID"
	CodeInvalidWorkspaceID = "INVALID_WORKSPACE_ID"
	CodeResourceInactive   = "RESOURCE_INACTIVE"
	CodeResourceUntyped    = "RESOURCE_UNTYPED"
)
