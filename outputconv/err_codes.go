package outputconv

const (
	CodeInvalidOutputValue = "INVALID_OUTPUT_VALUE"
	CodeMissingOutputType  = "MISSING_OUTPUT_RESOURCE_TYPE"
)
