package elemset

const (
	CodeInvalidAttribute = "INVALID_ATTRIBUTE"
	CodeInvalidElement   = "INVALID_ELEMENT"
	CodeDuplicateElement = "DUPLICATE_ELEMENT"
	CodeTooManyElements  = "TOO_MANY_ELEMENTS"
	CodeKindMismatch     = "SET_KIND_MISMATCH"
	CodeNoSets           = "NO_SETS"
	CodeInvalidPayload   = "INVALID_SET_PAYLOAD"
)
