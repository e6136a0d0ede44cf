package metaops

const (
	CodeInvalidSetPayload = "INVALID_SET_PAYLOAD"
)
