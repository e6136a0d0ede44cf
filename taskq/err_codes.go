package taskq

const (
	CodeNotStarted    = "TASK_QUEUE_NOT_STARTED"
	CodeInvalidTask   = "INVALID_TASK"
	CodePublishFailed = "TASK_PUBLISH_FAILED"
)
