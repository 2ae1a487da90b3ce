package logg

// Field keys shared by every component logger.
const (
	Layer     = "layer"
	Operation = "operation"
	Action    = "action"
	Tool      = "tool"
	Endpoint  = "endpoint"
	URL       = "url"
	Ref       = "ref"
	RequestID = "request_id"
	TaskID    = "task_id"
	Provider  = "provider"
)
