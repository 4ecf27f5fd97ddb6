package shared

// Asynq task types
const (
	TypeImportBooks          = "import:books"
	TypeCleanupImportUploads = "import:cleanup_uploads"
)

// Asynq queues
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Gin context keys set by the auth middleware
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "email"
	ContextUserRole  = "role"
	ContextRequestID = "request_id"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
