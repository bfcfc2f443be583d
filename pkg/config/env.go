package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvLayoutServiceURL     = "LAYOUT_SERVICE_URL"
	EnvLayoutClientTimeout  = "LAYOUT_CLIENT_TIMEOUT"
	EnvSaveTimeout          = "SAVE_TIMEOUT"
	EnvSessionTTL           = "SESSION_TTL"
	EnvDesignerDefaultsFile = "DESIGNER_DEFAULTS_FILE"

	EnvLayoutEventsTopic   = "LAYOUT_EVENTS_TOPIC"
	EnvLayoutEventsEnabled = "LAYOUT_EVENTS_ENABLED"
)
