package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "stallmap"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLayoutServiceURL    = "http://localhost:8081"
	DefaultLayoutClientTimeout = 10 * time.Second
	DefaultSaveTimeout         = 30 * time.Second
	DefaultSessionTTL          = 2 * time.Hour

	DefaultLayoutEventsTopic   = "layout.updated"
	DefaultLayoutEventsEnabled = false
)
