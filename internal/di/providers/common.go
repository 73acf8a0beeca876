package providers

import "time"

const (
	// shutdownTimeout bounds graceful shutdown of the HTTP server.
	shutdownTimeout = 30 * time.Second

	// storeInitTimeout bounds opening the database, migrating it and seeding the sample catalog.
	storeInitTimeout = time.Minute
)
