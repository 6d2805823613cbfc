// internal/app/bootstrap/dbdeps.go
package bootstrap

import "go.mongodb.org/mongo-driver/mongo"

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// It is created in ConnectDB and passed to EnsureSchema, Startup,
// BuildHandler and Shutdown. Shutdown closes these connections.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
