// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/seeyou-app/seeyou/internal/app/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app. Stores is
// always populated; the Mongo client and database are nil on the
// memory backend.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Stores        store.Stores
}
