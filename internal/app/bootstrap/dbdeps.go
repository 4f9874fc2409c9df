// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds back-end dependencies for the app.
//
// Backend is always present. The Mongo handles are nil when no audit
// database is configured.
type DBDeps struct {
	Backend       *api.Client
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
