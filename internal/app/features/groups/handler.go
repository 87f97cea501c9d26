// internal/app/features/groups/handler.go
package groups

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// It holds the Mongo database, the logger, and the request validator so
// the operation handlers (create, list, mine, join, leave) share one
// set of core dependencies.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Validate *validator.Validate
}

// NewHandler constructs a groups Handler. It is typically called from
// the bootstrap BuildHandler function, where the application's DB and
// logger are already initialized.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}
