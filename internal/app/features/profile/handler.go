// internal/app/features/profile/handler.go
package profile

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler bundles the dependencies for the profile endpoints.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Validate *validator.Validate
}

func NewHandler(db *mongo.Database, log *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      log,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}
