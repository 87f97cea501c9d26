// internal/app/store/universities/universitystore.go

// Package universitystore reads the university catalog. The catalog is
// seeded out of band; this store only looks universities up by name and
// resolves module references during group creation.
package universitystore

import (
	"context"

	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("universities")}
}

// GetByName loads a university by case-insensitive name.
func (s *Store) GetByName(ctx context.Context, name string) (models.University, error) {
	var u models.University
	if err := s.c.FindOne(ctx, bson.M{"name_ci": text.Fold(name)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.University{}, apperr.New(apperr.NotFound, "university not found")
		}
		return models.University{}, apperr.Wrap(apperr.Transient, "load university", err)
	}
	return u, nil
}

// FindModule resolves moduleID within the named university and course.
func (s *Store) FindModule(ctx context.Context, university, course, moduleID string) (models.Module, error) {
	u, err := s.GetByName(ctx, university)
	if err != nil {
		return models.Module{}, err
	}
	courseCI := text.Fold(course)
	for _, c := range u.Courses {
		if text.Fold(c.Name) != courseCI {
			continue
		}
		for _, m := range c.Modules {
			if m.ModuleID == moduleID {
				return m, nil
			}
		}
	}
	return models.Module{}, apperr.New(apperr.NotFound, "module not found")
}
