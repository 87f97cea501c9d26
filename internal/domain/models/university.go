// internal/domain/models/university.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// University is one catalog document with its courses and their modules
// embedded. The catalog is seeded out of band and read-only here; it is
// consulted during group creation to validate a module reference.
type University struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	NameCI  string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Courses []Course           `bson:"courses" json:"courses"`
}

// Course groups the modules offered under one degree program.
type Course struct {
	Name    string   `bson:"name" json:"name"`
	Modules []Module `bson:"modules" json:"modules"`
}

// Module is a catalog-defined course unit.
type Module struct {
	ModuleID string `bson:"module_id" json:"module_id"`
	Name     string `bson:"name" json:"name"`
	Year     int    `bson:"year" json:"year"`
}
