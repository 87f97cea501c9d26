package universitystore_test

import (
	"testing"

	universitystore "github.com/dalemusser/studyhub/internal/app/store/universities"
	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
)

func TestGetByName_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUniversity(ctx, "Test University", "Computer Science")

	store := universitystore.New(db)
	u, err := store.GetByName(ctx, "tEsT uNiVeRsItY")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if u.Name != "Test University" {
		t.Errorf("wrong university: %q", u.Name)
	}

	_, err = store.GetByName(ctx, "No Such Place")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestFindModule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUniversity(ctx, "Test University", "Computer Science",
		models.Module{ModuleID: "CS101", Name: "Intro to Programming", Year: 1},
		models.Module{ModuleID: "CS201", Name: "Data Structures", Year: 2},
	)

	store := universitystore.New(db)
	m, err := store.FindModule(ctx, "Test University", "computer science", "CS201")
	if err != nil {
		t.Fatalf("FindModule: %v", err)
	}
	if m.Name != "Data Structures" || m.Year != 2 {
		t.Errorf("wrong module: %+v", m)
	}

	_, err = store.FindModule(ctx, "Test University", "Computer Science", "CS999")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound for unknown module, got %v", err)
	}

	_, err = store.FindModule(ctx, "Test University", "History", "CS101")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound for wrong course, got %v", err)
	}
}
