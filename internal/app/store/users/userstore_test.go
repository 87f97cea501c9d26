package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureBySubject_CreatesOnFirstContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	u, err := store.EnsureBySubject(ctx, "sub-1", "Ada", "Lovelace")
	if err != nil {
		t.Fatalf("EnsureBySubject: %v", err)
	}
	if u.Subject != "sub-1" || u.FirstName != "Ada" || u.LastName != "Lovelace" {
		t.Errorf("unexpected user: %+v", u)
	}

	// A second contact for the same subject returns the same record and
	// does not overwrite the stored name.
	again, err := store.EnsureBySubject(ctx, "sub-1", "Different", "Name")
	if err != nil {
		t.Fatalf("EnsureBySubject (second): %v", err)
	}
	if again.ID != u.ID {
		t.Errorf("expected same user ID, got %s and %s", u.ID.Hex(), again.ID.Hex())
	}
	if again.FirstName != "Ada" {
		t.Errorf("first name overwritten: %q", again.FirstName)
	}
}

func TestEnsureBySubject_EmptySubject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := userstore.New(db).EnsureBySubject(ctx, "   ", "A", "B")
	if !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("expected Validation error, got %v", err)
	}
}

func TestGetBySubject_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := userstore.New(db).GetBySubject(ctx, "nope")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound error, got %v", err)
	}
}

func TestGetManyByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateUser(ctx, "sub-a", "Alice", "Adams")
	b := fx.CreateUser(ctx, "sub-b", "Bob", "Brown")
	missing := primitive.NewObjectID()

	got, err := userstore.New(db).GetManyByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, missing})
	if err != nil {
		t.Fatalf("GetManyByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if got[a.ID].FirstName != "Alice" || got[b.ID].FirstName != "Bob" {
		t.Errorf("wrong users returned: %+v", got)
	}
	if _, ok := got[missing]; ok {
		t.Error("missing ID should be absent from result")
	}
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "sub-p", "Old", "Name")

	updated, err := userstore.New(db).UpdateProfile(ctx, u.ID, userstore.ProfileUpdate{
		FirstName:  "  New ",
		LastName:   "Name",
		University: "Test University",
		Course:     "Computer Science",
		Year:       2,
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.FirstName != "New" {
		t.Errorf("first name not trimmed/updated: %q", updated.FirstName)
	}
	if updated.University != "Test University" || updated.Course != "Computer Science" || updated.Year != 2 {
		t.Errorf("profile fields not updated: %+v", updated)
	}
}

func TestSetCurrentGroup_OnlyWhenAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	u := fx.CreateUser(ctx, "sub-g", "Grace", "Hopper")
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	ok, err := store.SetCurrentGroup(ctx, u.ID, first)
	if err != nil || !ok {
		t.Fatalf("first claim: ok=%v err=%v", ok, err)
	}

	// A second claim must fail while the pointer is set.
	ok, err = store.SetCurrentGroup(ctx, u.ID, second)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if ok {
		t.Error("second claim succeeded while pointer was set")
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CurrentGroupID == nil || *got.CurrentGroupID != first {
		t.Errorf("pointer changed: %v", got.CurrentGroupID)
	}
}

func TestSetCurrentGroup_MissingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ok, err := userstore.New(db).SetCurrentGroup(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("SetCurrentGroup: %v", err)
	}
	if ok {
		t.Error("claim reported success for a nonexistent user")
	}
}

func TestClearCurrentGroup_RequiresMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	u := fx.CreateUser(ctx, "sub-c", "Carol", "Clear")
	gid := primitive.NewObjectID()

	if ok, err := store.SetCurrentGroup(ctx, u.ID, gid); err != nil || !ok {
		t.Fatalf("claim: ok=%v err=%v", ok, err)
	}

	// Clearing with the wrong expected value is a no-op.
	ok, err := store.ClearCurrentGroup(ctx, u.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ClearCurrentGroup (mismatch): %v", err)
	}
	if ok {
		t.Error("clear succeeded with mismatched expected value")
	}

	ok, err = store.ClearCurrentGroup(ctx, u.ID, gid)
	if err != nil || !ok {
		t.Fatalf("clear: ok=%v err=%v", ok, err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CurrentGroupID != nil {
		t.Errorf("pointer not cleared: %v", got.CurrentGroupID)
	}
}

func TestDetachFromGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	a := fx.CreateUser(ctx, "sub-d1", "D", "One")
	b := fx.CreateUser(ctx, "sub-d2", "D", "Two")
	c := fx.CreateUser(ctx, "sub-d3", "D", "Three")

	reaped := primitive.NewObjectID()
	surviving := primitive.NewObjectID()
	for _, pair := range []struct {
		user  primitive.ObjectID
		group primitive.ObjectID
	}{{a.ID, reaped}, {b.ID, reaped}, {c.ID, surviving}} {
		if ok, err := store.SetCurrentGroup(ctx, pair.user, pair.group); err != nil || !ok {
			t.Fatalf("claim: ok=%v err=%v", ok, err)
		}
	}

	n, err := store.DetachFromGroups(ctx, []primitive.ObjectID{reaped})
	if err != nil {
		t.Fatalf("DetachFromGroups: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 detached, got %d", n)
	}

	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CurrentGroupID == nil || *got.CurrentGroupID != surviving {
		t.Error("unrelated user's pointer was cleared")
	}
}
