package groups_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/app/features/groups"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*groups.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return groups.NewHandler(db, zap.NewNop()), db
}

type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func createPayload(interest string) string {
	start := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	end := time.Now().UTC().Add(3 * time.Hour).Format(time.RFC3339)
	return `{"name":"test group","startAt":"` + start + `","endAt":"` + end +
		`","latitude":51.5,"longitude":-0.12,"interest":"` + interest + `"}`
}

func TestHandleCreateGroup(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "sub-h1", "H", "One")

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups",
		testutil.JSONBody(createPayload("compilers")), u)
	rec := httptest.NewRecorder()
	h.HandleCreateGroup(rec, req)

	if rec.Code != 201 {
		t.Fatalf("status: got %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID        string   `json:"id"`
		CreatorID string   `json:"creatorId"`
		MemberIDs []string `json:"memberIds"`
		Interest  string   `json:"interest"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.CreatorID != u.ID.Hex() || resp.Interest != "compilers" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.MemberIDs) != 1 || resp.MemberIDs[0] != u.ID.Hex() {
		t.Errorf("creator not sole member: %v", resp.MemberIDs)
	}
}

func TestHandleCreateGroup_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/groups", testutil.JSONBody(createPayload("x")))
	rec := httptest.NewRecorder()
	h.HandleCreateGroup(rec, req)

	if rec.Code != 401 {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestHandleCreateGroup_MissingCoordinates(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "sub-h2", "H", "Two")
	start := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	end := time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339)
	payload := `{"startAt":"` + start + `","endAt":"` + end + `","interest":"maths"}`

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups", testutil.JSONBody(payload), u)
	rec := httptest.NewRecorder()
	h.HandleCreateGroup(rec, req)

	if rec.Code != 422 {
		t.Errorf("status: got %d, want 422", rec.Code)
	}
}

func TestHandleCreateGroup_ModuleWithoutProfile(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// No university/course on the profile, so a module reference cannot
	// be resolved.
	u := fx.CreateUser(ctx, "sub-h3", "H", "Three")
	start := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	end := time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339)
	payload := `{"startAt":"` + start + `","endAt":"` + end +
		`","latitude":51.5,"longitude":-0.12,"module":{"moduleId":"CS101"}}`

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups", testutil.JSONBody(payload), u)
	rec := httptest.NewRecorder()
	h.HandleCreateGroup(rec, req)

	if rec.Code != 422 {
		t.Fatalf("status: got %d, want 422", rec.Code)
	}
	if body := decodeError(t, rec); body.Error.Kind != "validation" {
		t.Errorf("kind: got %q", body.Error.Kind)
	}
}

func TestHandleCreateGroup_ModuleResolved(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUniversity(ctx, "Test University", "Computer Science",
		models.Module{ModuleID: "CS101", Name: "Intro to Programming", Year: 1})
	u := fx.CreateUserWithProfile(ctx, "sub-h4", "H", "Four", "Test University", "Computer Science", 1)

	start := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	end := time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339)
	payload := `{"startAt":"` + start + `","endAt":"` + end +
		`","latitude":51.5,"longitude":-0.12,"module":{"moduleId":"CS101"}}`

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups", testutil.JSONBody(payload), u)
	rec := httptest.NewRecorder()
	h.HandleCreateGroup(rec, req)

	if rec.Code != 201 {
		t.Fatalf("status: got %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Module *struct {
			ModuleID string `json:"moduleId"`
			Name     string `json:"name"`
		} `json:"module"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Module == nil || resp.Module.Name != "Intro to Programming" {
		t.Errorf("module not denormalized onto group: %+v", resp.Module)
	}
}

func TestHandleListGroups(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	open := fx.CreateUser(ctx, "sub-l1", "L", "One")
	stale := fx.CreateUser(ctx, "sub-l2", "L", "Two")
	caller := fx.CreateUser(ctx, "sub-l3", "L", "Three")
	fx.CreateGroup(ctx, open, "open", now.Add(-time.Hour), now.Add(time.Hour))
	fx.CreateGroup(ctx, stale, "expired", now.Add(-3*time.Hour), now.Add(-time.Hour))

	req := testutil.NewAuthenticatedRequest("GET", "/api/groups", nil, caller)
	rec := httptest.NewRecorder()
	h.HandleListGroups(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var list []struct {
		Interest string `json:"interest"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(list) != 1 || list[0].Interest != "open" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestHandleMyGroup(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	owner := fx.CreateUser(ctx, "sub-m1", "Mia", "Owner")
	member := fx.CreateUser(ctx, "sub-m2", "Max", "Member")
	fx.CreateGroup(ctx, owner, "mine", now.Add(-time.Hour), now.Add(time.Hour), member)

	req := testutil.NewAuthenticatedRequest("GET", "/api/groups/mine", nil, owner)
	rec := httptest.NewRecorder()
	h.HandleMyGroup(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Interest    string   `json:"interest"`
		MemberNames []string `json:"memberNames"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Interest != "mine" {
		t.Errorf("interest: got %q", resp.Interest)
	}
	if len(resp.MemberNames) != 2 || resp.MemberNames[0] != "Mia Owner" || resp.MemberNames[1] != "Max Member" {
		t.Errorf("member names: %v", resp.MemberNames)
	}
}

func TestHandleMyGroup_NoGroup(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "sub-m3", "No", "Group")

	req := testutil.NewAuthenticatedRequest("GET", "/api/groups/mine", nil, u)
	rec := httptest.NewRecorder()
	h.HandleMyGroup(rec, req)

	if rec.Code != 404 {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestHandleJoinGroup(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	owner := fx.CreateUser(ctx, "sub-j1", "J", "Owner")
	joiner := fx.CreateUser(ctx, "sub-j2", "J", "Joiner")
	g := fx.CreateGroup(ctx, owner, "joinable", now.Add(-time.Hour), now.Add(time.Hour))

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+g.ID.Hex()+"/join", nil, joiner)
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleJoinGroup(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		MemberIDs []string `json:"memberIds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.MemberIDs) != 2 {
		t.Errorf("expected 2 members, got %v", resp.MemberIDs)
	}
}

func TestHandleJoinGroup_BadID(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "sub-j3", "J", "Three")

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/zzz/join", nil, u)
	req = testutil.WithChiURLParam(req, "id", "zzz")
	rec := httptest.NewRecorder()
	h.HandleJoinGroup(rec, req)

	if rec.Code != 422 {
		t.Errorf("status: got %d, want 422", rec.Code)
	}
}

func TestHandleJoinGroup_AlreadyInGroup(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	ownerA := fx.CreateUser(ctx, "sub-j4", "J", "Four")
	ownerB := fx.CreateUser(ctx, "sub-j5", "J", "Five")
	fx.CreateGroup(ctx, ownerA, "first", now.Add(-time.Hour), now.Add(time.Hour))
	gb := fx.CreateGroup(ctx, ownerB, "second", now.Add(-time.Hour), now.Add(time.Hour))

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+gb.ID.Hex()+"/join", nil, ownerA)
	req = testutil.WithChiURLParam(req, "id", gb.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleJoinGroup(rec, req)

	if rec.Code != 409 {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
}

func TestHandleLeaveGroup(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	owner := fx.CreateUser(ctx, "sub-v1", "V", "Owner")
	member := fx.CreateUser(ctx, "sub-v2", "V", "Member")
	g := fx.CreateGroup(ctx, owner, "leavable", now.Add(-time.Hour), now.Add(time.Hour), member)

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+g.ID.Hex()+"/leave", nil, member)
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleLeaveGroup(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	u, err := userstore.New(db).GetByID(ctx, member.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.CurrentGroupID != nil {
		t.Error("pointer still set after leave")
	}
	after, err := groupstore.New(db).GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID group: %v", err)
	}
	if after.HasMember(member.ID) {
		t.Error("member still listed after leave")
	}
}

func TestHandleLeaveGroup_Creator(t *testing.T) {
	h, db := newTestHandler(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	owner := fx.CreateUser(ctx, "sub-v3", "V", "Three")
	g := fx.CreateGroup(ctx, owner, "anchored", now.Add(-time.Hour), now.Add(time.Hour))

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+g.ID.Hex()+"/leave", nil, owner)
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleLeaveGroup(rec, req)

	if rec.Code != 409 {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
}
