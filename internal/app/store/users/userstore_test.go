package userstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/strataevents/internal/domain/models"
	"github.com/dalemusser/strataevents/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Name:           "  Asha Rao ",
		Email:          " Asha@Example.COM ",
		RegistrationNo: " CS2021-014 ",
		Password:       "hash",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID.IsZero() {
		t.Error("Create() did not assign ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
	if created.Role != models.RoleUser {
		t.Errorf("Create() Role = %q, want %q", created.Role, models.RoleUser)
	}
	if created.Email != "asha@example.com" {
		t.Errorf("Create() Email = %q, want normalized", created.Email)
	}
	if created.Name != "Asha Rao" || created.RegistrationNo != "CS2021-014" {
		t.Errorf("Create() did not trim fields: %+v", created)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Password != "" {
		t.Error("GetByID() should not load the password hash")
	}

	withPw, err := store.GetByEmail(ctx, "ASHA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if withPw.Password != "hash" {
		t.Errorf("GetByEmail() Password = %q, want hash", withPw.Password)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Name: "A", Email: "dup@example.com"}); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	_, err := store.Create(ctx, models.User{Name: "B", Email: "DUP@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("second Create() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{Name: "X", Email: "x@example.com", Role: "owner"})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Create() error = %v, want ErrInvalidRole", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("GetByID() error = %v, want mongo.ErrNoDocuments", err)
	}
}

func seedUsers(t *testing.T, store *Store, n int) []models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	out := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		u, err := store.Create(ctx, models.User{
			Name:           fmt.Sprintf("Member %02d", i),
			Email:          fmt.Sprintf("member%02d@example.com", i),
			RegistrationNo: fmt.Sprintf("REG-%03d", i),
			Password:       "hash",
		})
		if err != nil {
			t.Fatalf("Create(%d) error = %v", i, err)
		}
		out = append(out, u)
	}
	return out
}

func TestStore_ListPage_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	seeded := seedUsers(t, store, 25)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	page, err := store.ListPage(ctx, "", 3, 10)
	if err != nil {
		t.Fatalf("ListPage() error = %v", err)
	}
	if page.Total != 25 {
		t.Errorf("Total = %d, want 25", page.Total)
	}
	if len(page.Users) != 5 {
		t.Fatalf("len(Users) = %d, want 5", len(page.Users))
	}

	// Newest first: positions 21..25 are the five oldest, newest of them first.
	for i, u := range page.Users {
		want := seeded[4-i]
		if u.ID != want.ID {
			t.Errorf("Users[%d] = %s, want %s", i, u.Name, want.Name)
		}
		if u.Password != "" {
			t.Errorf("Users[%d] carries a password hash", i)
		}
	}

	empty, err := store.ListPage(ctx, "", 4, 10)
	if err != nil {
		t.Fatalf("ListPage(page 4) error = %v", err)
	}
	if empty.Users == nil || len(empty.Users) != 0 {
		t.Errorf("ListPage(page 4) Users = %v, want empty non-nil slice", empty.Users)
	}
}

func TestStore_ListPage_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := []models.User{
		{Name: "Alice Smith", Email: "alice@example.com", RegistrationNo: "R-1"},
		{Name: "Bob", Email: "SMITHY@example.com", RegistrationNo: "R-2"},
		{Name: "Carol", Email: "carol@example.com", RegistrationNo: "smith-77"},
		{Name: "Dan", Email: "dan@example.com", RegistrationNo: "R-4"},
		{Name: "Eve (a+b)", Email: "eve@example.com", RegistrationNo: "R-5"},
	}
	for _, u := range fixtures {
		if _, err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		search string
		want   int64
	}{
		{"", 5},
		{"SMITH", 3},
		{"  smith  ", 3},
		{"r-", 4},
		{"(a+b)", 1},
		{".*", 0},
	}
	for _, tt := range tests {
		page, err := store.ListPage(ctx, tt.search, 1, 10)
		if err != nil {
			t.Fatalf("ListPage(%q) error = %v", tt.search, err)
		}
		if page.Total != tt.want || int64(len(page.Users)) != tt.want {
			t.Errorf("ListPage(%q) total=%d len=%d, want %d", tt.search, page.Total, len(page.Users), tt.want)
		}
	}
}

func TestStore_UpdateRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{Name: "Ravi", Email: "ravi@example.com", Password: "hash"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("invalid role leaves record untouched", func(t *testing.T) {
		_, err := store.UpdateRole(ctx, u.ID, "owner")
		if !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("UpdateRole() error = %v, want ErrInvalidRole", err)
		}
		got, _ := store.GetByID(ctx, u.ID)
		if got.Role != models.RoleUser {
			t.Errorf("Role = %q, want unchanged %q", got.Role, models.RoleUser)
		}
	})

	t.Run("wrong case is invalid", func(t *testing.T) {
		if _, err := store.UpdateRole(ctx, u.ID, "Admin"); !errors.Is(err, ErrInvalidRole) {
			t.Errorf("UpdateRole(Admin) error = %v, want ErrInvalidRole", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := store.UpdateRole(ctx, primitive.NewObjectID(), models.RoleAdmin); err != mongo.ErrNoDocuments {
			t.Errorf("UpdateRole() error = %v, want mongo.ErrNoDocuments", err)
		}
	})

	t.Run("promote", func(t *testing.T) {
		got, err := store.UpdateRole(ctx, u.ID, models.RoleSuperAdmin)
		if err != nil {
			t.Fatalf("UpdateRole() error = %v", err)
		}
		if got.Role != models.RoleSuperAdmin {
			t.Errorf("Role = %q, want superadmin", got.Role)
		}
		if got.Password != "" {
			t.Error("UpdateRole() returned the password hash")
		}
	})
}

func TestStore_GetRegistrants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	seeded := seedUsers(t, store, 2)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	missing := primitive.NewObjectID()
	got, err := store.GetRegistrants(ctx, []primitive.ObjectID{seeded[0].ID, seeded[1].ID, missing})
	if err != nil {
		t.Fatalf("GetRegistrants() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if _, ok := got[missing]; ok {
		t.Error("missing id should be absent")
	}
	p := got[seeded[0].ID]
	if p.Email != seeded[0].Email || p.RegistrationNo != seeded[0].RegistrationNo {
		t.Errorf("profile = %+v", p)
	}

	empty, err := store.GetRegistrants(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("GetRegistrants(nil) = %v, %v", empty, err)
	}
}

func TestSearchFilter(t *testing.T) {
	if f := SearchFilter("   "); len(f) != 0 {
		t.Errorf("SearchFilter(blank) = %v, want empty", f)
	}
	f := SearchFilter("a.b")
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 3 {
		t.Fatalf("SearchFilter() $or = %v", f["$or"])
	}
	re := or[0].(bson.M)["name"].(primitive.Regex)
	if re.Pattern != `a\.b` || re.Options != "i" {
		t.Errorf("regex = %+v", re)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{Name: "Meera", Email: "meera@example.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	f := NewFetcher(db, zap.NewNop())

	got := f.FetchUser(ctx, u.ID.Hex())
	if got == nil {
		t.Fatal("FetchUser() = nil")
	}
	if got.Role != models.RoleAdmin || got.Email != "meera@example.com" {
		t.Errorf("FetchUser() = %+v", got)
	}

	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("FetchUser(missing) should be nil")
	}
	if f.FetchUser(ctx, "bogus") != nil {
		t.Error("FetchUser(bogus) should be nil")
	}
}
