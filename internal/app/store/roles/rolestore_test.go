package rolestore_test

import (
	"errors"
	"testing"

	rolestore "github.com/dalemusser/casadefe/internal/app/store/roles"
	"github.com/dalemusser/casadefe/internal/app/system/indexes"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	store := rolestore.New(db)
	uid := primitive.NewObjectID()

	if role, err := store.Get(ctx, uid); err != nil || role != models.RoleUser {
		t.Errorf("Get without row: got (%q, %v), want (user, nil)", role, err)
	}

	changed, err := store.EnsureAdmin(ctx, uid)
	if err != nil || !changed {
		t.Fatalf("first EnsureAdmin: changed=%v err=%v", changed, err)
	}
	changed, err = store.EnsureAdmin(ctx, uid)
	if err != nil || changed {
		t.Errorf("second EnsureAdmin: changed=%v err=%v, want no change", changed, err)
	}
	if n, _ := store.CountByRole(ctx, models.RoleAdmin); n != 1 {
		t.Errorf("admins: got %d, want 1", n)
	}

	if err := store.Set(ctx, uid, models.RoleModerator); err != nil {
		t.Fatalf("Set moderator: %v", err)
	}
	if is, _ := store.IsAdmin(ctx, uid); is {
		t.Error("IsAdmin after demotion: got true")
	}

	if err := store.Set(ctx, uid, "superuser"); !errors.Is(err, rolestore.ErrBadRole) {
		t.Errorf("Set invalid role: got %v, want ErrBadRole", err)
	}
}
