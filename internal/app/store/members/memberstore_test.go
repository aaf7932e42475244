package memberstore_test

import (
	"errors"
	"testing"

	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListByCasa_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := memberstore.New(db)
	casa := primitive.NewObjectID()
	other := primitive.NewObjectID()

	_, err := store.CreateMany(ctx, casa, []models.Member{
		{Name: "Joao Silva", AcceptedFaith: true},
		{Name: "Maria Souza", Reconciled: true},
		{Name: "Jose Santos"},
	})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if _, err := store.Create(ctx, models.Member{CasaID: other, Name: "Joao Outro"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name   string
		filter memberstore.Filter
		want   []string
	}{
		{"all", memberstore.Filter{}, []string{"Joao Silva", "Jose Santos", "Maria Souza"}},
		{"query", memberstore.Filter{Query: "silva"}, []string{"Joao Silva"}},
		{"query regex chars are literal", memberstore.Filter{Query: ".*"}, nil},
		{"accepted", memberstore.Filter{Flag: memberstore.FlagAccepted}, []string{"Joao Silva"}},
		{"reconciled", memberstore.Filter{Flag: memberstore.FlagReconciled}, []string{"Maria Souza"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListByCasa(ctx, casa, tt.filter)
			if err != nil {
				t.Fatalf("ListByCasa: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ListByCasa: got %d members, want %d", len(got), len(tt.want))
			}
			for i, m := range got {
				if m.Name != tt.want[i] {
					t.Errorf("member %d: got %q, want %q", i, m.Name, tt.want[i])
				}
			}
		})
	}
}

func TestUpdateAndSetFlags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := memberstore.New(db)
	casa := primitive.NewObjectID()
	age := 30
	m, err := store.Create(ctx, models.Member{CasaID: casa, Name: "Ana", Age: &age})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Update(ctx, m.ID, memberstore.Update{Name: "Ana Paula", Phone: "81999990000"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := store.GetByID(ctx, m.ID)
	if got.Name != "Ana Paula" || got.Age != nil || got.Phone != "81999990000" {
		t.Errorf("after Update: %+v", got)
	}

	if err := store.SetFlags(ctx, casa, m.ID, true, true); err != nil {
		t.Fatalf("SetFlags: %v", err)
	}
	got, _ = store.GetByID(ctx, m.ID)
	if !got.AcceptedFaith || !got.Reconciled {
		t.Errorf("flags not set: %+v", got)
	}

	if err := store.SetFlags(ctx, primitive.NewObjectID(), m.ID, false, false); !errors.Is(err, memberstore.ErrNotFound) {
		t.Errorf("SetFlags from another casa: got %v, want ErrNotFound", err)
	}
}

func TestDeleteByCasa(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := memberstore.New(db)
	casa := primitive.NewObjectID()
	if _, err := store.CreateMany(ctx, casa, []models.Member{{Name: "A"}, {Name: "B"}}); err != nil {
		t.Fatalf("CreateMany: %v", err)
	}

	n, err := store.DeleteByCasa(ctx, casa)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByCasa: n=%d err=%v", n, err)
	}
	if c, _ := store.CountByCasa(ctx, casa); c != 0 {
		t.Errorf("CountByCasa after delete: got %d, want 0", c)
	}
}

func TestReplaceRoster_ExactlyNewRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := memberstore.New(db)
	casa := primitive.NewObjectID()
	old, err := store.CreateMany(ctx, casa, []models.Member{{Name: "Ana"}, {Name: "Bia"}, {Name: "Caio"}})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}

	// Keep Ana (renamed), drop Bia and Caio, add Davi.
	kept := old[0]
	kept.Name = "Ana Maria"
	removed, err := store.ReplaceRoster(ctx, casa, []models.Member{kept, {Name: "Davi"}})
	if err != nil {
		t.Fatalf("ReplaceRoster: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("removed: got %d ids, want 2", len(removed))
	}

	got, err := store.ListByCasa(ctx, casa, memberstore.Filter{})
	if err != nil {
		t.Fatalf("ListByCasa: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Ana Maria" || got[1].Name != "Davi" {
		t.Fatalf("roster after replace: %+v", got)
	}
	if got[0].ID != kept.ID {
		t.Errorf("kept member id changed: got %v, want %v", got[0].ID, kept.ID)
	}
}

func TestReplaceRoster_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := memberstore.New(db)
	casa := primitive.NewObjectID()
	if _, err := store.CreateMany(ctx, casa, []models.Member{{Name: "Ana"}}); err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if _, err := store.ReplaceRoster(ctx, casa, nil); err != nil {
		t.Fatalf("ReplaceRoster: %v", err)
	}
	if n, _ := store.CountByCasa(ctx, casa); n != 0 {
		t.Errorf("CountByCasa: got %d, want 0", n)
	}
}
