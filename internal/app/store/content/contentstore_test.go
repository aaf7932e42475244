package contentstore_test

import (
	"errors"
	"testing"
	"time"

	contentstore "github.com/dalemusser/casadefe/internal/app/store/content"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWords_NewestFirstWithLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := contentstore.New(db)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"Primeira", "Segunda", "Terceira"} {
		_, err := store.CreateWord(ctx, models.PastoralWord{Title: title, Body: "*texto*", PublishedAt: base.AddDate(0, 0, i)})
		if err != nil {
			t.Fatalf("CreateWord: %v", err)
		}
	}

	got, err := store.ListWords(ctx, 2)
	if err != nil {
		t.Fatalf("ListWords: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Terceira" || got[1].Title != "Segunda" {
		t.Errorf("ListWords: got %+v", got)
	}
}

func TestTestimonies_ScopedAndOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := contentstore.New(db)
	casa, other := primitive.NewObjectID(), primitive.NewObjectID()
	author, stranger := primitive.NewObjectID(), primitive.NewObjectID()

	tm, err := store.CreateTestimony(ctx, models.Testimony{CasaID: casa, AuthorID: author, Text: "Fui curado"})
	if err != nil {
		t.Fatalf("CreateTestimony: %v", err)
	}
	if _, err := store.CreateTestimony(ctx, models.Testimony{CasaID: other, AuthorID: author, Text: "Outra casa"}); err != nil {
		t.Fatalf("CreateTestimony: %v", err)
	}

	got, _ := store.ListTestimonies(ctx, casa, 0)
	if len(got) != 1 || got[0].ID != tm.ID {
		t.Errorf("ListTestimonies: got %+v", got)
	}

	if err := store.DeleteTestimony(ctx, tm.ID, stranger); !errors.Is(err, contentstore.ErrNotFound) {
		t.Errorf("delete by stranger: got %v, want ErrNotFound", err)
	}
	if err := store.DeleteTestimony(ctx, tm.ID, author); err != nil {
		t.Errorf("delete by author: %v", err)
	}
}

func TestDeleteByCasa(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := contentstore.New(db)
	casa := primitive.NewObjectID()
	_, _ = store.CreateTestimony(ctx, models.Testimony{CasaID: casa, Text: "a"})
	_, _ = store.CreatePrayer(ctx, models.PrayerRequest{CasaID: casa, Text: "b"})

	if err := store.DeleteByCasa(ctx, casa); err != nil {
		t.Fatalf("DeleteByCasa: %v", err)
	}
	ts, _ := store.ListTestimonies(ctx, casa, 0)
	ps, _ := store.ListPrayers(ctx, casa, 0)
	if len(ts) != 0 || len(ps) != 0 {
		t.Errorf("after DeleteByCasa: %d testimonies, %d prayers", len(ts), len(ps))
	}
}
