package vehicle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	pkgerrors "github.com/orgball2608/vehicle-listing-feed/pkg/errors"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
)

func newInitialized(t *testing.T) *MemoryRepository {
	t.Helper()
	repo := NewMemory("", logger.NewNop())
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return repo
}

func TestMemoryRequiresInitialize(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory("", logger.NewNop())

	if _, err := repo.List(ctx, domain.VehicleFilter{}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("List err = %v", err)
	}
	if _, err := repo.GetByID(ctx, "x"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetByID err = %v", err)
	}
	if _, err := repo.Create(ctx, domain.Vehicle{Make: "Kia", Model: "Ceed", Year: 2020}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Create err = %v", err)
	}
	if err := repo.Delete(ctx, "x"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Delete err = %v", err)
	}
	if _, err := repo.ReorderImages(ctx, "x", nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReorderImages err = %v", err)
	}
}

func TestMemoryInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newInitialized(t)

	all, err := repo.List(ctx, domain.VehicleFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected built-in seed")
	}

	if err := repo.Delete(ctx, all[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}

	after, _ := repo.List(ctx, domain.VehicleFilter{})
	if len(after) != len(all)-1 {
		t.Errorf("second Initialize reseeded: %d vehicles, want %d", len(after), len(all)-1)
	}
}

func TestMemoryListKeepsSeedOrderNewestFirst(t *testing.T) {
	repo := newInitialized(t)
	seed, err := LoadSeed("", time.Now())
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}

	got, _ := repo.List(context.Background(), domain.VehicleFilter{})
	for i := range seed {
		if got[i].ID != seed[i].ID {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, seed[i].ID)
		}
	}
}

func TestMemoryListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	repo := newInitialized(t)

	got, err := repo.List(ctx, domain.VehicleFilter{Fuel: "DIESEL", MinPrice: 12000, Sort: domain.SortPriceAsc})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var models []string
	for _, v := range got {
		models = append(models, v.Model)
	}
	want := []string{"A4 Avant 2.0 TDI", "320d Touring"}
	if !reflect.DeepEqual(models, want) {
		t.Errorf("models = %v; want %v", models, want)
	}

	page, _ := repo.List(ctx, domain.VehicleFilter{Sort: domain.SortPriceAsc, Offset: 1, Limit: 2})
	if len(page) != 2 || page[0].Model != "A4 Avant 2.0 TDI" || page[1].Model != "Yaris Hybrid" {
		t.Errorf("unexpected page: %+v", page)
	}

	empty, _ := repo.List(ctx, domain.VehicleFilter{Offset: 100})
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil page, got %v", empty)
	}
}

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newInitialized(t)

	created, err := repo.Create(ctx, domain.Vehicle{
		Make: "Kia", Model: "Sportage", Year: 2021, Price: 24900, Images: []string{"a.jpg"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Errorf("Create did not assign id and timestamps: %+v", created)
	}

	created.Price = 23900
	updated, err := repo.Update(ctx, *created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 23900 || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("unexpected update result: %+v", updated)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil || got.Price != 23900 {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete err = %v", err)
	}
	if _, err := repo.Update(ctx, *created); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update after delete err = %v", err)
	}
}

func TestMemoryCreateValidates(t *testing.T) {
	repo := newInitialized(t)
	_, err := repo.Create(context.Background(), domain.Vehicle{Model: "Astra", Year: 2015})
	if !pkgerrors.IsInvalidInput(err) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := newInitialized(t)
	all, _ := repo.List(ctx, domain.VehicleFilter{})
	id := all[0].ID
	all[0].Images[0] = "mutated"

	got, _ := repo.GetByID(ctx, id)
	if got.Images[0] == "mutated" {
		t.Error("List leaked internal image slice")
	}
}

func TestMemoryReorderImages(t *testing.T) {
	ctx := context.Background()
	repo := newInitialized(t)
	v, err := repo.Create(ctx, domain.Vehicle{
		Make: "Opel", Model: "Astra", Year: 2019, Images: []string{"1.jpg", "2.jpg", "3.jpg"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ReorderImages(ctx, v.ID, []string{"3.jpg", "1.jpg", "2.jpg"})
	if err != nil {
		t.Fatalf("ReorderImages: %v", err)
	}
	if !reflect.DeepEqual(got.Images, []string{"3.jpg", "1.jpg", "2.jpg"}) {
		t.Errorf("Images = %v", got.Images)
	}

	invalid := [][]string{
		{"3.jpg", "1.jpg"},
		{"3.jpg", "1.jpg", "4.jpg"},
		{"3.jpg", "3.jpg", "1.jpg"},
	}
	for _, images := range invalid {
		if _, err := repo.ReorderImages(ctx, v.ID, images); !pkgerrors.IsInvalidInput(err) {
			t.Errorf("ReorderImages(%v) err = %v; want invalid input", images, err)
		}
	}

	if _, err := repo.ReorderImages(ctx, "missing", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReorderImages(missing) err = %v", err)
	}
}

func TestLoadSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `vehicles:
  - make: Dacia
    model: Duster
    year: 2022
    price: 17500
  - id: fixed-id
    make: Fiat
    model: Panda
    year: 2014
    price: 4900
    images: [panda.jpg]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	seed, err := LoadSeed(path, now)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(seed) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(seed))
	}
	if seed[0].ID == "" || seed[1].ID != "fixed-id" {
		t.Errorf("unexpected ids: %q, %q", seed[0].ID, seed[1].ID)
	}
	if seed[0].Images == nil {
		t.Error("missing images should load as empty slice")
	}
	if !seed[0].CreatedAt.Equal(now) || !seed[1].CreatedAt.Before(now) {
		t.Errorf("unexpected timestamps: %v, %v", seed[0].CreatedAt, seed[1].CreatedAt)
	}
}

func TestLoadSeedRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"duplicate.yaml": "vehicles:\n  - {id: a, make: Kia, model: Rio, year: 2018}\n  - {id: a, make: Kia, model: Rio, year: 2018}\n",
		"invalid.yaml":   "vehicles:\n  - {make: Kia, year: 2018}\n",
		"broken.yaml":    "vehicles: [\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSeed(path, time.Now()); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	if _, err := LoadSeed(filepath.Join(dir, "missing.yaml"), time.Now()); err == nil {
		t.Error("missing file: expected error")
	}
}
