package ad

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/adforgehq/adforge-backend/pkg/db"
	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/enums"
	"github.com/adforgehq/adforge-backend/pkg/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("ADFORGE_DB_DSN")
	if dsn == "" {
		t.Skip("ADFORGE_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

// Create commits its own transaction, so this test cleans up with deletes
// instead of an enclosing rollback. Deleting the ad cascades its join rows.
func TestRepositoryCreateAndRepointImageKey(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(db.NewFromConn(conn))
	ctx := context.Background()

	campaign := &models.BrandCampaign{
		ID:   uuid.New(),
		Name: "repo-test-" + uuid.NewString(),
	}
	if err := conn.Create(campaign).Error; err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM brand_campaigns WHERE id = ?", campaign.ID)
	})

	products := []models.BrandProduct{
		{ID: uuid.New(), Name: "Repo Test Sneaker", Features: pq.StringArray{"cushioned"}},
		{ID: uuid.New(), Name: "Repo Test Sock", Features: pq.StringArray{}},
	}
	for i := range products {
		if err := conn.Create(&products[i]).Error; err != nil {
			t.Fatalf("create product: %v", err)
		}
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM brand_products WHERE id IN ?", []uuid.UUID{products[0].ID, products[1].ID})
	})

	ad := &models.GeneratedAd{
		ID:               uuid.New(),
		CampaignID:       campaign.ID,
		Products:         products,
		AdCopy:           "🔥 Repo Test Sneaker",
		ImageKey:         "generated_ad_00000001.png",
		Platform:         enums.DefaultAdPlatform,
		GenerationParams: types.JSONMap{"prompt": "studio shot"},
	}
	if err := repo.Create(ctx, ad); err != nil {
		t.Fatalf("create ad: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM generated_ads WHERE id = ?", ad.ID)
	})

	loaded, err := repo.FindByID(ctx, ad.ID)
	if err != nil {
		t.Fatalf("find ad: %v", err)
	}
	if loaded.Campaign == nil || loaded.Campaign.Name != campaign.Name {
		t.Fatal("expected the campaign to be preloaded")
	}
	if len(loaded.Products) != 2 {
		t.Fatalf("expected 2 joined products, got %d", len(loaded.Products))
	}
	if loaded.GenerationParams["prompt"] != "studio shot" {
		t.Fatalf("expected generation params to round-trip, got %v", loaded.GenerationParams)
	}

	// the create must not rewrite the referenced product rows
	var name string
	if err := conn.Raw("SELECT name FROM brand_products WHERE id = ?", products[0].ID).Scan(&name).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if name != "Repo Test Sneaker" {
		t.Fatalf("product row changed by ad create: %q", name)
	}

	if err := repo.UpdateImageKey(ctx, ad.ID, "generated_ad_00000002.png"); err != nil {
		t.Fatalf("update image key: %v", err)
	}
	reloaded, err := repo.FindByID(ctx, ad.ID)
	if err != nil {
		t.Fatalf("reload ad: %v", err)
	}
	if reloaded.ImageKey != "generated_ad_00000002.png" {
		t.Fatalf("expected repointed image key, got %q", reloaded.ImageKey)
	}
}
