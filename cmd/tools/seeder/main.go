package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
)

type seedProduct struct {
	Name        string
	Description string
	Price       string
	Stock       int32
	Size        string
	Brand       string
	Color       string
	Image       string
}

var catalog = []seedProduct{
	{"Air Zoom Pegasus 40", "Daily running trainer with responsive foam.", "1899000", 12, "42", "Nike", "Black", "https://images.example.com/pegasus-40.jpg"},
	{"Air Force 1 '07", "Leather low-top classic.", "1549000", 4, "41", "Nike", "White", "https://images.example.com/af1-07.jpg"},
	{"Ultraboost Light", "Lightweight Boost cushioning.", "2800000", 7, "43", "Adidas", "Core Black", "https://images.example.com/ultraboost-light.jpg"},
	{"Samba OG", "Indoor football heritage silhouette.", "1700000", 3, "40", "Adidas", "Cloud White", "https://images.example.com/samba-og.jpg"},
	{"Gel-Kayano 30", "Stability running shoe.", "2499000", 9, "42", "Asics", "Blue", "https://images.example.com/kayano-30.jpg"},
	{"Chuck 70 Hi", "Canvas high-top with vintage details.", "1099000", 15, "39", "Converse", "Parchment", "https://images.example.com/chuck-70.jpg"},
	{"Old Skool", "Suede and canvas skate shoe.", "899000", 0, "41", "Vans", "Black/White", "https://images.example.com/old-skool.jpg"},
	{"990v6", "Made in USA premium runner.", "3299000", 2, "44", "New Balance", "Grey", "https://images.example.com/990v6.jpg"},
	{"Suede Classic XXI", "Low-profile suede sneaker.", "999000", 6, "40", "Puma", "Red", "https://images.example.com/suede-classic.jpg"},
	{"Club C 85", "Court shoe with soft leather upper.", "1199000", 8, "42", "Reebok", "Chalk", "https://images.example.com/club-c.jpg"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	if err := db.Migrate(dbURL); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
	pool, err := db.NewPool(ctx, dbURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()
	q := dbgen.New(pool)

	seedAdmin(ctx, q, strings.TrimSpace(os.Getenv("SEED_ADMIN_ID")), strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")))
	seedCatalog(ctx, q)

	log.Println("Seeding completed successfully!")
}

// seedAdmin grants the admin role to an existing auth subject.
func seedAdmin(ctx context.Context, q *dbgen.Queries, id, email string) {
	if id == "" {
		log.Println("SEED_ADMIN_ID not set, skipping admin grant")
		return
	}
	uid, err := db.ParseUUID(id)
	if err != nil {
		log.Printf("Invalid SEED_ADMIN_ID %q: %v", id, err)
		return
	}
	if err := q.EnsureProfile(ctx, dbgen.EnsureProfileParams{ID: uid, Email: email}); err != nil {
		log.Printf("Failed to ensure admin profile: %v", err)
		return
	}
	if err := q.GrantUserRole(ctx, dbgen.GrantUserRoleParams{UserID: uid, Role: dbgen.AppRoleAdmin}); err != nil {
		log.Printf("Failed to grant admin role: %v", err)
		return
	}
	log.Printf("Granted admin role to %s", id)
}

func seedCatalog(ctx context.Context, q *dbgen.Queries) {
	log.Println("Seeding products...")
	existing, err := q.ListProductNames(ctx)
	if err != nil {
		log.Fatalf("Failed to list products: %v", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	created := 0
	for _, p := range catalog {
		if have[p.Name] {
			continue
		}
		_, err := q.CreateProduct(ctx, dbgen.CreateProductParams{
			Name:          p.Name,
			Description:   p.Description,
			Price:         decimal.RequireFromString(p.Price),
			StockQuantity: p.Stock,
			Size:          p.Size,
			Brand:         p.Brand,
			Color:         p.Color,
			ImageUrl:      p.Image,
			CreatedBy:     pgtype.UUID{},
		})
		if err != nil {
			log.Printf("Failed to seed product %s: %v", p.Name, err)
			continue
		}
		created++
	}
	log.Printf("Created %d products", created)
}
