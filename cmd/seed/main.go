// Package main provides a tool to seed the database with test directory data.
//
// It creates a set of maker listings (some featured), plus optional test
// member accounts with bookmarks, for exercising the homepage, search, and
// saved-listing features against realistic data.
//
// Usage:
//
//	DB_PATH=~/LondonMakers/data/db go run ./cmd/seed
//	DB_PATH=~/LondonMakers/data/db go run ./cmd/seed --create-users  # Also create test members
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/londonmakers/makers-server/internal/auth"
	"github.com/londonmakers/makers-server/internal/domain"
	"github.com/londonmakers/makers-server/internal/id"
	"github.com/londonmakers/makers-server/internal/store"
)

var createUsers = flag.Bool("create-users", false, "Create test member accounts with bookmarks")

// seedListing is one row of canned directory data.
type seedListing struct {
	businessName string
	makerName    string
	craftType    string
	description  string
	street       string
	zip          string
	specialties  []string
	featured     bool
}

var seedListings = []seedListing{
	{
		businessName: "Marsh Pottery",
		makerName:    "Elena Marsh",
		craftType:    "Ceramics",
		description:  "Hand-thrown stoneware and porcelain from a studio on Columbia Road. Small-batch glazes mixed in house.",
		street:       "12 Columbia Road",
		zip:          "E2 7RG",
		specialties:  []string{"stoneware", "tableware", "commissions"},
		featured:     true,
	},
	{
		businessName: "Hackney Glassworks",
		makerName:    "Tom Adeyemi",
		craftType:    "Glass",
		description:  "Blown glass lighting and vessels. Open studio most weekends.",
		street:       "4 Wallis Road",
		zip:          "E9 5LN",
		specialties:  []string{"lighting", "vessels"},
		featured:     true,
	},
	{
		businessName: "Bowline Leather",
		makerName:    "Priya Shah",
		craftType:    "Leatherwork",
		description:  "Bags and belts cut and stitched by hand, using vegetable-tanned British hides.",
		street:       "88 Cheshire Street",
		zip:          "E2 6EH",
		specialties:  []string{"bags", "belts", "repairs"},
	},
	{
		businessName: "Drift Woodcraft",
		makerName:    "Callum Reid",
		craftType:    "Woodwork",
		description:  "Furniture and turned bowls from reclaimed London timber.",
		street:       "31 Vyner Street",
		zip:          "E2 9DG",
		specialties:  []string{"furniture", "turning"},
	},
	{
		businessName: "Weft & Warp",
		makerName:    "Sofia Lindqvist",
		craftType:    "Textiles",
		description:  "Handwoven throws and cushions in undyed British wool.",
		street:       "19 Broadway Market",
		zip:          "E8 4PH",
		specialties:  []string{"weaving", "wool"},
	},
	{
		businessName: "Foundry Lane Jewellery",
		makerName:    "Amara Osei",
		craftType:    "Jewellery",
		description:  "Recycled silver and gold pieces, cast and finished in Peckham.",
		street:       "133 Rye Lane",
		zip:          "SE15 4ST",
		specialties:  []string{"silver", "casting", "bespoke"},
	},
}

// testMemberNames are display names for generated test members.
var testMemberNames = []string{
	"Alex Rivera",
	"Jordan Chen",
	"Sam Taylor",
	"Casey Morgan",
	"Riley Kim",
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/LondonMakers/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	// Listings need an owner; use the first admin account.
	owner := findAdmin(ctx, s)
	if owner == nil {
		log.Fatal("No admin user found. Run the server and complete setup first.")
	}
	fmt.Printf("Seeding listings owned by: %s (%s)\n", owner.Name(), owner.ID)

	created := seedDirectory(ctx, s, owner)

	if *createUsers {
		createTestMembers(ctx, s, created)
	}

	fmt.Println("\nSeeding complete!")
}

// findAdmin returns the first admin account, or nil.
func findAdmin(ctx context.Context, s *store.Store) *domain.User {
	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	for _, u := range users {
		if u.IsAdmin() {
			return u
		}
	}
	return nil
}

// seedDirectory creates the canned listings, skipping names already taken.
// Returns the IDs of every listing present after seeding.
func seedDirectory(ctx context.Context, s *store.Store, owner *domain.User) []string {
	var ids []string

	for _, row := range seedListings {
		if existing, _ := s.GetArtistByBusinessName(ctx, row.businessName); existing != nil {
			fmt.Printf("  Listing %q already exists, skipping\n", row.businessName)
			ids = append(ids, existing.ID)
			continue
		}

		artist := &domain.Artist{
			OwnerID:      owner.ID,
			BusinessName: row.businessName,
			Maker: domain.MakerInfo{
				Name:  row.makerName,
				Email: fmt.Sprintf("hello@%s.example.com", id.MustGenerate("seed")),
			},
			Type:        row.craftType,
			Description: row.description,
			Location: domain.Location{
				Street: row.street,
				City:   "London",
				Zip:    row.zip,
			},
			Specialties: row.specialties,
			Images: []domain.Image{
				{URL: "/images/placeholder.jpg"},
			},
			Featured: row.featured,
		}
		artist.ID = id.MustGenerate("artist")
		artist.InitTimestamps()

		if err := s.CreateArtist(ctx, artist); err != nil {
			log.Printf("  Failed to create listing %q: %v", row.businessName, err)
			continue
		}

		label := ""
		if row.featured {
			label = " (featured)"
		}
		fmt.Printf("  Created listing: %s%s\n", row.businessName, label)
		ids = append(ids, artist.ID)
	}

	return ids
}

// createTestMembers creates member accounts with a few random bookmarks each.
func createTestMembers(ctx context.Context, s *store.Store, artistIDs []string) {
	fmt.Println("\n=== Creating Test Members ===")

	passwordHash, err := auth.HashPassword("testpass123")
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i, name := range testMemberNames {
		email := fmt.Sprintf("test%d@example.com", i+1)

		if existing, _ := s.GetUserByEmail(ctx, email); existing != nil {
			fmt.Printf("  User %s already exists, skipping\n", email)
			continue
		}

		user := &domain.User{
			Email:        email,
			PasswordHash: passwordHash,
			Role:         domain.RoleMember,
			DisplayName:  name,
		}
		user.ID = id.MustGenerate("user")
		user.InitTimestamps()

		if err := s.CreateUser(ctx, user); err != nil {
			log.Printf("  Failed to create user %s: %v", name, err)
			continue
		}

		fmt.Printf("  Created member: %s (%s)\n", name, email)

		// Bookmark 1-3 random listings.
		if len(artistIDs) == 0 {
			continue
		}
		count := 1 + rng.Intn(3)
		shuffled := make([]string, len(artistIDs))
		copy(shuffled, artistIDs)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if count > len(shuffled) {
			count = len(shuffled)
		}

		for _, artistID := range shuffled[:count] {
			if _, err := s.AddBookmark(ctx, user.ID, artistID); err != nil {
				log.Printf("    Failed to bookmark %s: %v", artistID, err)
			}
		}
		fmt.Printf("    Bookmarked %d listings\n", count)
	}

	fmt.Println("=== Test Members Created ===")
}
