package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"stagepass/internal/seats"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/internal/users"
)

// ticketTier describes one price band and the sections it covers
type ticketTier struct {
	Label        string
	Price        float64
	Row          int
	Sections     []string
	SeatsPerSect int
}

// The venue layout: one row per tier, one column per section.
var tiers = []ticketTier{
	{Label: "VIP", Price: 100, Row: 1, Sections: []string{"101", "102"}, SeatsPerSect: 10},
	{Label: "Standard", Price: 80, Row: 2, Sections: []string{"103", "104"}, SeatsPerSect: 12},
	{Label: "Cheap", Price: 50, Row: 3, Sections: []string{"105", "106", "107"}, SeatsPerSect: 14},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	seatRepo := seats.NewRepository(db.GetPostgreSQL())

	count, err := seatRepo.CountSeats(ctx)
	if err != nil {
		log.Fatalf("failed to count seats: %v", err)
	}
	if count > 0 {
		log.Printf("seats table already has %d rows, skipping seat seed", count)
	} else {
		venue := buildVenue()
		if err := seats.ValidateLayout(venue); err != nil {
			log.Fatalf("generated layout is invalid: %v", err)
		}
		if err := seatRepo.CreateSeats(ctx, venue); err != nil {
			log.Fatalf("failed to seed seats: %v", err)
		}
		log.Printf("seeded %d seats across %d tiers", len(venue), len(tiers))
	}

	if err := seedAdmin(db); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	log.Println("seed complete")
}

// buildVenue expands the tier table into individual seat rows. Index runs
// from 1 at the left edge of each section.
func buildVenue() []seats.Seat {
	var venue []seats.Seat
	for _, tier := range tiers {
		for column, sectionLabel := range tier.Sections {
			for index := 1; index <= tier.SeatsPerSect; index++ {
				venue = append(venue, seats.Seat{
					ID:            uuid.New(),
					Label:         fmt.Sprintf("%s-%d", sectionLabel, index),
					Row:           tier.Row,
					Column:        column + 1,
					IndexFromLeft: index,
					Price:         tier.Price,
					Status:        seats.StatusEmpty,
				})
			}
		}
	}
	return venue
}

func seedAdmin(db *database.DB) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing int64
	if err := db.GetPostgreSQL().Model(&users.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		log.Printf("admin user %s already exists, skipping", email)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := users.User{
		FullName: "StagePass Admin",
		Email:    email,
		Password: string(hashed),
		Role:     users.RoleAdmin,
	}
	if err := db.GetPostgreSQL().Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("seeded admin user %s", email)
	return nil
}
