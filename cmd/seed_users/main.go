package main

import (
	"context"
	"log"

	"github.com/pageza/recipe-buddy/backend/config"
	"github.com/pageza/recipe-buddy/backend/internal/server"
	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// demoUsers are written to the configured user store for local testing.
var demoUsers = []struct {
	username  string
	pantry    []string
	diet      []string
	allergies []string
}{
	{"demo", []string{"rice", "eggs", "spinach", "garlic", "soy sauce"}, nil, nil},
	{"veggie", []string{"chickpeas", "tomatoes", "onion", "cumin"}, []string{"vegetarian"}, nil},
	{"nutfree", []string{"oats", "banana", "milk"}, nil, []string{"peanuts", "tree nuts"}},
	{"newcomer", nil, nil, nil},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	deps, err := server.NewDependencies(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open user store: %v", err)
	}
	defer deps.Close()

	log.Println("Creating demo users...")
	for _, u := range demoUsers {
		rec, err := deps.Users.Get(ctx, u.username)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", u.username, err)
		}
		if len(rec.Pantry) > 0 || len(rec.History) > 0 {
			log.Printf("User %s already exists, skipping...", u.username)
			continue
		}

		rec.Pantry = types.CleanList(u.pantry)
		rec.Profile = types.UserProfile{Diet: types.CleanList(u.diet), Allergies: types.CleanList(u.allergies)}
		if len(rec.Pantry) > 0 {
			rec.Onboarding = "complete"
		}
		if err := deps.Users.Put(ctx, u.username, rec); err != nil {
			log.Fatalf("Failed to save %s: %v", u.username, err)
		}
		log.Printf("Created user %s", u.username)
	}
	log.Println("Demo users created.")
}
