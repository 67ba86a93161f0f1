package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yungbote/askroom-backend/internal/data/db"
	"github.com/yungbote/askroom-backend/internal/data/repos"
	"github.com/yungbote/askroom-backend/internal/domain"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

// Dev-only seed: wipes rooms (cascading to chunks and questions) and inserts
// a small fixture set so the frontend has something to render.
func main() {
	_ = godotenv.Load()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	ctx := context.Background()

	if err := thePG.WithContext(ctx).Exec(`DELETE FROM "room"`).Error; err != nil {
		log.Fatal("Failed to reset rooms", "error", err)
	}

	roomRepo := repos.NewRoomRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)

	fixtures := []struct {
		name        string
		description string
		questions   []string
	}{
		{
			name:        "Weekly standup",
			description: "Recurring team sync recordings",
			questions:   []string{"What did the team ship last week?", "Who is on call this sprint?"},
		},
		{
			name:        "Architecture review",
			description: "Design discussion recordings",
			questions:   []string{"What were the main objections to the proposal?"},
		},
		{
			name:      "Onboarding sessions",
			questions: []string{"How do I set up the local environment?"},
		},
	}

	for _, f := range fixtures {
		room := &domain.Room{Name: f.name}
		if f.description != "" {
			desc := f.description
			room.Description = &desc
		}
		created, err := roomRepo.Create(ctx, nil, room)
		if err != nil {
			log.Fatal("Failed to seed room", "name", f.name, "error", err)
		}
		for _, q := range f.questions {
			if _, err := questionRepo.Create(ctx, nil, &domain.Question{
				RoomID:   created.ID,
				Question: q,
			}); err != nil {
				log.Fatal("Failed to seed question", "room", f.name, "error", err)
			}
		}
	}

	log.Info("Database seeded", "rooms", len(fixtures))
}
