package main

import (
	"log"

	"github.com/MohdZaidRapid/BooksBackend/config"
	"github.com/MohdZaidRapid/BooksBackend/internal/domain"
	"github.com/MohdZaidRapid/BooksBackend/pkg/database"
)

func main() {
	cfg := config.LoadConfig()

	database.Connect(cfg)

	if err := database.DB.AutoMigrate(
		&domain.Book{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.Notification{},
	); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("Migrations applied")
}
