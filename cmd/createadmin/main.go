// Command createadmin creates an admin account for the review API.
//
//	createadmin -email admin@example.com -password secret
//
// It reads the same environment as the server for database access and
// bcrypt cost.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/config"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/database"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/model"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/repository"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/utils"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createadmin -email <email> -password <password>")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns, cfg.DBConnLifeMin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := utils.HashPassword(*password, cfg.BcryptCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin := model.Admin{Email: *email, PasswordHash: hash}
	if err := repository.NewAdminRepo(db).Create(ctx, &admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fmt.Fprintf(os.Stderr, "admin %s already exists\n", *email)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created admin %s (%s)\n", admin.Email, admin.ID)
}
