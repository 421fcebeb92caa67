// Команда tokengen выпускает JWT для локальной разработки вместо внешнего провайдера идентификации.
//
//	go run ./cmd/tokengen -role volunteer -user 6f1c...
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shenikar/rescue_dispatch/internal/auth"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env необязателен
	_ = godotenv.Load()

	role := flag.String("role", string(models.RoleCitizen), "citizen, volunteer or administrator")
	user := flag.String("user", "", "user id, generated when empty")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "signing secret, defaults to JWT_SECRET")
	flag.Parse()

	if *secret == "" {
		logrus.Fatal("JWT secret is required: set JWT_SECRET or pass -secret")
	}

	userID := uuid.New()
	if *user != "" {
		parsed, err := uuid.Parse(*user)
		if err != nil {
			logrus.Fatalf("Invalid user id: %v", err)
		}
		userID = parsed
	}

	token, err := auth.NewTokenManager(*secret).Issue(userID, models.Role(*role), *ttl)
	if err != nil {
		logrus.Fatalf("Failed to issue token: %v", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "role": *role, "ttl": *ttl}).Info("Token issued")
	fmt.Println(token)
}
