package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"

	"github.com/joho/godotenv"
)

// Prints a bearer token for the write endpoints, signed with JWT_SECRET.
func main() {
	clientID := flag.Int64("client", 1, "client id stored in the token")
	ttl := flag.Duration("ttl", service.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	// stdout carries only the token
	logger.InitWithWriter(os.Stderr, "info", false)

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}
	service.InitJWT(secret)

	token, err := service.GenerateJWT(*clientID, *ttl)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}

	if _, err := service.ParseJWT(token); err != nil {
		logger.Fatal("generated token does not verify", "error", err)
	}
	logger.Info("token issued", "client_id", *clientID, "expires", time.Now().Add(*ttl).UTC().Format(time.RFC3339))
	fmt.Println(token)
}
