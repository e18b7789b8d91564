// Command admintoken prints a bearer token for the admin endpoints, signed
// with the configured JWT secret.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/pageza/alchemorsel-genai/backend/config"
	"github.com/pageza/alchemorsel-genai/backend/internal/service"
)

func main() {
	subject := flag.String("subject", "operator", "token subject")
	ttl := flag.Duration("ttl", service.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	auth, err := service.NewAuthService(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("JWT_SECRET must be set: %v", err)
	}

	token, err := auth.GenerateToken(*subject, *ttl)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
