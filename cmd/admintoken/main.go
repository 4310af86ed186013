// Command admintoken prints a signed token for the admin API.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/admin"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/config"
)

func main() {
	subject := flag.String("subject", "ops", "token subject recorded in purge logs")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	auth := admin.NewAuthenticator(admin.Config{Secret: cfg.Admin.JWTSecret, Issuer: cfg.Admin.Issuer})
	token, err := auth.Issue(*subject, *ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	fmt.Println(token)
}
