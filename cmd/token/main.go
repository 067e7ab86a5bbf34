// Command token mints an access token for local development and scripts.
//
// Flags:
//
//	--user  UUID of the student or supervisor (required)
//	--role  student or supervisor (default student)
//	--ttl   token lifetime (default: auth.access_ttl)
//
// The token is printed to stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordclass/internal/app"
	"github.com/heartmarshall/wordclass/internal/auth"
	"github.com/heartmarshall/wordclass/internal/config"
	"github.com/heartmarshall/wordclass/pkg/ctxutil"
)

func main() {
	userFlag := flag.String("user", "", "UUID of the student or supervisor")
	roleFlag := flag.String("role", ctxutil.RoleStudent, "student or supervisor")
	ttl := flag.Duration("ttl", 0, "token lifetime (default: auth.access_ttl)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		logger.Error("--user must be a UUID", slog.String("value", *userFlag))
		os.Exit(1)
	}
	role, err := auth.ParseRole(*roleFlag)
	if err != nil {
		logger.Error("invalid role", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lifetime := cfg.Auth.AccessTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, lifetime).GenerateAccessToken(userID, role)
	if err != nil {
		logger.Error("sign token", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println(token)
}
