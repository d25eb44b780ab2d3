// Command admin-token prints an HS256 token for the admin API, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"rose-booking/internal/auth"
	"rose-booking/internal/config"
	"rose-booking/internal/logger"
)

func main() {
	subject := flag.String("sub", "admin", "token subject")
	roles := flag.String("roles", "", "comma separated roles (defaults to ADMIN_ROLE)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := logger.NewLogger("rose-admin-token", "", cfg.Log.Level)
	defer logger.Close()

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("AUTH", "JWT_SECRET is not set")
	}

	granted := []string{cfg.Auth.AdminRole}
	if *roles != "" {
		granted = strings.Split(*roles, ",")
	}

	token, err := auth.NewHMACVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer).Issue(*subject, granted, *ttl)
	if err != nil {
		logger.Fatal("AUTH", fmt.Sprintf("sign token: %v", err))
	}
	fmt.Println(token)
}
