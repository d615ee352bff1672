// Command token issues an access token for calling the metrics API, e.g. from
// an internal dashboard or a scheduled export.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/jwt"
	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "", "token subject, usually a user or service id")
	role := flag.String("role", string(user.RoleEmployee), "role claim: owner, manager, employee or pending")
	expiry := flag.String("expiry", "", "token lifetime, defaults to JWT_ACCESS_EXPIRATION_TIME or 1h")
	flag.Parse()

	_ = godotenv.Load()

	if err := issue(*subject, *role, *expiry); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func issue(subject, roleName, expiry string) error {
	if subject == "" {
		return fmt.Errorf("-subject is required")
	}
	role, ok := user.ParseRole(roleName)
	if !ok {
		return user.ErrInvalidRole
	}

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if expiry == "" {
		expiry = os.Getenv("JWT_ACCESS_EXPIRATION_TIME")
	}
	if expiry == "" {
		expiry = "1h"
	}

	svc, err := jwt.NewJWTService(secret, expiry)
	if err != nil {
		return err
	}
	token, expiresAt, err := svc.GenerateAccessToken(subject, role)
	if err != nil {
		return err
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires at", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	return nil
}
