//go:build ignore

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	subject := flag.String("sub", "dev-user", "user id placed in the sub claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("AUTH_JWT_SECRET")
	issuer := os.Getenv("AUTH_ISSUER")
	if secret == "" || issuer == "" {
		fmt.Fprintln(os.Stderr, "Error: AUTH_JWT_SECRET and AUTH_ISSUER environment variables must be set")
		fmt.Fprintln(os.Stderr, "Usage: AUTH_JWT_SECRET=secret AUTH_ISSUER=https://auth.example.com go run scripts/generate-jwt.go -sub user-1")
		os.Exit(1)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   *subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tokenString)
}
