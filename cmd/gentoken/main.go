// gentoken mints an HS256 bearer token for local API testing.
// The signing secret comes from MURMUR_JWT_SECRET and must match the
// server's.
//
// Usage:
//
//	go run cmd/gentoken/main.go -user 1
//	go run cmd/gentoken/main.go -user 1 -admin -ttl 1h
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func main() {
	userID := flag.Int64("user", 0, "user id to authenticate as (required)")
	admin := flag.Bool("admin", false, "grant the admin override")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	secret := os.Getenv("MURMUR_JWT_SECRET")
	if secret == "" {
		secret = "dev-jwt-secret" // Matches the server's local dev default
	}

	now := time.Now()
	token, err := jwt.NewBuilder().
		Subject(strconv.FormatInt(*userID, 10)).
		IssuedAt(now).
		Expiration(now.Add(*ttl)).
		Claim("adm", *admin).
		Build()
	if err != nil {
		log.Fatalf("Failed to build token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte(secret)))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Printf("Bearer token for user %d (admin=%v, expires %s):\n\n",
		*userID, *admin, now.Add(*ttl).Format(time.RFC3339))
	fmt.Println(string(signed))
}
