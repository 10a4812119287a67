package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/centerdesk/session-scheduler-api/pkg/auth"
)

func main() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("API_MASTER_SECRET") == "" {
		fmt.Fprintln(os.Stderr, "Error: API_MASTER_SECRET is not set")
		os.Exit(1)
	}

	// Key id defaults to a fresh UUID so every invocation mints a new key.
	id := uuid.NewString()
	if len(os.Args) > 1 {
		id = os.Args[1]
	}

	key := auth.GenerateHMACKey(id)
	fmt.Printf("Generated key for %s:\n%s\n", id, key)
}
