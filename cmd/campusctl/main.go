// Package main provides campusctl, the operations CLI for the platform:
// database migrations and sample data seeding.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/campuslink/platform/cmd/campusctl/commands"
)

func main() {
	_ = godotenv.Load()

	if err := commands.Root().Execute(); err != nil {
		os.Exit(1)
	}
}
