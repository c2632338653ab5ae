package main

import (
	"github.com/joho/godotenv"

	"github.com/FranksOps/scout/internal/cli"
)

func main() {
	// A missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()
	cli.Execute()
}
