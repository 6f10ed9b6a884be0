package main

import (
	"os"

	"github.com/joho/godotenv"

	"tarediiran-industries.com/fare-services/internal/cmd"
)

func main() {
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
