package main

import (
	"os"

	"github.com/joho/godotenv"

	ingest "tarediiran-industries.com/fare-services/internal/ingest/fare_static"
)

func main() {
	_ = godotenv.Load()
	os.Exit(ingest.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
