package main

import (
	"os"

	"github.com/joho/godotenv"

	"tarediiran-industries.com/fare-services/internal/web/fare_web"
)

func main() {
	_ = godotenv.Load()
	os.Exit(fare_web.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
