package main

import (
	"github.com/joho/godotenv"

	"github.com/KaramelBytes/classmate-cli/cmd"
)

func init() {
	// Optional .env with OPENROUTER_API_KEY and CLASSMATE_* settings.
	_ = godotenv.Load()
}

func main() {
	cmd.Execute()
}
