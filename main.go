package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Waito3007/aRefactor/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cli.Execute()
}
