/*
Copyright © 2025 KhurramShams
*/
package main

import (
	"github.com/joho/godotenv"

	"github.com/KhurramShams/docuchat-be/cmd"
)

func main() {
	// A .env file is a development convenience, not a requirement.
	_ = godotenv.Load()

	cmd.Execute()
}
