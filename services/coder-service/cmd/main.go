package main

import "ai-coder/services/coder-service/internal/commands"

func main() {
	commands.Execute()
}
