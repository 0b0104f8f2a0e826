package main

import "github.com/pathakanu/remindbot/internal/cli"

func main() {
	cli.Execute()
}
