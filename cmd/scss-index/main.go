package main

import "github.com/M7MD889/vscode-scss/internal/cli"

func main() {
	cli.Execute()
}
