package main

import "github.com/chunksplit/chunksplit/internal/cli"

func main() {
	cli.Execute()
}
