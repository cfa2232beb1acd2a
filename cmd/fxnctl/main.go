package main

import "github.com/shawqlabs/fxn_backend/internal/cli"

func main() {
	cli.Execute()
}
