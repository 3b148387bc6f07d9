package main

import "github.com/aalvaropc/monoledger/internal/cli"

func main() {
	cli.Execute()
}
