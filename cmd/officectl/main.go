package main

import (
	"context"
	"office-locator-service/internal/cli"
	"os"
)

func main() {
	exitCode := cli.Execute(context.Background(), os.Args[1:], cli.Dependencies{}, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}
