package main

import (
	"github.com/faheelsattar/bolt/cli"
)

var (
	// AppName is the application name
	AppName = "bolt-delegate"

	// Version is the app version
	Version = "v1.0.0"
)

func main() {
	cli.Execute(AppName, Version)
}
