package main

import (
	"fmt"
	"os"
)

var version = "0.1.0"

func main() {
	app := newApp(os.Stdout, os.Stderr, nil, newKinesisClient)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "streamtail: %v\n", err)
		os.Exit(1)
	}
}
