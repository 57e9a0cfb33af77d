package main

import (
	"os"

	"github.com/erickhv92/go-api-template/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
