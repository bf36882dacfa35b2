package main

import (
	"log"

	"github.com/crewgate/crewgate"
)

func main() {
	application, err := crewgate.New(
		crewgate.WithAuthAPI(),
	)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	application.Run()
}
