package main

import (
	"log"

	"github.com/eliz29ese/hackUDC26/internal/bootstrap"
)

func main() {
	if err := bootstrap.RunPoller(); err != nil {
		log.Fatalf("Poller failed: %v", err)
	}
}
