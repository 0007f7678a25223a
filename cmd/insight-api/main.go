package main

import (
	"log"

	"github.com/eliz29ese/hackUDC26/internal/bootstrap"
)

func main() {
	if err := bootstrap.RunAPI(); err != nil {
		log.Fatalf("API failed: %v", err)
	}
}
