package main

import (
	"context"
	"log"

	"github.com/pageza/recetario/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
