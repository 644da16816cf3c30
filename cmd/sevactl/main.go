package main

import (
	"context"
	"log"

	"github.com/seva-innovations/storefront-vault/internal/config"
	"github.com/seva-innovations/storefront-vault/internal/console"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := console.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	a.Run(ctx)
}
