package main

import (
	"context"
	"fmt"
	"os"

	"github.com/openconvo/convograph-backend/internal/app"
)

func main() {
	ctx := context.Background()

	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close(ctx)

	application.Log.Info("Server listening", "addr", application.Cfg.HTTPAddr)
	if err := application.Run(application.Cfg.HTTPAddr); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}
