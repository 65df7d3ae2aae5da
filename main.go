package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/app"
	"lg/life-dashboard-go-api/internal/config"
)

func main() {
	log.SetPrefix("lg/life-dashboard-go-api: ")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	st, err := app.OpenStore(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s store: %v\n", cfg.StoreDriver, err)
		os.Exit(1)
	}
	defer st.Close()
	fmt.Printf("%s store ready!\n", cfg.StoreDriver)

	h := newHandler(app.New(st, cfg), cfg.OpenAIBaseURL)

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	if err := router.Run(cfg.Addr); err != nil {
		log.Printf("[main] server stopped: %v", err)
	}
}
