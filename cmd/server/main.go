package main

import (
	"flag"
	"log"

	"github.com/careforms/intake/config"
	"github.com/careforms/intake/service"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	intakeService := service.NewService(cfg)

	if err := intakeService.StartService(); err != nil {
		log.Fatalf("failed to start intake service: %v", err)
	}
}
