package main

import (
	"log"

	"cms-backend/internal/config"
)

// Config holds what the worker needs out of the application config.
type Config struct {
	Redis        config.RedisConfig
	SlackWebhook string
	Concurrency  int
	Environment  string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	cfg := &Config{
		Redis:        appCfg.Redis,
		SlackWebhook: appCfg.Notify.SlackWebhookURL,
		Concurrency:  10,
		Environment:  appCfg.App.Environment,
	}

	log.Printf("[Config] Redis: %s, Slack webhook set: %t",
		cfg.Redis.Host, cfg.SlackWebhook != "")

	return cfg
}
