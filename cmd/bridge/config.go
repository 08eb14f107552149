package main

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/zap"
)

type config struct {
	UDPPort        int
	HTTPPort       string
	ReadBufferSize int
	LogLevel       string
}

func loadConfig() config {
	return config{
		UDPPort:        getEnvInt("UDP_PORT", 7004),
		HTTPPort:       getEnv("HTTP_PORT", "7004"),
		ReadBufferSize: getEnvInt("READ_BUFFER", 1500),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func logConfig(logger *zap.Logger, cfg config) {
	logger.Info("configuration",
		zap.Int("udp_port", cfg.UDPPort),
		zap.String("http_port", cfg.HTTPPort),
		zap.Int("read_buffer", cfg.ReadBufferSize),
		zap.String("log_level", cfg.LogLevel),
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("invalid %s=%q, falling back to %d", key, value, fallback)
	}
	return fallback
}
