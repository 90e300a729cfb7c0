package config

import (
	"log/slog"
	"os"
	"strings"
)

// ServerConfig holds the environment-driven settings of the server binary.
type ServerConfig struct {
	Port      string
	LogLevel  slog.Level
	YTDLPPath string
}

func LoadServerConfig() ServerConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	logLevelString := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	var logLevel slog.Level
	switch logLevelString {
	case "DEBUG":
		logLevel = slog.LevelDebug
	case "WARN":
		logLevel = slog.LevelWarn
	case "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	ytdlpPath := os.Getenv("YTDLP_PATH")
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	return ServerConfig{Port: port, LogLevel: logLevel, YTDLPPath: ytdlpPath}
}
