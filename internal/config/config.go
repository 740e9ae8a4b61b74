package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	PromptFile    string
	AdminUser     string
	AdminPass     string
	AdminIdentity string
	OutboundURL   string
	RoomIDMin     int
	RoomIDMax     int
	ExportEnabled bool
	ExportFile    string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.PromptFile = os.Getenv("PROMPT_FILE")
	c.AdminUser = os.Getenv("ADMIN_USER")
	c.AdminPass = os.Getenv("ADMIN_PASS")
	c.AdminIdentity = os.Getenv("ADMIN_IDENTITY")
	c.OutboundURL = os.Getenv("OUTBOUND_URL")
	c.RoomIDMin = getenvInt("ROOM_ID_MIN", 100)
	c.RoomIDMax = getenvInt("ROOM_ID_MAX", 999)
	c.ExportEnabled = getenv("EXPORT_ENABLED", "true") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./drawfulbot-results.txt")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
