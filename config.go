package main

import (
	"encoding/json"
	"os"
)

type Config struct {
	// BaseURL is the comment API host.
	BaseURL string `json:"base_url"`
	// Token is the bearer/session token handed to the page; empty
	// disables the comment section entirely.
	Token string `json:"token"`
	// Admin marks the session as a moderator one.
	Admin bool `json:"admin"`
	// Language is the query-string language tag sent on mutations.
	Language string `json:"language"`
	// PerPage is the pagination size over top-level comments.
	PerPage int `json:"per_page"`
	// Storage selects the client state backend: file, sqlite or memory.
	Storage string `json:"storage"`
	// Dsn is the state directory (file) or database path (sqlite).
	Dsn string `json:"dsn"`
	// TrackerURL is the IP geolocation endpoint.
	TrackerURL string `json:"tracker_url"`
	// PostBlockExpire caps how long a stuck in-flight submit blocks
	// the next one.
	PostBlockExpire string `json:"post_block_expire"`
}

func NewConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:9001",
		Language:        "en",
		PerPage:         10,
		Storage:         "file",
		Dsn:             "./state",
		TrackerURL:      "https://freeipapi.com/api/json",
		PostBlockExpire: "30s",
	}
}

// Load reads an optional JSON config file given as the first argument
// and applies environment overrides on top.
func (c *Config) Load(args []string) error {
	if len(args) > 0 && args[0] != "" {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, c); err != nil {
			return err
		}
	}
	if v := os.Getenv("GUESTBOOK_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("GUESTBOOK_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("GUESTBOOK_LANG"); v != "" {
		c.Language = v
	}
	if os.Getenv("GUESTBOOK_ADMIN") == "1" {
		c.Admin = true
	}
	return nil
}
