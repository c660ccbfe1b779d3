package config

import (
	"fmt"
	"os"
	"strconv"
)

// FromEnv reads configuration from environment variables (typically loaded
// from .env). Unset variables leave the field zero so defaults still apply.
//
//	KEYWORDS_PATH, DATABASE_URL, PORT, SCORE_PARALLEL, MAX_UPLOAD_BYTES
func FromEnv() (Config, error) {
	cfg := Config{
		KeywordsPath: os.Getenv("KEYWORDS_PATH"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
	}

	var err error
	if cfg.Port, err = envInt("PORT"); err != nil {
		return Config{}, err
	}
	if cfg.Parallel, err = envInt("SCORE_PARALLEL"); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if cfg.MaxUploadBytes, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %v", err)
		}
	}

	return cfg, nil
}

func envInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}
