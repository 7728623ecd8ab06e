package gw2datserver

import (
	"os"
	"strconv"
)

const (
	DefaultAddress      = "localhost:7089"
	DefaultCachePath    = "./cache.db"
	DefaultCacheEntries = 1024
)

type Config struct {
	Address      string
	ArchivePath  string
	CachePath    string
	CacheEntries int

	Version   string
	BuildTime string
}

// ConfigFromEnv fills a Config from ADDRESS, GW2DAT_PATH, CACHE_DB and
// CACHE_ENTRIES, using listenOn when ADDRESS is unset.
func ConfigFromEnv(listenOn string) Config {
	if listenOn == "" {
		listenOn = DefaultAddress
	}

	cacheEntries, err := strconv.Atoi(EnvOr("CACHE_ENTRIES", strconv.Itoa(DefaultCacheEntries)))
	if err != nil || cacheEntries <= 0 {
		cacheEntries = DefaultCacheEntries
	}

	return Config{
		Address:      EnvOr("ADDRESS", listenOn),
		ArchivePath:  os.Getenv("GW2DAT_PATH"),
		CachePath:    EnvOr("CACHE_DB", DefaultCachePath),
		CacheEntries: cacheEntries,
	}
}

func EnvOr(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
