package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	mu sync.RWMutex
	v  = newViper()
)

func newViper() *viper.Viper {
	vp := viper.New()
	vp.AutomaticEnv()
	return vp
}

// Load layers a config file (yaml, toml, json or .env) under the environment.
// Environment variables always win over file values.
func Load(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	vp := newViper()
	vp.SetConfigFile(path)
	if err := vp.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	mu.Lock()
	v = vp
	mu.Unlock()
	return nil
}

// Set overrides a key for the rest of the process (used for CLI flags).
func Set(key string, value any) {
	mu.Lock()
	defer mu.Unlock()
	v.Set(key, value)
}

// Reset drops any loaded file and overrides. Tests use it between cases.
func Reset() {
	mu.Lock()
	v = newViper()
	mu.Unlock()
}

func lookup(key string) string {
	mu.RLock()
	defer mu.RUnlock()
	return strings.TrimSpace(v.GetString(key))
}

func String(key, fallback string) string {
	val := lookup(key)
	if val == "" {
		return fallback
	}
	return val
}

func RequiredString(key string) (string, error) {
	val := lookup(key)
	if val == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return val, nil
}

func Port(key, fallback string) (string, error) {
	val := String(key, fallback)
	p, err := strconv.Atoi(val)
	if err != nil || p < 1 || p > 65535 {
		return "", fmt.Errorf("%s must be a valid TCP port (got %q)", key, val)
	}
	return val, nil
}

// Int returns fallback when the value is missing, malformed or below min.
func Int(key string, fallback, min int) int {
	n, err := strconv.Atoi(String(key, strconv.Itoa(fallback)))
	if err != nil || n < min {
		return fallback
	}
	return n
}

func Bool(key string, fallback bool) bool {
	switch strings.ToLower(lookup(key)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

// Seconds reads an integer number of seconds.
func Seconds(key string, fallback time.Duration) time.Duration {
	n := Int(key, int(fallback/time.Second), 1)
	return time.Duration(n) * time.Second
}

// List splits a comma separated value, dropping blanks.
func List(key, fallback string) []string {
	items := strings.Split(String(key, fallback), ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
