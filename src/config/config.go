package config

import "strings"

// Config is the full service configuration.
type Config struct {
	AI AI

	Port               string
	MySQLDSN           string
	RedisURL           string
	RateLimitPerMin    int
	TrustedDomainsFile string
	TrustedProxies     []string
	LogLevel           string
	LogDevelopment     bool
}

// Load reads configuration. Call data.LoadSettings first when a database is
// available so that its rows take precedence over the environment.
func Load() Config {
	return Config{
		AI:                 LoadAI(),
		Port:               GetSetting("port", "PORT", "3001"),
		MySQLDSN:           GetSetting("", "MYSQL_DSN", ""),
		RedisURL:           GetSetting("redis_url", "REDIS_URL", ""),
		RateLimitPerMin:    getIntSetting("rate_limit_per_min", "RATE_LIMIT_PER_MIN", 30),
		TrustedDomainsFile: GetSetting("trusted_domains_file", "TRUSTED_DOMAINS_FILE", ""),
		TrustedProxies:     splitList(GetSetting("trusted_proxies", "TRUSTED_PROXIES", "")),
		LogLevel:           GetSetting("log_level", "LOG_LEVEL", "info"),
		LogDevelopment:     getBoolSetting("log_development", "LOG_DEVELOPMENT", false),
	}
}

// splitList parses a comma-separated setting, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
