package config

// MetricsConfig управляет публикацией метрик Prometheus.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"USERS_METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path" env:"USERS_METRICS_PATH" env-default:"/metrics"`
}
