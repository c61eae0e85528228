package config

// ObservabilityConfig groups configuration that controls metrics.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
}

// ObservabilityMetricsConfig controls the Prometheus endpoint.
type ObservabilityMetricsConfig struct {
	Enabled bool `env:"OBSERVABILITY_METRICS_ENABLED" envDefault:"true"`
	// RuntimeCollectors adds Go runtime and process metrics.
	RuntimeCollectors bool `env:"OBSERVABILITY_METRICS_RUNTIME" envDefault:"true"`
}
