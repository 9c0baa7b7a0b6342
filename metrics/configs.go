package metrics

const (
	DefaultSystemMetricsAddress      = ":9090"
	DefaultApplicationMetricsAddress = ":9091"
	DefaultNamespace                 = "airflow_relay"
)

// Config controls the two metrics listeners.
type Config struct {
	// SystemMetricsAddress is where runtime metrics are served. nil means
	// DefaultSystemMetricsAddress, a pointer to "" disables the listener.
	SystemMetricsAddress *string `envconfig:"METRICS_SYSTEM_ADDRESS"`

	// ApplicationMetricsAddress is where relay metrics are served. nil means
	// DefaultApplicationMetricsAddress, a pointer to "" disables the listener
	// while metrics are still collected.
	ApplicationMetricsAddress *string `envconfig:"METRICS_APPLICATION_ADDRESS"`

	// ServiceName is attached to every series as the service label.
	ServiceName string `envconfig:"METRICS_SERVICE_NAME"`

	// Namespace prefixes application series. Empty means DefaultNamespace.
	Namespace string `envconfig:"METRICS_NAMESPACE"`
}

// Ptr returns a pointer to s, for the address fields.
func Ptr(s string) *string {
	return &s
}

func addressOrDefault(addr *string, def string) string {
	if addr == nil {
		return def
	}
	return *addr
}
