package metrics

// Config
type Config struct {
	// PushGateway is the address of the Prometheus Pushgateway.
	// Metrics are not pushed when it is empty.
	PushGateway string
	Job         string

	// Engine labels every metric of this instance.
	Engine string
}

// ServiceInfo
type ServiceInfo struct {
	Engine string
}
