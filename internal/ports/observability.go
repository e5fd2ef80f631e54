package ports

// Observability is the reporting boundary. Every failed cycle and every
// startup resolution error is reported here with an error kind and detail;
// failures are never silently dropped.
type Observability interface {
	LogInfo(msg string, fields ...Field)
	LogError(msg string, err error, fields ...Field)
	LogCritical(msg string, err error, fields ...Field)

	IncCounter(name string, v float64)
	ObserveLatency(name string, seconds float64)
	SetGauge(name string, v float64)

	// RecordCycleFailure reports one failed acquisition cycle with its
	// taxonomy kind (domain.ErrorKind).
	RecordCycleFailure(kind string, err error)
}

type Field struct {
	Key   string
	Value any
}
