package utils

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
	RsvpSubmit    chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
		RsvpSubmit:    make(chan float64),
	}
}

// Non-blocking sends; when no collector is draining the channel (tests,
// metrics disabled) the sample is dropped instead of stalling a request.

func (m *Metric) ObserveDatabaseRead(microsec float64) {
	select {
	case m.DatabaseRead <- microsec:
	default:
	}
}

func (m *Metric) ObserveDatabaseWrite(microsec float64) {
	select {
	case m.DatabaseWrite <- microsec:
	default:
	}
}

func (m *Metric) ObserveRsvpSubmit(microsec float64) {
	select {
	case m.RsvpSubmit <- microsec:
	default:
	}
}
