package ukf

import "testing"

func TestImplementsKF(t *testing.T) {
	implements := func(Filter) {}
	implements(new(UKF))
}

func TestImplementsEst(t *testing.T) {
	implements := func(Estimate) {}
	implements(UKFEstimate{})
}

func TestImplementsExporter(t *testing.T) {
	implements := func(Exporter) {}
	implements(new(CSVExporter))
}
