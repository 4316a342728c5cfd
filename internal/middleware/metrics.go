package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
// The returned middleware registers default request counters/histograms and
// serves the scrape endpoint once registered on the app.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
