package console

import (
	"github.com/nexus-edge/hvac-console/internal/metrics"
	"github.com/rs/zerolog"
)

// NewDefaultRegistry returns a registry holding the full command set.
func NewDefaultRegistry(logger zerolog.Logger, metricsReg *metrics.Registry) *Registry {
	r := NewRegistry(logger, metricsReg)
	registerSettings(r)
	registerSystem(r)
	registerFlow(r)
	registerOperation(r)
	registerModbus(r)
	registerTemperature(r)
	registerOil(r)
	registerFunctions(r)
	registerMonitor(r)
	registerHotWater(r)
	registerDeveloper(r)
	registerHistory(r)
	registerHelp(r)
	return r
}
