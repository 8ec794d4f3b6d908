package server

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tomz197/asteroids3d/internal/loop/server"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
