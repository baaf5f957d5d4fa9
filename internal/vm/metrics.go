package vm

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// PerformanceMetrics is the plain, allocation-light snapshot returned
// by the Facade's performance_metrics() accessor.
type PerformanceMetrics struct {
	InstructionsExecuted uint64
	ExecutionTimeMs      uint32
	MemoryOperations     uint64
	IOOperations         uint64
}

// metricsRegistry backs the Facade's monotonically-increasing counters
// with real prometheus.Counter/Gauge instruments. A private,
// unregistered prometheus.Registry is used so that concurrent VM
// instances never collide on the global DefaultRegisterer, and so this
// module never starts an HTTP exporter — it only reads the instruments
// back out through the standard client_golang metric-family
// accessors.
type metricsRegistry struct {
	instanceLabel string
	registry      *prometheus.Registry

	instructionsExecuted prometheus.Counter
	executionTimeMs      prometheus.Gauge
	memoryOperations     prometheus.Counter
	ioOperations         prometheus.Counter
}

func newMetricsRegistry(instanceLabel string) *metricsRegistry {
	reg := prometheus.NewRegistry()

	m := &metricsRegistry{
		instanceLabel: instanceLabel,
		registry:      reg,
		instructionsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "cockpitvm_instructions_executed_total",
			Help:        "Total instructions executed by this VM instance since the last reset.",
			ConstLabels: prometheus.Labels{"vm": instanceLabel},
		}),
		executionTimeMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "cockpitvm_execution_time_ms",
			Help:        "Wall-clock milliseconds elapsed in the most recent run.",
			ConstLabels: prometheus.Labels{"vm": instanceLabel},
		}),
		memoryOperations: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "cockpitvm_memory_operations_total",
			Help:        "Total global/array memory accesses since the last reset.",
			ConstLabels: prometheus.Labels{"vm": instanceLabel},
		}),
		ioOperations: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "cockpitvm_io_operations_total",
			Help:        "Total I/O port calls since the last reset.",
			ConstLabels: prometheus.Labels{"vm": instanceLabel},
		}),
	}

	reg.MustRegister(m.instructionsExecuted, m.executionTimeMs, m.memoryOperations, m.ioOperations)
	return m
}

func (m *metricsRegistry) recordInstruction() {
	m.instructionsExecuted.Inc()
}

func (m *metricsRegistry) recordMemoryOp() {
	m.memoryOperations.Inc()
}

func (m *metricsRegistry) recordIOOp() {
	m.ioOperations.Inc()
}

func (m *metricsRegistry) setExecutionTimeMs(ms uint32) {
	m.executionTimeMs.Set(float64(ms))
}

func counterValue(c prometheus.Counter) uint64 {
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		return 0
	}
	return uint64(metric.GetCounter().GetValue())
}

func gaugeValue(g prometheus.Gauge) uint32 {
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		return 0
	}
	return uint32(metric.GetGauge().GetValue())
}

func (m *metricsRegistry) snapshot() PerformanceMetrics {
	return PerformanceMetrics{
		InstructionsExecuted: counterValue(m.instructionsExecuted),
		ExecutionTimeMs:      gaugeValue(m.executionTimeMs),
		MemoryOperations:     counterValue(m.memoryOperations),
		IOOperations:         counterValue(m.ioOperations),
	}
}

func (m *metricsRegistry) reset() {
	*m = *newMetricsRegistry(m.instanceLabel)
}
