package metrics

import (
	"sync/atomic"
	"time"
)

// Collector is a process-local counter set exposed on /metrics. Payroll
// counters track engine throughput alongside the HTTP figures.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64
	detailsBuilt    uint64
	runsProcessed   uint64
	slipsGenerated  uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) DetailsBuilt(n int) {
	if n > 0 {
		atomic.AddUint64(&c.detailsBuilt, uint64(n))
	}
}

func (c *Collector) RunProcessed() {
	atomic.AddUint64(&c.runsProcessed, 1)
}

func (c *Collector) SlipGenerated() {
	atomic.AddUint64(&c.slipsGenerated, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":       total,
		"errorsTotal":         atomic.LoadUint64(&c.errorRequests),
		"avgDurationMs":       avg,
		"totalDurationMs":     totalMs,
		"payrollDetailsBuilt": atomic.LoadUint64(&c.detailsBuilt),
		"payrollRunsTotal":    atomic.LoadUint64(&c.runsProcessed),
		"salarySlipsTotal":    atomic.LoadUint64(&c.slipsGenerated),
	}
}
