package modbus

import (
	"context"
	"fmt"
	"time"
)

// TransportStats is a point-in-time view of the client counters.
type TransportStats struct {
	Endpoint       string
	ReadCount      uint64
	WriteCount     uint64
	ConnectErrors  uint64
	IOErrors       uint64
	AvgReadTimeMs  float64
	AvgWriteTimeMs float64
	LastSuccess    time.Time
	LastError      error
}

// HealthCheck reports the outcome of the most recent transaction. It never
// touches the wire so that probes do not compete with the operator.
func (c *Client) HealthCheck(ctx context.Context) error {
	h, ok := c.lastError.Load().(errorHolder)
	if !ok {
		return nil
	}
	if h.err != nil {
		return fmt.Errorf("last transaction failed: %w", h.err)
	}
	return nil
}

// TransportStats returns the client statistics.
func (c *Client) TransportStats() TransportStats {
	readCount := c.stats.ReadCount.Load()
	writeCount := c.stats.WriteCount.Load()
	totalReadNs := c.stats.TotalReadTime.Load()
	totalWriteNs := c.stats.TotalWriteTime.Load()

	var avgReadMs, avgWriteMs float64
	if readCount > 0 {
		avgReadMs = float64(totalReadNs) / float64(readCount) / 1e6
	}
	if writeCount > 0 {
		avgWriteMs = float64(totalWriteNs) / float64(writeCount) / 1e6
	}

	s := TransportStats{
		Endpoint:       c.dialer.Describe(),
		ReadCount:      readCount,
		WriteCount:     writeCount,
		ConnectErrors:  c.stats.ConnectErrors.Load(),
		IOErrors:       c.stats.IOErrors.Load(),
		AvgReadTimeMs:  avgReadMs,
		AvgWriteTimeMs: avgWriteMs,
	}
	if ns := c.lastOK.Load(); ns > 0 {
		s.LastSuccess = time.Unix(0, ns)
	}
	if h, ok := c.lastError.Load().(errorHolder); ok {
		s.LastError = h.err
	}
	return s
}
