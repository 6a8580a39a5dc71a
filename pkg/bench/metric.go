package bench

import "sync/atomic"

// SessionMetrics - счётчики обменов сеанса.
// Читаются без блокировки сеанса, сервер отдаёт их в prometheus.
type SessionMetrics struct {
	WriteCount        atomic.Uint64
	ReadCount         atomic.Uint64
	ReadBytes         atomic.Uint64
	TimeoutCount      atomic.Uint64
	TransportErrCount atomic.Uint64
	DiscardCount      atomic.Uint64 // ответы, отброшенные при ресинхронизации
}

func (m *SessionMetrics) incWrite() { m.WriteCount.Add(1) }

func (m *SessionMetrics) incRead(n int) {
	m.ReadCount.Add(1)
	m.ReadBytes.Add(uint64(n))
}

func (m *SessionMetrics) incTimeout() { m.TimeoutCount.Add(1) }

func (m *SessionMetrics) incTransportErr() { m.TransportErrCount.Add(1) }

func (m *SessionMetrics) incDiscard() { m.DiscardCount.Add(1) }
