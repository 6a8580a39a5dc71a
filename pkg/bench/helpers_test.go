package bench

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/momentics/gobench/internal/util"
	"github.com/momentics/gobench/pkg/logger"
)

// simInstrument - программная модель SCPI-прибора. Команда "HEADER value" запоминает
// value под HEADER, запрос "HEADER?" его возвращает. Фиксированные ответы задаются
// в replies: при нескольких ответах они выдаются по очереди, последний повторяется.
// Запрос без ответа приводит к таймауту чтения.
type simInstrument struct {
	mu       sync.Mutex
	written  []string
	pending  []string
	state    map[string]string
	replies  map[string][]string
	writeErr error
	closed   bool
}

func newSim() *simInstrument {
	return &simInstrument{
		state: map[string]string{"*ESE": "0"},
		replies: map[string][]string{
			"*IDN?":         {"KEYSIGHT TECHNOLOGIES,DSOX1204G,CN60000000,02.12.2021071625"},
			"*OPC?":         {"1"},
			"SYSTem:ERRor?": {`+0,"No error"`},
		},
	}
}

func (s *simInstrument) reply(query string, responses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[query] = responses
}

func (s *simInstrument) set(header, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[header] = value
}

func (s *simInstrument) get(header string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state[header]
}

func (s *simInstrument) writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.written...)
}

func (s *simInstrument) Write(cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.Wrap(ErrTransport, "sim: closed")
	}
	if s.writeErr != nil {
		return s.writeErr
	}
	s.written = append(s.written, cmd)

	head, value, _ := strings.Cut(cmd, " ")
	if !strings.HasSuffix(head, "?") {
		s.state[head] = value
		return nil
	}
	if rs, ok := s.replies[cmd]; ok && len(rs) > 0 {
		s.pending = append(s.pending, rs[0])
		if len(rs) > 1 {
			s.replies[cmd] = rs[1:]
		}
		return nil
	}
	if v, ok := s.state[strings.TrimSuffix(head, "?")]; ok {
		s.pending = append(s.pending, v)
	}
	return nil
}

func (s *simInstrument) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", errors.Wrap(ErrTransport, "sim: closed")
	}
	if len(s.pending) == 0 {
		return "", errors.Wrap(ErrTimeout, "sim: no response")
	}
	resp := s.pending[0]
	s.pending = s.pending[1:]
	return resp, nil
}

func (s *simInstrument) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func quietLogger() logger.Logger {
	return logger.NewSlogWriter(io.Discard, logger.ErrorLevel, false)
}

func newTestSession(t *testing.T, sim *simInstrument) *Session {
	t.Helper()
	s, err := NewSession("sim://bench", sim, WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func lookupModel(t *testing.T, name string) *Model {
	t.Helper()
	m, err := LookupModel(name)
	require.NoError(t, err)
	return m
}

func newTestScope(t *testing.T, model string) (*Oscilloscope, *simInstrument) {
	t.Helper()
	sim := newSim()
	o, err := NewOscilloscope(newTestSession(t, sim), lookupModel(t, model), WithoutStartup())
	require.NoError(t, err)
	return o, sim
}

func newTestGenerator(t *testing.T, model string) (*FunctionGenerator, *simInstrument) {
	t.Helper()
	sim := newSim()
	g, err := NewFunctionGenerator(newTestSession(t, sim), lookupModel(t, model), WithoutStartup())
	require.NoError(t, err)
	return g, sim
}

func newTestSupply(t *testing.T, model string) (*PowerSupply, *simInstrument) {
	t.Helper()
	sim := newSim()
	p, err := NewPowerSupply(newTestSession(t, sim), lookupModel(t, model), WithoutStartup())
	require.NoError(t, err)
	return p, sim
}

// mockSerialPort имитирует порт go.bug.st/serial: пустой буфер даёт таймаут чтения.
type mockSerialPort struct {
	mu          sync.Mutex
	readBuffer  bytes.Buffer
	writeBuffer bytes.Buffer
	closed      bool
}

var _ util.SerialPortInterface = (*mockSerialPort)(nil)

func (m *mockSerialPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readBuffer.Len() == 0 {
		return 0, util.ErrReadTimeout
	}
	return m.readBuffer.Read(p)
}

func (m *mockSerialPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	return m.writeBuffer.Write(p)
}

func (m *mockSerialPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSerialPort) SetReadTimeout(time.Duration) error { return nil }

func (m *mockSerialPort) ResetInputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuffer.Reset()
	return nil
}

func (m *mockSerialPort) SetReadData(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuffer.Write(data)
}

func (m *mockSerialPort) Written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeBuffer.String()
}
