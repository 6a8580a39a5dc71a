package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/momentics/gobench/internal/sink"
	"github.com/momentics/gobench/pkg/bench"
	"github.com/momentics/gobench/pkg/logger"
)

// scripted - транспорт с заранее заданными ответами на запросы.
// Ответы из очереди выдаются по порядку, последний повторяется.
type scripted struct {
	mu       sync.Mutex
	replies  map[string][]string
	pending  []string
	writeErr error
}

func (s *scripted) Write(cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if rs := s.replies[cmd]; len(rs) > 0 {
		s.pending = append(s.pending, rs[0])
		if len(rs) > 1 {
			s.replies[cmd] = rs[1:]
		}
	}
	return nil
}

func (s *scripted) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return "", errors.Wrap(bench.ErrTimeout, "no response")
	}
	r := s.pending[0]
	s.pending = s.pending[1:]
	return r, nil
}

func (s *scripted) Close() error { return nil }

type capturePublisher struct {
	mu   sync.Mutex
	msgs []sink.Message
	err  error
}

func (p *capturePublisher) Publish(_ context.Context, msg sink.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

var testNow = time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, transports map[string]*scripted) (*server, *httptest.Server) {
	t.Helper()
	log := logger.NewSlogWriter(io.Discard, logger.ErrorLevel, false)
	cfg := DefaultConfig()
	cfg.Instruments = []InstrumentConfig{
		{Name: "scope", Address: "tcp://scope", Model: "DSOX1204G"},
		{Name: "psu", Address: "tcp://psu", Model: "E36312A"},
	}
	pool := bench.NewPool([]bench.Option{bench.WithLogger(log)}, bench.WithoutStartup()).
		WithOpener(func(address string, opts ...bench.Option) (*bench.Session, error) {
			tr, ok := transports[address]
			if !ok {
				return nil, errors.Wrapf(bench.ErrTransport, "dial %s: connection refused", address)
			}
			return bench.NewSession(address, tr, opts...)
		})
	t.Cleanup(func() { pool.CloseAll() })

	srv := &server{cfg: cfg, pool: pool, log: log, now: func() time.Time { return testNow }}
	mux := http.NewServeMux()
	srv.routes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return srv, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func scopeTransport() *scripted {
	return &scripted{replies: map[string][]string{
		"*IDN?":               {"KEYSIGHT TECHNOLOGIES,DSOX1204G,CN60000000,02.12.2021071625"},
		":WAVeform:PREamble?": {"+4,+0,+3,+1,+1.0E-03,+0,+0,+1,+0,+0"},
		":WAVeform:DATA?":     {"#800000014 0.5,-0.5,0.25"},
	}}
}

func TestHandleInstruments(t *testing.T) {
	_, ts := newTestServer(t, map[string]*scripted{"tcp://scope": scopeTransport()})

	code, _ := get(t, ts.URL+"/api/v1/idn?instrument=scope")
	require.Equal(t, http.StatusOK, code)

	code, body := get(t, ts.URL+"/api/v1/instruments")
	require.Equal(t, http.StatusOK, code)
	var list []instrumentInfo
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Equal(t, []instrumentInfo{
		{Name: "scope", Address: "tcp://scope", Model: "DSOX1204G", Family: "oscilloscope", Channels: 4, Open: true},
		{Name: "psu", Address: "tcp://psu", Model: "E36312A", Family: "power-supply", Channels: 3, Open: false},
	}, list)
}

func TestHandleIdentity(t *testing.T) {
	_, ts := newTestServer(t, map[string]*scripted{"tcp://scope": scopeTransport()})

	code, body := get(t, ts.URL+"/api/v1/idn?instrument=SCOPE")
	require.Equal(t, http.StatusOK, code)
	var id bench.Identity
	require.NoError(t, json.Unmarshal([]byte(body), &id))
	assert.Equal(t, "DSOX1204G", id.Model)
	assert.Equal(t, "CN60000000", id.Serial)

	code, _ = get(t, ts.URL+"/api/v1/idn")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = get(t, ts.URL+"/api/v1/idn?instrument=dmm")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHandleErrors(t *testing.T) {
	tr := scopeTransport()
	tr.replies["SYSTem:ERRor?"] = []string{`-113,"Undefined header"`, `+0,"No error"`}
	_, ts := newTestServer(t, map[string]*scripted{"tcp://scope": tr})

	code, body := get(t, ts.URL+"/api/v1/errors?instrument=scope")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"code":-113,"message":"Undefined header"}]`, body)

	code, body = get(t, ts.URL+"/api/v1/errors?instrument=scope")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, body)
}

func TestHandleWaveform(t *testing.T) {
	srv, ts := newTestServer(t, map[string]*scripted{"tcp://scope": scopeTransport()})
	pub := &capturePublisher{}
	srv.sink = pub

	code, body := get(t, ts.URL+"/api/v1/waveform?instrument=scope&channel=2&points=3")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "time,value\n0,0.5\n0.001,-0.5\n0.002,0.25\n", body)

	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, "scope", msg.Instrument)
	assert.Equal(t, "DSOX1204G", msg.Model)
	assert.Equal(t, 2, msg.Channel)
	assert.Equal(t, 3, msg.Points)
	assert.Equal(t, testNow, msg.AcquiredAt)

	// выбор канала запроса не меняет канал прибора в пуле
	inst, ok := srv.pool.Lookup("tcp://scope")
	require.True(t, ok)
	assert.Equal(t, 1, inst.Channel())
}

func TestHandleWaveform_BadRequests(t *testing.T) {
	_, ts := newTestServer(t, map[string]*scripted{
		"tcp://scope": scopeTransport(),
		"tcp://psu":   {replies: map[string][]string{}},
	})

	for _, q := range []string{
		"instrument=psu",
		"instrument=scope&channel=5",
		"instrument=scope&channel=two",
		"instrument=scope&points=-3",
	} {
		code, body := get(t, ts.URL+"/api/v1/waveform?"+q)
		assert.Equal(t, http.StatusBadRequest, code, "%s: %s", q, body)
	}
}

func TestHandleWaveform_PublishFailureIsLogged(t *testing.T) {
	srv, ts := newTestServer(t, map[string]*scripted{"tcp://scope": scopeTransport()})
	srv.sink = &capturePublisher{err: errors.New("redis down")}
	mockLog := logger.NewMockLogger()
	mockLog.On("Warn", "waveform not published", mock.Anything).Return()
	srv.log = mockLog

	code, _ := get(t, ts.URL+"/api/v1/waveform?instrument=scope")
	assert.Equal(t, http.StatusOK, code)
	mockLog.AssertCalled(t, "Warn", "waveform not published", mock.Anything)
}

func TestFail_StatusByCategory(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		_, ts := newTestServer(t, map[string]*scripted{"tcp://psu": {replies: map[string][]string{}}})
		code, _ := get(t, ts.URL+"/api/v1/idn?instrument=psu")
		assert.Equal(t, http.StatusGatewayTimeout, code)
	})

	t.Run("protocol", func(t *testing.T) {
		_, ts := newTestServer(t, map[string]*scripted{"tcp://psu": {replies: map[string][]string{"*IDN?": {"garbage"}}}})
		code, _ := get(t, ts.URL+"/api/v1/idn?instrument=psu")
		assert.Equal(t, http.StatusBadGateway, code)
	})

	t.Run("open failure", func(t *testing.T) {
		_, ts := newTestServer(t, nil)
		code, body := get(t, ts.URL+"/api/v1/idn?instrument=psu")
		assert.Equal(t, http.StatusBadGateway, code)
		assert.True(t, strings.Contains(body, "connection refused"), body)
	})

	t.Run("transport failure drops the instrument", func(t *testing.T) {
		tr := scopeTransport()
		srv, ts := newTestServer(t, map[string]*scripted{"tcp://scope": tr})
		code, _ := get(t, ts.URL+"/api/v1/idn?instrument=scope")
		require.Equal(t, http.StatusOK, code)

		tr.mu.Lock()
		tr.writeErr = errors.New("connection reset by peer")
		tr.mu.Unlock()
		code, _ = get(t, ts.URL+"/api/v1/idn?instrument=scope")
		assert.Equal(t, http.StatusBadGateway, code)
		_, open := srv.pool.Lookup("tcp://scope")
		assert.False(t, open)

		tr.mu.Lock()
		tr.writeErr = nil
		tr.mu.Unlock()
		code, _ = get(t, ts.URL+"/api/v1/idn?instrument=scope")
		assert.Equal(t, http.StatusOK, code)
	})
}

type brokenWriter struct{ header http.Header }

func (b *brokenWriter) Header() http.Header {
	if b.header == nil {
		b.header = http.Header{}
	}
	return b.header
}

func (b *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }
func (b *brokenWriter) WriteHeader(int)           {}

func TestWriteJSON_FailureIsLogged(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	mockLog := logger.NewMockLogger()
	mockLog.On("Warn", "json write failed", mock.Anything).Return()
	srv.log = mockLog

	w := &brokenWriter{}
	srv.writeJSON(w, []string{"a"})
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	mockLog.AssertCalled(t, "Warn", "json write failed", mock.Anything)
}
