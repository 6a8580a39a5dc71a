package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/momentics/gobench/internal/sink"
	"github.com/momentics/gobench/pkg/bench"
	"github.com/momentics/gobench/pkg/logger"
)

// publisher - приёмник снятых осциллограмм.
type publisher interface {
	Publish(ctx context.Context, msg sink.Message) error
}

type server struct {
	cfg  *Config
	pool *bench.Pool
	sink publisher
	log  logger.Logger
	now  func() time.Time
}

func (s *server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/instruments", s.handleInstruments)
	mux.HandleFunc("/api/v1/idn", s.handleIdentity)
	mux.HandleFunc("/api/v1/errors", s.handleErrors)
	mux.HandleFunc("/api/v1/waveform", s.handleWaveform)
}

type instrumentInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Model    string `json:"model"`
	Family   string `json:"family"`
	Channels int    `json:"channels"`
	Open     bool   `json:"open"`
}

func (s *server) handleInstruments(w http.ResponseWriter, _ *http.Request) {
	out := make([]instrumentInfo, 0, len(s.cfg.Instruments))
	for _, ic := range s.cfg.Instruments {
		m, err := bench.LookupModel(ic.Model)
		if err != nil {
			continue
		}
		_, open := s.pool.Lookup(ic.Address)
		out = append(out, instrumentInfo{
			Name:     ic.Name,
			Address:  ic.Address,
			Model:    m.Name,
			Family:   m.Family.String(),
			Channels: m.Channels,
			Open:     open,
		})
	}
	s.writeJSON(w, out)
}

func (s *server) handleIdentity(w http.ResponseWriter, r *http.Request) {
	inst, ic, ok := s.instrument(w, r)
	if !ok {
		return
	}
	id, err := inst.GetInfo()
	if err != nil {
		s.fail(w, ic, err)
		return
	}
	s.writeJSON(w, id)
}

func (s *server) handleErrors(w http.ResponseWriter, r *http.Request) {
	inst, ic, ok := s.instrument(w, r)
	if !ok {
		return
	}
	errs, err := inst.DrainErrors(32)
	if err != nil {
		s.fail(w, ic, err)
		return
	}
	if errs == nil {
		errs = []bench.InstrumentError{}
	}
	s.writeJSON(w, errs)
}

func (s *server) handleWaveform(w http.ResponseWriter, r *http.Request) {
	inst, ic, ok := s.instrument(w, r)
	if !ok {
		return
	}
	if inst.Model().Family != bench.FamilyOscilloscope {
		http.Error(w, ic.Name+" is not an oscilloscope", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	channel, err := intParam(q.Get("channel"), 1)
	if err != nil {
		http.Error(w, "channel: "+err.Error(), http.StatusBadRequest)
		return
	}
	acq := bench.DefaultAcquireConfig()
	if acq.Points, err = intParam(q.Get("points"), acq.Points); err != nil {
		http.Error(w, "points: "+err.Error(), http.StatusBadRequest)
		return
	}

	view, err := inst.View(channel)
	if err != nil {
		s.fail(w, ic, err)
		return
	}
	scope := &bench.Oscilloscope{Instrument: view}

	start := time.Now()
	wf, err := scope.AcquireWaveformWith(acq)
	if err != nil {
		s.fail(w, ic, err)
		return
	}
	acquisitionDuration.WithLabelValues(ic.Name).Observe(time.Since(start).Seconds())

	if s.sink != nil {
		msg := sink.NewMessage(ic.Name, inst.Model().Name, wf, s.now())
		if err := s.sink.Publish(r.Context(), msg); err != nil {
			s.log.Warn("waveform not published", "instrument", ic.Name, "error", err)
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := wf.WriteCSV(w); err != nil {
		s.log.Warn("csv write failed", "instrument", ic.Name, "error", err)
	}
}

func (s *server) instrument(w http.ResponseWriter, r *http.Request) (*bench.Instrument, InstrumentConfig, bool) {
	name := r.URL.Query().Get("instrument")
	if name == "" {
		http.Error(w, "parameter 'instrument' is required", http.StatusBadRequest)
		return nil, InstrumentConfig{}, false
	}
	ic, ok := s.cfg.Instrument(name)
	if !ok {
		http.Error(w, "unknown instrument "+name, http.StatusNotFound)
		return nil, InstrumentConfig{}, false
	}
	inst, err := s.pool.Get(ic.Address, ic.Model)
	if err != nil {
		s.fail(w, ic, err)
		return nil, ic, false
	}
	return inst, ic, true
}

// fail отвечает кодом по категории ошибки. Сломанный транспортом сеанс удаляется из пула,
// следующий запрос откроет прибор заново.
func (s *server) fail(w http.ResponseWriter, ic InstrumentConfig, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, bench.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, bench.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, bench.ErrTransport):
		status = http.StatusBadGateway
		if rmErr := s.pool.Remove(ic.Address); rmErr != nil {
			s.log.Warn("close failed", "instrument", ic.Name, "error", rmErr)
		}
	case errors.Is(err, bench.ErrProtocol):
		status = http.StatusBadGateway
	}
	s.log.Error("request failed", "instrument", ic.Name, "status", status, "error", err)
	http.Error(w, err.Error(), status)
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func (s *server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("json write failed", "error", err)
	}
}
