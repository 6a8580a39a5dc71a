package bench

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/momentics/gobench/pkg/logger"
)

// Session - последовательный поток команд к одному прибору.
// Канал не сопоставляет ответы запросам, поэтому каждая пара запись-чтение
// выполняется под мьютексом сеанса. Разные сеансы независимы.
type Session struct {
	address string
	log     logger.Logger
	metrics SessionMetrics

	mu        sync.Mutex
	transport Transport
	closed    bool
	broken    error
	desync    error
	eseMask   uint8
}

const (
	resyncMarker   = "*OPC?"
	resyncReads    = 16 // предел отброшенных ответов
	resyncTimeouts = 3  // подряд идущих таймаутов, после которых прибор считается молчащим
)

// Open открывает транспорт по адресу и создаёт сеанс поверх него.
func Open(address string, opts ...Option) (*Session, error) {
	cfg, err := newSessionConfig(opts)
	if err != nil {
		return nil, err
	}
	t, err := dial(address, cfg)
	if err != nil {
		return nil, err
	}
	return newSession(address, t, cfg), nil
}

// NewSession создаёт сеанс поверх уже открытого транспорта. Сеанс становится
// его единственным владельцем и закрывает его в Close.
func NewSession(address string, t Transport, opts ...Option) (*Session, error) {
	if t == nil {
		return nil, errors.Wrap(ErrValidation, "transport is nil")
	}
	cfg, err := newSessionConfig(opts)
	if err != nil {
		return nil, err
	}
	return newSession(address, t, cfg), nil
}

func newSession(address string, t Transport, cfg *sessionConfig) *Session {
	return &Session{
		address:   address,
		transport: t,
		log:       cfg.logger.With("address", address),
	}
}

// Address возвращает адрес, с которым был открыт сеанс.
func (s *Session) Address() string { return s.address }

// Metrics возвращает счётчики обменов.
func (s *Session) Metrics() *SessionMetrics { return &s.metrics }

// Write отправляет команду без ожидания ответа.
func (s *Session) Write(cmd string) error {
	return s.Do(func(x Exchange) error { return x.Write(cmd) })
}

// Read ждёт один ответ прибора.
func (s *Session) Read() (string, error) {
	var resp string
	err := s.Do(func(x Exchange) error {
		var err error
		resp, err = x.Read()
		return err
	})
	return resp, err
}

// Query отправляет команду и читает ответ как единое целое:
// между записью и чтением другой вызывающий код не вклинится.
func (s *Session) Query(cmd string) (string, error) {
	var resp string
	err := s.Do(func(x Exchange) error {
		var err error
		resp, err = x.Query(cmd)
		return err
	})
	return resp, err
}

// Do выполняет fn под мьютексом сеанса. Все обмены внутри fn идут подряд,
// без чужих команд между ними. Exchange нельзя использовать после возврата из fn.
func (s *Session) Do(fn func(x Exchange) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return err
	}
	return fn(Exchange{s: s})
}

// Resync выравнивает поток ответов: отправляет *OPC? и отбрасывает всё,
// что пришло до его ответа. После таймаута или ошибки разбора ответа
// Write делает это сам перед следующей командой, поэтому запоздавший ответ
// не достанется следующему запросу. Read без новой команды по-прежнему
// получает запоздавший ответ.
func (s *Session) Resync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return err
	}
	return s.resync()
}

func (s *Session) resync() error {
	cause := s.desync
	s.log.Debug("resync", "cause", cause)
	if err := s.transport.Write(resyncMarker); err != nil {
		return s.fail("resync", err)
	}
	s.metrics.incWrite()

	timeouts := 0
	for i := 0; i < resyncReads; i++ {
		resp, err := s.transport.Read()
		switch {
		case err == nil:
			s.metrics.incRead(len(resp))
			if resp == "1" {
				s.desync = nil
				return nil
			}
			timeouts = 0
			s.metrics.incDiscard()
			s.log.Warn("stale response discarded", "bytes", len(resp))
		case errors.Is(err, ErrTimeout):
			s.metrics.incTimeout()
			if timeouts++; timeouts >= resyncTimeouts {
				return errors.Wrapf(ErrDesync, "session %s: no answer to %s after %v", s.address, resyncMarker, cause)
			}
		case errors.Is(err, ErrProtocol):
			s.metrics.incDiscard()
			s.log.Warn("malformed stale response discarded", "error", err)
		default:
			return s.fail("resync", err)
		}
	}
	return errors.Wrapf(ErrDesync, "session %s: more than %d stale responses", s.address, resyncReads)
}

// Close закрывает транспорт. Повторный вызов ничего не делает.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.log.Debug("session closed")
	return s.transport.Close()
}

// ESEMask возвращает последнюю записанную или прочитанную маску Standard Event Enable.
func (s *Session) ESEMask() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eseMask
}

func (s *Session) usable() error {
	if s.closed {
		return errors.Wrapf(ErrSessionClosed, "session %s", s.address)
	}
	if s.broken != nil {
		return errors.Wrapf(ErrSessionClosed, "session %s broken by %v", s.address, s.broken)
	}
	return nil
}

func (s *Session) fail(op string, err error) error {
	if errors.Is(err, ErrTimeout) {
		s.metrics.incTimeout()
		s.desync = err
		s.log.Warn("instrument timeout", "op", op, "error", err)
		return err
	}
	if !errors.Is(err, ErrTransport) && !errors.Is(err, ErrProtocol) {
		err = errors.Wrapf(ErrTransport, "%s: %v", op, err)
	}
	if errors.Is(err, ErrProtocol) {
		// кадр мог быть прочитан не до конца
		s.desync = err
	}
	if errors.Is(err, ErrTransport) {
		s.metrics.incTransportErr()
		s.broken = err
		s.log.Error("transport failure, session unusable", "op", op, "error", err)
	}
	return err
}

// Exchange - доступ к сеансу внутри Session.Do.
type Exchange struct {
	s *Session
}

// Write отправляет команду.
func (x Exchange) Write(cmd string) error {
	if err := checkCommand(cmd); err != nil {
		return err
	}
	if err := x.s.usable(); err != nil {
		return err
	}
	if x.s.desync != nil {
		if err := x.s.resync(); err != nil {
			return err
		}
	}
	x.s.log.Debug("write", "cmd", cmd)
	if err := x.s.transport.Write(cmd); err != nil {
		return x.s.fail("write", err)
	}
	x.s.metrics.incWrite()
	return nil
}

// Read читает один ответ.
func (x Exchange) Read() (string, error) {
	if err := x.s.usable(); err != nil {
		return "", err
	}
	resp, err := x.s.transport.Read()
	if err != nil {
		return "", x.s.fail("read", err)
	}
	x.s.metrics.incRead(len(resp))
	x.s.log.Debug("read", "bytes", len(resp))
	return resp, nil
}

// Query - Write и сразу Read.
func (x Exchange) Query(cmd string) (string, error) {
	if err := x.Write(cmd); err != nil {
		return "", err
	}
	return x.Read()
}

func checkCommand(cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return errors.Wrap(ErrValidation, "empty command")
	}
	if strings.ContainsAny(cmd, "\r\n") {
		return errors.Wrapf(ErrValidation, "command %q contains a line terminator", cmd)
	}
	return nil
}
