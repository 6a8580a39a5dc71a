package bench

import (
	"time"

	"github.com/pkg/errors"

	"github.com/momentics/gobench/pkg/logger"
)

const (
	DefaultTimeout     = 5 * time.Second // ожидание одного ответа
	DefaultDialTimeout = 3 * time.Second
	DefaultBaudRate    = 115200
	DefaultTCPPort     = 5025 // SCPI raw socket
	DefaultTerminator  = '\n'
)

type sessionConfig struct {
	timeout     time.Duration
	dialTimeout time.Duration
	baudRate    int
	terminator  byte
	logger      logger.Logger
}

func newSessionConfig(opts []Option) (*sessionConfig, error) {
	cfg := &sessionConfig{
		timeout:     DefaultTimeout,
		dialTimeout: DefaultDialTimeout,
		baudRate:    DefaultBaudRate,
		terminator:  DefaultTerminator,
		logger:      logger.GetLogger(),
	}
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Option настраивает сеанс, создаваемый Open или NewSession.
type Option interface {
	apply(*sessionConfig) error
}

type optFunc func(*sessionConfig) error

func (f optFunc) apply(cfg *sessionConfig) error { return f(cfg) }

// WithTimeout задаёт время ожидания одного ответа прибора.
func WithTimeout(d time.Duration) Option {
	return optFunc(func(cfg *sessionConfig) error {
		if d <= 0 {
			return errors.Wrapf(ErrValidation, "timeout %v must be positive", d)
		}
		cfg.timeout = d
		return nil
	})
}

// WithDialTimeout задаёт таймаут установки TCP-соединения.
func WithDialTimeout(d time.Duration) Option {
	return optFunc(func(cfg *sessionConfig) error {
		if d <= 0 {
			return errors.Wrapf(ErrValidation, "dial timeout %v must be positive", d)
		}
		cfg.dialTimeout = d
		return nil
	})
}

// WithBaudRate задаёт скорость последовательного порта. Параметр baud в адресе имеет приоритет.
func WithBaudRate(baud int) Option {
	return optFunc(func(cfg *sessionConfig) error {
		if baud <= 0 {
			return errors.Wrapf(ErrValidation, "baud rate %d must be positive", baud)
		}
		cfg.baudRate = baud
		return nil
	})
}

// WithTerminator задаёт символ конца сообщения: '\n' (по умолчанию) или '\r'.
func WithTerminator(term byte) Option {
	return optFunc(func(cfg *sessionConfig) error {
		if term != '\n' && term != '\r' {
			return errors.Wrapf(ErrValidation, "terminator %q must be \\n or \\r", term)
		}
		cfg.terminator = term
		return nil
	})
}

// WithLogger задаёт логгер сеанса.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *sessionConfig) error {
		if l == nil {
			return errors.Wrap(ErrValidation, "logger is nil")
		}
		cfg.logger = l
		return nil
	})
}
