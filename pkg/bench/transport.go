package bench

import (
	"bufio"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/momentics/gobench/internal/util"
)

// Transport - канал обмена текстом с прибором. Таймауты и ошибки физического
// уровня принадлежат транспорту; Read возвращает ровно один ответ.
// Ошибки должны оборачивать ErrTransport или ErrTimeout.
type Transport interface {
	Write(cmd string) error
	Read() (string, error)
	Close() error
}

type deadliner interface {
	SetDeadline(t time.Time) error
}

// streamTransport передаёт команды по потоку байт, завершая каждую терминатором.
type streamTransport struct {
	rw      io.ReadWriteCloser
	br      *bufio.Reader
	term    byte
	timeout time.Duration
	dl      deadliner
}

// NewStreamTransport создаёт транспорт поверх произвольного потока (TCP, адаптер GPIB и т.п.).
// Если поток поддерживает SetDeadline, на каждый обмен ставится срок timeout.
func NewStreamTransport(rw io.ReadWriteCloser, term byte, timeout time.Duration) Transport {
	t := &streamTransport{
		rw:      rw,
		br:      bufio.NewReaderSize(rw, 64*1024),
		term:    term,
		timeout: timeout,
	}
	if dl, ok := rw.(deadliner); ok {
		t.dl = dl
	}
	return t
}

func newSerialTransport(port util.SerialPortInterface, term byte) Transport {
	// таймаут чтения уже выставлен на порту
	return NewStreamTransport(port, term, 0)
}

func (t *streamTransport) Write(cmd string) error {
	if err := t.arm(); err != nil {
		return classify(err, "write")
	}
	buf := make([]byte, 0, len(cmd)+1)
	buf = append(buf, cmd...)
	buf = append(buf, t.term)
	if _, err := t.rw.Write(buf); err != nil {
		return classify(err, "write")
	}
	return nil
}

func (t *streamTransport) Read() (string, error) {
	if err := t.arm(); err != nil {
		return "", classify(err, "read")
	}
	resp, err := readResponse(t.br, t.term)
	if err != nil {
		return "", classify(err, "read")
	}
	return string(resp), nil
}

func (t *streamTransport) Close() error {
	if err := t.rw.Close(); err != nil {
		return errors.Wrapf(ErrTransport, "close: %v", err)
	}
	return nil
}

func (t *streamTransport) arm() error {
	if t.dl == nil || t.timeout <= 0 {
		return nil
	}
	return t.dl.SetDeadline(time.Now().Add(t.timeout))
}

func classify(err error, op string) error {
	switch {
	case errors.Is(err, ErrProtocol), errors.Is(err, ErrTransport), errors.Is(err, ErrTimeout):
		return err
	case isTimeout(err):
		return errors.Wrapf(ErrTimeout, "%s: %v", op, err)
	default:
		return errors.Wrapf(ErrTransport, "%s: %v", op, err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, util.ErrReadTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// dial открывает транспорт по адресу вида tcp://host[:port] или serial:///dev/ttyUSB0?baud=9600.
func dial(address string, cfg *sessionConfig) (Transport, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, validationErrorf("invalid address %q: %v", address, err)
	}

	switch u.Scheme {
	case "tcp":
		if u.Host == "" {
			return nil, validationErrorf("address %q has no host", address)
		}
		hostport := u.Host
		if u.Port() == "" {
			hostport = net.JoinHostPort(u.Hostname(), strconv.Itoa(DefaultTCPPort))
		}
		conn, err := net.DialTimeout("tcp", hostport, cfg.dialTimeout)
		if err != nil {
			return nil, errors.Wrapf(ErrTransport, "dial %s: %v", hostport, err)
		}
		return NewStreamTransport(conn, cfg.terminator, cfg.timeout), nil

	case "serial":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == "" {
			return nil, validationErrorf("address %q has no port path", address)
		}
		baud := cfg.baudRate
		if v := u.Query().Get("baud"); v != "" {
			baud, err = strconv.Atoi(v)
			if err != nil || baud <= 0 {
				return nil, validationErrorf("invalid baud rate %q in %q", v, address)
			}
		}
		port, err := util.OpenPort(path, util.DefaultMode(baud), cfg.timeout)
		if err != nil {
			return nil, errors.Wrapf(ErrTransport, "open %s: %v", path, err)
		}
		return newSerialTransport(port, cfg.terminator), nil

	default:
		return nil, validationErrorf("unsupported address scheme %q in %q", u.Scheme, address)
	}
}
