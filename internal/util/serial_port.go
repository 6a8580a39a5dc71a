// Package util содержит вспомогательные утилиты, не являющиеся частью публичного API.
package util

import (
	"errors"
	"time"

	"go.bug.st/serial"
)

// ErrReadTimeout возвращается из Read, если за время таймаута чтения не пришло ни одного байта.
// go.bug.st/serial в этом случае отдаёт (0, nil), что bufio принимает за пустое чтение.
var ErrReadTimeout = errors.New("serial: read timeout")

// SerialPortInterface определяет интерфейс для работы с последовательным портом.
// Это позволяет нам использовать реальный порт в production и мок-объект в тестах.
type SerialPortInterface interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// realPort - это обертка над реальной реализацией последовательного порта.
type realPort struct {
	port serial.Port
}

func (r *realPort) Read(p []byte) (int, error) {
	n, err := r.port.Read(p)
	if n == 0 && err == nil && len(p) > 0 {
		return 0, ErrReadTimeout
	}
	return n, err
}

func (r *realPort) Write(p []byte) (n int, err error)    { return r.port.Write(p) }
func (r *realPort) Close() error                         { return r.port.Close() }
func (r *realPort) SetReadTimeout(t time.Duration) error { return r.port.SetReadTimeout(t) }
func (r *realPort) ResetInputBuffer() error              { return r.port.ResetInputBuffer() }

// DefaultMode - типичные параметры USB-UART лабораторных приборов: 8N1.
func DefaultMode(baudRate int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// OpenPort открывает реальный последовательный порт и сбрасывает входной буфер,
// чтобы ответы, оставшиеся от предыдущего сеанса, не попали в первый запрос.
func OpenPort(path string, mode *serial.Mode, readTimeout time.Duration) (SerialPortInterface, error) {
	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	port := &realPort{port: p}
	if readTimeout > 0 {
		if err := port.SetReadTimeout(readTimeout); err != nil {
			p.Close()
			return nil, err
		}
	}
	if err := port.ResetInputBuffer(); err != nil {
		p.Close()
		return nil, err
	}
	return port, nil
}
