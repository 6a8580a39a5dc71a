package bench

import (
	"github.com/pkg/errors"
)

// Базовые категории ошибок. Все ошибки пакета оборачивают одну из них,
// поэтому вызывающий код проверяет категорию через errors.Is.
var (
	// ErrTransport - отказ физического канала. Сеанс после неё непригоден,
	// повторных попыток пакет не делает.
	ErrTransport = errors.New("transport error")

	// ErrTimeout - ответ не пришёл за отведённое транспортом время.
	ErrTimeout = errors.New("timeout")

	// ErrProtocol - ответ прибора не соответствует ожидаемой форме
	// (число полей, нечисловое значение, усечённый блок данных).
	ErrProtocol = errors.New("protocol error")

	// ErrValidation - аргумент вызывающего кода вне допустимой области.
	// Такие ошибки возникают до отправки любой команды.
	ErrValidation = errors.New("validation error")
)

var (
	// ErrChannelRange - номер канала вне [1, число каналов].
	ErrChannelRange error = &kindError{msg: "channel out of range", kind: ErrValidation}

	// ErrUnsupported - операция не объявлена в диалекте прибора.
	ErrUnsupported error = &kindError{msg: "operation not supported", kind: ErrValidation}

	// ErrNilSession - прибор создаётся без сеанса.
	ErrNilSession error = &kindError{msg: "session is nil", kind: ErrValidation}

	// ErrSessionClosed - сеанс закрыт или сломан предыдущим отказом транспорта.
	ErrSessionClosed error = &kindError{msg: "session closed", kind: ErrTransport}

	// ErrDesync - после таймаута или обрыва кадра поток ответов не удалось
	// выровнять: прибор не ответил на маркер *OPC?.
	ErrDesync error = &kindError{msg: "response stream out of sync", kind: ErrTimeout}

	// ErrPointCount - число декодированных точек не совпало с заявленным в преамбуле
	// или с запрошенным.
	ErrPointCount error = &kindError{msg: "waveform point count mismatch", kind: ErrProtocol}
)

// kindError - уточнение одной из базовых категорий.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

func protocolErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrProtocol, format, args...)
}

func validationErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
