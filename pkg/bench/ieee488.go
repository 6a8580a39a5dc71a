package bench

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Биты регистра Standard Event Status (IEEE 488.2).
const (
	ESEOperationComplete uint8 = 1 << 0
	ESEQueryError        uint8 = 1 << 2
	ESEDeviceError       uint8 = 1 << 3
	ESEExecutionError    uint8 = 1 << 4
	ESECommandError      uint8 = 1 << 5
	ESEPowerOn           uint8 = 1 << 7

	// биты 1 и 6 зарезервированы и всегда равны нулю
	eseReserved uint8 = 1<<1 | 1<<6
	// бит 6 маски Service Request Enable игнорируется приборами (это RQS/MSS)
	sreReserved uint8 = 1 << 6
)

// Identity - разобранный ответ на *IDN?.
type Identity struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Serial       string `json:"serial"`
	Revision     string `json:"revision"`
}

// InstrumentError - запись из очереди ошибок прибора (SYSTem:ERRor?).
type InstrumentError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e InstrumentError) Error() string {
	return strconv.Itoa(e.Code) + ", " + e.Message
}

// ClearStatus очищает Status Byte и все регистры событий (*CLS).
func (s *Session) ClearStatus() error {
	return s.Write("*CLS")
}

// SetESE записывает маску Standard Event Enable. Зарезервированные биты 1 и 6 сбрасываются.
func (s *Session) SetESE(bits int) error {
	if bits < 0 || bits > 255 {
		return validationErrorf("ESE mask %d outside [0, 255]", bits)
	}
	mask := uint8(bits) &^ eseReserved
	return s.Do(func(x Exchange) error {
		if err := x.Write("*ESE " + strconv.Itoa(int(mask))); err != nil {
			return err
		}
		s.eseMask = mask
		return nil
	})
}

// GetESE читает маску Standard Event Enable (*ESE?).
func (s *Session) GetESE() (uint8, error) {
	var mask uint8
	err := s.Do(func(x Exchange) error {
		resp, err := x.Query("*ESE?")
		if err != nil {
			return err
		}
		v, err := parseRegister(resp, "*ESE?")
		if err != nil {
			return err
		}
		mask = v &^ eseReserved
		s.eseMask = mask
		return nil
	})
	return mask, err
}

// GetESR читает и тем самым очищает регистр Standard Event Status (*ESR?).
func (s *Session) GetESR() (uint8, error) {
	resp, err := s.Query("*ESR?")
	if err != nil {
		return 0, err
	}
	v, err := parseRegister(resp, "*ESR?")
	return v &^ eseReserved, err
}

// GetSTB читает Status Byte (*STB?).
func (s *Session) GetSTB() (uint8, error) {
	resp, err := s.Query("*STB?")
	if err != nil {
		return 0, err
	}
	return parseRegister(resp, "*STB?")
}

// SetSRE записывает маску Service Request Enable; бит 6 сбрасывается.
func (s *Session) SetSRE(bits int) error {
	if bits < 0 || bits > 255 {
		return validationErrorf("SRE mask %d outside [0, 255]", bits)
	}
	return s.Write("*SRE " + strconv.Itoa(int(uint8(bits)&^sreReserved)))
}

// GetSRE читает маску Service Request Enable (*SRE?).
func (s *Session) GetSRE() (uint8, error) {
	resp, err := s.Query("*SRE?")
	if err != nil {
		return 0, err
	}
	v, err := parseRegister(resp, "*SRE?")
	return v &^ sreReserved, err
}

// GetInfo разбирает ответ *IDN? ровно на четыре поля.
func (s *Session) GetInfo() (Identity, error) {
	resp, err := s.Query("*IDN?")
	if err != nil {
		return Identity{}, err
	}
	return ParseIdentity(resp)
}

// ParseIdentity разбирает строку идентификации "производитель,модель,серийный номер,версия".
func ParseIdentity(resp string) (Identity, error) {
	fields := strings.Split(strings.TrimSpace(resp), ",")
	if len(fields) != 4 {
		return Identity{}, protocolErrorf("*IDN? response %q has %d fields, want 4", resp, len(fields))
	}
	return Identity{
		Manufacturer: strings.TrimSpace(fields[0]),
		Model:        strings.TrimSpace(fields[1]),
		Serial:       strings.TrimSpace(fields[2]),
		Revision:     strings.TrimSpace(fields[3]),
	}, nil
}

// Reset возвращает прибор к заводским настройкам (*RST).
func (s *Session) Reset() error {
	return s.Write("*RST")
}

// SetOPC просит прибор выставить бит Operation Complete по завершении текущих операций (*OPC).
func (s *Session) SetOPC() error {
	return s.Write("*OPC")
}

// GetOPC ждёт завершения операций и возвращает бит Operation Complete (*OPC?).
func (s *Session) GetOPC() (bool, error) {
	resp, err := s.Query("*OPC?")
	if err != nil {
		return false, err
	}
	switch strings.TrimPrefix(strings.TrimSpace(resp), "+") {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, protocolErrorf("*OPC? response %q is not 0 or 1", resp)
	}
}

// NextError извлекает одну запись из очереди ошибок. Code == 0 означает пустую очередь.
func (s *Session) NextError() (InstrumentError, error) {
	resp, err := s.Query("SYSTem:ERRor?")
	if err != nil {
		return InstrumentError{}, err
	}
	return parseInstrumentError(resp)
}

// DrainErrors читает очередь ошибок до пустой записи, но не более limit записей.
func (s *Session) DrainErrors(limit int) ([]InstrumentError, error) {
	var out []InstrumentError
	for i := 0; i < limit; i++ {
		e, err := s.NextError()
		if err != nil {
			return out, err
		}
		if e.Code == 0 {
			return out, nil
		}
		out = append(out, e)
	}
	return out, nil
}

func parseInstrumentError(resp string) (InstrumentError, error) {
	code, msg, ok := strings.Cut(strings.TrimSpace(resp), ",")
	if !ok {
		return InstrumentError{}, protocolErrorf("SYSTem:ERRor? response %q has no message field", resp)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(code), "+"))
	if err != nil {
		return InstrumentError{}, protocolErrorf("SYSTem:ERRor? code %q is not an integer", code)
	}
	return InstrumentError{Code: n, Message: strings.Trim(strings.TrimSpace(msg), `"`)}, nil
}

func parseRegister(resp, cmd string) (uint8, error) {
	v, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(resp), "+"))
	if err != nil {
		return 0, errors.Wrapf(ErrProtocol, "%s response %q is not an integer", cmd, resp)
	}
	if v < 0 || v > 255 {
		return 0, protocolErrorf("%s response %d outside [0, 255]", cmd, v)
	}
	return uint8(v), nil
}
