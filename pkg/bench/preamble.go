package bench

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Format - формат передачи отсчётов осциллограммы.
type Format int

const (
	FormatASCII Format = iota
	FormatByte
	FormatWord
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatByte:
		return "byte"
	case FormatWord:
		return "word"
	case FormatBinary:
		return "binary"
	}
	return "format(" + strconv.Itoa(int(f)) + ")"
}

// ParseFormat разбирает имя формата без учёта регистра.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii", "asc", "":
		return FormatASCII, nil
	case "byte":
		return FormatByte, nil
	case "word":
		return FormatWord, nil
	case "binary", "bin":
		return FormatBinary, nil
	}
	return 0, validationErrorf("unknown waveform format %q", s)
}

// PreambleField - роль поля преамбулы.
type PreambleField int

const (
	FieldFormat PreambleField = iota
	FieldType
	FieldPoints
	FieldCount
	FieldXIncrement
	FieldXOrigin
	FieldXReference
	FieldYIncrement
	FieldYOrigin
	FieldYReference
)

var fieldNames = [...]string{"format", "type", "points", "count", "xincrement", "xorigin", "xreference", "yincrement", "yorigin", "yreference"}

func (f PreambleField) String() string {
	if f >= 0 && int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "field(" + strconv.Itoa(int(f)) + ")"
}

// ParsePreambleField - обратное к String.
func ParsePreambleField(s string) (PreambleField, error) {
	for i, n := range fieldNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return PreambleField(i), nil
		}
	}
	return 0, errors.Errorf("unknown preamble field %q", s)
}

// HeaderRule - что предшествует отсчётам в ответе на запрос данных.
type HeaderRule int

const (
	HeaderNone  HeaderRule = iota
	HeaderBlock            // блок IEEE 488.2: #<d><len> или #0
)

// ValueScale - перевод сырых отсчётов в физические единицы.
type ValueScale int

const (
	ScalePhysical   ValueScale = iota // отсчёты уже в физических единицах
	ScaleLinear                       // raw*yinc + yorigin
	ScaleReferenced                   // (raw - yref)*yinc + yorigin
)

// TimeAxis - формула времени i-го отсчёта.
type TimeAxis int

const (
	TimeIncrement       TimeAxis = iota // i*dx
	TimeOrigin                          // x0 + i*dx
	TimeOriginReference                 // x0 + (i - xref)*dx
)

// BinaryLayout описывает двоичные отсчёты. Без неё двоичные форматы не поддерживаются.
type BinaryLayout struct {
	Width     int
	Signed    bool
	BigEndian bool
	Scale     ValueScale
}

// WaveformSpec - разметка преамбулы и правила декодирования одного диалекта.
type WaveformSpec struct {
	Delimiter   string
	MinFields   int
	Fields      map[PreambleField]int
	FormatCodes map[string]Format
	Headers     map[Format]HeaderRule
	ASCIIScale  ValueScale
	TimeAxis    TimeAxis
	Binary      *BinaryLayout
}

// normalized проверяет разметку и возвращает копию с нормализованными кодами форматов.
func (s WaveformSpec) normalized() (*WaveformSpec, error) {
	if s.Delimiter == "" {
		return nil, errors.New("waveform: empty preamble delimiter")
	}
	if len(s.FormatCodes) == 0 {
		return nil, errors.New("waveform: no format codes")
	}
	out := s
	out.Fields = make(map[PreambleField]int, len(s.Fields))
	for f, idx := range s.Fields {
		if idx < 0 {
			return nil, errors.Errorf("waveform: field %s has negative index", f)
		}
		if idx >= out.MinFields {
			out.MinFields = idx + 1
		}
		out.Fields[f] = idx
	}
	for _, f := range []PreambleField{FieldFormat, FieldPoints, FieldXIncrement} {
		if _, ok := out.Fields[f]; !ok {
			return nil, errors.Errorf("waveform: field %s is required", f)
		}
	}
	switch s.TimeAxis {
	case TimeOrigin:
		if err := out.require(FieldXOrigin); err != nil {
			return nil, err
		}
	case TimeOriginReference:
		if err := out.require(FieldXOrigin, FieldXReference); err != nil {
			return nil, err
		}
	}
	if err := out.requireScale(s.ASCIIScale); err != nil {
		return nil, err
	}
	if s.Binary != nil {
		if s.Binary.Width != 1 && s.Binary.Width != 2 {
			return nil, errors.Errorf("waveform: binary sample width %d", s.Binary.Width)
		}
		if err := out.requireScale(s.Binary.Scale); err != nil {
			return nil, err
		}
		b := *s.Binary
		out.Binary = &b
	}
	out.FormatCodes = make(map[string]Format, len(s.FormatCodes))
	for code, f := range s.FormatCodes {
		out.FormatCodes[normCode(code)] = f
	}
	out.Headers = make(map[Format]HeaderRule, len(s.Headers))
	for f, h := range s.Headers {
		out.Headers[f] = h
	}
	return &out, nil
}

// checked нормализует разметку, собранную вызывающим кодом вручную.
// Для встроенных диалектов это повторная, уже пройденная проверка.
func (s *WaveformSpec) checked() (*WaveformSpec, error) {
	if s == nil {
		return nil, errors.Wrap(ErrUnsupported, "waveform layout not declared")
	}
	n, err := s.normalized()
	if err != nil {
		return nil, errors.Wrap(ErrValidation, err.Error())
	}
	return n, nil
}

func (s *WaveformSpec) require(fields ...PreambleField) error {
	for _, f := range fields {
		if _, ok := s.Fields[f]; !ok {
			return errors.Errorf("waveform: field %s is required by the declared scaling", f)
		}
	}
	return nil
}

func (s *WaveformSpec) requireScale(v ValueScale) error {
	switch v {
	case ScaleLinear:
		return s.require(FieldYIncrement, FieldYOrigin)
	case ScaleReferenced:
		return s.require(FieldYIncrement, FieldYOrigin, FieldYReference)
	}
	return nil
}

func normCode(code string) string {
	c := strings.ToLower(strings.Trim(strings.TrimSpace(code), `"`))
	c = strings.TrimPrefix(c, "+")
	if f, err := strconv.ParseFloat(c, 64); err == nil && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return c
}

// Preamble - разобранные параметры передачи одной осциллограммы.
// Читается перед каждым сбором и не кэшируется.
type Preamble struct {
	Format     Format
	Type       int
	Points     int
	Count      int
	XIncrement float64
	XOrigin    float64
	XReference float64
	YIncrement float64
	YOrigin    float64
	YReference float64
	Fields     []string
}

// ParsePreamble разбирает ответ на запрос преамбулы по разметке диалекта.
func ParsePreamble(spec *WaveformSpec, text string) (Preamble, error) {
	spec, err := spec.checked()
	if err != nil {
		return Preamble{}, err
	}
	fields := strings.Split(strings.TrimSpace(text), spec.Delimiter)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < spec.MinFields {
		return Preamble{}, protocolErrorf("preamble has %d fields, want at least %d: %q", len(fields), spec.MinFields, head([]byte(text)))
	}

	pre := Preamble{Fields: fields}
	code := normCode(fields[spec.Fields[FieldFormat]])
	f, ok := spec.FormatCodes[code]
	if !ok {
		return Preamble{}, protocolErrorf("preamble: unknown format code %q", fields[spec.Fields[FieldFormat]])
	}
	pre.Format = f

	ints := []struct {
		field PreambleField
		dst   *int
	}{
		{FieldPoints, &pre.Points},
		{FieldType, &pre.Type},
		{FieldCount, &pre.Count},
	}
	for _, it := range ints {
		idx, ok := spec.Fields[it.field]
		if !ok {
			continue
		}
		v, err := parseFieldNumber(fields[idx])
		if err != nil || v != math.Trunc(v) || v < 0 {
			return Preamble{}, protocolErrorf("preamble: field %s: %q is not a count", it.field, fields[idx])
		}
		*it.dst = int(v)
	}

	floats := []struct {
		field PreambleField
		dst   *float64
	}{
		{FieldXIncrement, &pre.XIncrement},
		{FieldXOrigin, &pre.XOrigin},
		{FieldXReference, &pre.XReference},
		{FieldYIncrement, &pre.YIncrement},
		{FieldYOrigin, &pre.YOrigin},
		{FieldYReference, &pre.YReference},
	}
	for _, fl := range floats {
		idx, ok := spec.Fields[fl.field]
		if !ok {
			continue
		}
		v, err := parseFieldNumber(fields[idx])
		if err != nil {
			return Preamble{}, protocolErrorf("preamble: field %s: %q is not a number", fl.field, fields[idx])
		}
		*fl.dst = v
	}
	return pre, nil
}

func parseFieldNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Trim(s, `"`), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}
	return v, nil
}
