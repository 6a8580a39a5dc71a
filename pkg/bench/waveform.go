package bench

import (
	"encoding/binary"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/momentics/gobench/pkg/logger"
)

// Waveform - декодированная осциллограмма: Time и Value всегда одной длины.
// Requested - запрошенный максимум точек, 0 если не задавался.
type Waveform struct {
	Channel   int       `json:"channel"`
	Requested int       `json:"requested,omitempty"`
	Time      []float64 `json:"time"`
	Value     []float64 `json:"value"`
	Preamble  Preamble  `json:"-"`
}

// Len возвращает число отсчётов.
func (w *Waveform) Len() int { return len(w.Value) }

// Short сообщает, что прибор отдал меньше запрошенного числа точек.
func (w *Waveform) Short() bool { return w.Requested > 0 && w.Len() < w.Requested }

// WriteCSV пишет осциллограмму в CSV с заголовком "time,value".
func (w *Waveform) WriteCSV(out io.Writer) error {
	if len(w.Time) != len(w.Value) {
		return validationErrorf("waveform has %d time and %d value samples", len(w.Time), len(w.Value))
	}
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"time", "value"}); err != nil {
		return err
	}
	row := make([]string, 2)
	for i := range w.Value {
		row[0] = strconv.FormatFloat(w.Time[i], 'g', -1, 64)
		row[1] = strconv.FormatFloat(w.Value[i], 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToCSV - WriteCSV в строку.
func (w *Waveform) ToCSV() string {
	var sb strings.Builder
	if err := w.WriteCSV(&sb); err != nil {
		logger.GetLogger().Warn("csv write failed", "channel", w.Channel, "error", err)
	}
	return sb.String()
}

// DecodeWaveform превращает ответ на запрос данных в осциллограмму по преамбуле.
// Если число отсчётов не совпало с заявленным, возвращается и декодированная
// осциллограмма, и ошибка ErrPointCount.
func DecodeWaveform(spec *WaveformSpec, pre Preamble, raw string) (Waveform, error) {
	spec, err := spec.checked()
	if err != nil {
		return Waveform{}, err
	}
	payload := []byte(raw)
	if spec.Headers[pre.Format] == HeaderBlock {
		if payload, err = splitBlock(payload); err != nil {
			return Waveform{}, err
		}
	}

	var values []float64
	if pre.Format == FormatASCII {
		if values, err = parseASCIIValues(payload); err != nil {
			return Waveform{}, err
		}
		scaleValues(spec.ASCIIScale, pre, values)
	} else {
		if spec.Binary == nil {
			return Waveform{}, errors.Wrapf(ErrUnsupported, "binary waveform format %s", pre.Format)
		}
		if values, err = decodeBinary(spec.Binary, payload); err != nil {
			return Waveform{}, err
		}
		scaleValues(spec.Binary.Scale, pre, values)
	}

	wf := Waveform{
		Time:     timeAxis(spec.TimeAxis, pre, len(values)),
		Value:    values,
		Preamble: pre,
	}
	if len(values) != pre.Points {
		return wf, errors.Wrapf(ErrPointCount, "preamble declares %d points, decoded %d", pre.Points, len(values))
	}
	return wf, nil
}

func parseASCIIValues(payload []byte) ([]float64, error) {
	text := strings.TrimSpace(string(payload))
	if text == "" {
		return []float64{}, nil
	}
	parts := strings.Split(strings.TrimSuffix(text, ","), ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, protocolErrorf("sample %d: %q is not a number", i, p)
		}
		values[i] = v
	}
	return values, nil
}

func decodeBinary(layout *BinaryLayout, payload []byte) ([]float64, error) {
	if len(payload)%layout.Width != 0 {
		return nil, protocolErrorf("binary payload of %d bytes is not a multiple of sample width %d", len(payload), layout.Width)
	}
	var order binary.ByteOrder = binary.LittleEndian
	if layout.BigEndian {
		order = binary.BigEndian
	}
	values := make([]float64, len(payload)/layout.Width)
	for i := range values {
		switch layout.Width {
		case 1:
			b := payload[i]
			if layout.Signed {
				values[i] = float64(int8(b))
			} else {
				values[i] = float64(b)
			}
		case 2:
			u := order.Uint16(payload[2*i:])
			if layout.Signed {
				values[i] = float64(int16(u))
			} else {
				values[i] = float64(u)
			}
		}
	}
	return values, nil
}

func scaleValues(scale ValueScale, pre Preamble, values []float64) {
	switch scale {
	case ScaleLinear:
		for i, v := range values {
			values[i] = v*pre.YIncrement + pre.YOrigin
		}
	case ScaleReferenced:
		for i, v := range values {
			values[i] = (v-pre.YReference)*pre.YIncrement + pre.YOrigin
		}
	}
}

func timeAxis(axis TimeAxis, pre Preamble, n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		switch axis {
		case TimeOrigin:
			t[i] = pre.XOrigin + float64(i)*pre.XIncrement
		case TimeOriginReference:
			t[i] = pre.XOrigin + (float64(i)-pre.XReference)*pre.XIncrement
		default:
			t[i] = float64(i) * pre.XIncrement
		}
	}
	return t
}
