package bench

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/momentics/gobench/pkg/logger"
)

func block(payload string) string {
	return fmt.Sprintf("#8%08d%s", len(payload), payload)
}

const keysightASCIIPreamble = "+4,+0,+5,+1,+1.00000000E-06,-2.50000000E-06,+0,+1.0E+00,+0.0E+00,+0"

func TestParsePreamble_Keysight(t *testing.T) {
	pre, err := ParsePreamble(KeysightInfiniiVision.Waveform(), keysightASCIIPreamble)
	require.NoError(t, err)
	assert.Equal(t, FormatASCII, pre.Format)
	assert.Equal(t, 5, pre.Points)
	assert.Equal(t, 1, pre.Count)
	assert.InDelta(t, 1e-6, pre.XIncrement, 1e-18)
	assert.InDelta(t, -2.5e-6, pre.XOrigin, 1e-18)
	assert.Len(t, pre.Fields, 10)

	pre, err = ParsePreamble(KeysightInfiniiVision.Waveform(), "+0,+0,+1000,+1,+2.0E-09,+0,+0,+3.0E-03,+0,+128")
	require.NoError(t, err)
	assert.Equal(t, FormatByte, pre.Format)
	assert.InDelta(t, 128, pre.YReference, 0)
}

func TestParsePreamble_Errors(t *testing.T) {
	spec := KeysightInfiniiVision.Waveform()
	tests := map[string]string{
		"too few fields":   "+4,+0,+5",
		"unknown format":   "+7,+0,+5,+1,+1E-6,+0,+0,+1,+0,+0",
		"fractional count": "+4,+0,+5.5,+1,+1E-6,+0,+0,+1,+0,+0",
		"negative count":   "+4,+0,-5,+1,+1E-6,+0,+0,+1,+0,+0",
		"bad increment":    "+4,+0,+5,+1,abc,+0,+0,+1,+0,+0",
		"infinite origin":  "+4,+0,+5,+1,+1E-6,+Inf,+0,+1,+0,+0",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePreamble(spec, text)
			assert.ErrorIs(t, err, ErrProtocol)
		})
	}

	_, err := ParsePreamble(nil, keysightASCIIPreamble)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParsePreamble_HandBuiltSpec(t *testing.T) {
	spec := &WaveformSpec{
		Delimiter:   ",",
		Fields:      map[PreambleField]int{FieldFormat: 0, FieldPoints: 2, FieldXIncrement: 4},
		FormatCodes: map[string]Format{"4": FormatASCII},
	}

	_, err := ParsePreamble(spec, "+4,+0")
	assert.ErrorIs(t, err, ErrProtocol)

	pre, err := ParsePreamble(spec, "+4,+0,+3,+1,+1E-3")
	require.NoError(t, err)
	assert.Equal(t, 3, pre.Points)
	assert.Equal(t, 0, spec.MinFields, "caller's spec is left as is")

	_, err = ParsePreamble(&WaveformSpec{Delimiter: ","}, "+4,+0")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecodeWaveform_HandBuiltBinaryLayout(t *testing.T) {
	spec := &WaveformSpec{
		Delimiter:   ",",
		Fields:      map[PreambleField]int{FieldFormat: 0, FieldPoints: 1, FieldXIncrement: 2},
		FormatCodes: map[string]Format{"1": FormatByte},
		Binary:      &BinaryLayout{},
	}
	_, err := DecodeWaveform(spec, Preamble{Format: FormatByte, Points: 2}, "\x01\x02")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecodeWaveform_KeysightASCII(t *testing.T) {
	spec := KeysightInfiniiVision.Waveform()
	pre, err := ParsePreamble(spec, keysightASCIIPreamble)
	require.NoError(t, err)

	wf, err := DecodeWaveform(spec, pre, block("1.0e-01,2.0e-01,-3.0e-01,4.0e-01,5.0e-01,"))
	require.NoError(t, err)
	require.Equal(t, 5, wf.Len())
	assert.InDeltaSlice(t, []float64{0.1, 0.2, -0.3, 0.4, 0.5}, wf.Value, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 1e-6, 2e-6, 3e-6, 4e-6}, wf.Time, 1e-15)
}

func TestDecodeWaveform_PointCountMismatch(t *testing.T) {
	spec := KeysightInfiniiVision.Waveform()
	pre, err := ParsePreamble(spec, keysightASCIIPreamble)
	require.NoError(t, err)

	wf, err := DecodeWaveform(spec, pre, block("1,2,3"))
	assert.ErrorIs(t, err, ErrPointCount)
	assert.ErrorIs(t, err, ErrProtocol)
	assert.Equal(t, 3, wf.Len())
	assert.Len(t, wf.Time, 3)
}

func TestDecodeWaveform_BadSample(t *testing.T) {
	spec := KeysightInfiniiVision.Waveform()
	pre, err := ParsePreamble(spec, keysightASCIIPreamble)
	require.NoError(t, err)

	_, err = DecodeWaveform(spec, pre, block("1,2,x,4,5"))
	assert.ErrorIs(t, err, ErrProtocol)

	_, err = DecodeWaveform(spec, pre, "1,2,3,4,5")
	assert.ErrorIs(t, err, ErrProtocol, "block header is required")
}

func TestDecodeWaveform_BinaryWithoutLayout(t *testing.T) {
	spec := KeysightInfiniiVision.Waveform()
	pre, err := ParsePreamble(spec, "+0,+0,+4,+1,+1E-6,+0,+0,+1,+0,+0")
	require.NoError(t, err)

	_, err = DecodeWaveform(spec, pre, block("\x01\x02\x03\x04"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

const tekASCIIPreamble = `1;8;ASC;RP;MSB;"Ch1, DC coupling, 100.0mV/div, 4.000us/div, 4 points, Sample mode";4;Y;"s";2.0000E-6;-4.0000E-6;1;"V";4.0000E-3;10.0000;0.5000`

func TestDecodeWaveform_TektronixReferenced(t *testing.T) {
	spec := TektronixMSO2000.Waveform()
	pre, err := ParsePreamble(spec, tekASCIIPreamble)
	require.NoError(t, err)
	assert.Equal(t, FormatASCII, pre.Format)
	assert.Equal(t, 4, pre.Points)

	wf, err := DecodeWaveform(spec, pre, "10,35,-15,60")
	require.NoError(t, err)
	// (raw - YOFF)*YMULT + YZERO
	assert.InDeltaSlice(t, []float64{0.5, 0.6, 0.4, 0.7}, wf.Value, 1e-12)
	// XZERO + (i - PT_OFF)*XINCR
	assert.InDeltaSlice(t, []float64{-6e-6, -4e-6, -2e-6, 0}, wf.Time, 1e-15)
}

func TestDecodeWaveform_BinaryLayout(t *testing.T) {
	spec, err := WaveformSpec{
		Delimiter: ",",
		Fields: map[PreambleField]int{
			FieldFormat:     0,
			FieldPoints:     1,
			FieldXIncrement: 2,
			FieldYIncrement: 3,
			FieldYOrigin:    4,
			FieldYReference: 5,
		},
		FormatCodes: map[string]Format{"WORD": FormatWord, "BYTE": FormatByte},
		Headers:     map[Format]HeaderRule{FormatWord: HeaderBlock, FormatByte: HeaderBlock},
		Binary:      &BinaryLayout{Width: 2, Signed: true, BigEndian: true, Scale: ScaleReferenced},
	}.normalized()
	require.NoError(t, err)

	pre, err := ParsePreamble(spec, "word,3,0.5,0.01,1,0")
	require.NoError(t, err)
	assert.Equal(t, FormatWord, pre.Format)

	wf, err := DecodeWaveform(spec, pre, block("\x00\x64\xff\x9c\x00\x00"))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 0, 1}, wf.Value, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, wf.Time, 1e-12)

	_, err = DecodeWaveform(spec, pre, block("\x00\x64\xff"))
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestWaveformSpec_Normalized(t *testing.T) {
	base := func() WaveformSpec {
		return WaveformSpec{
			Delimiter:   ",",
			Fields:      map[PreambleField]int{FieldFormat: 0, FieldPoints: 1, FieldXIncrement: 2},
			FormatCodes: map[string]Format{"+4": FormatASCII},
		}
	}

	s, err := base().normalized()
	require.NoError(t, err)
	assert.Equal(t, 3, s.MinFields)
	assert.Contains(t, s.FormatCodes, "4")

	tests := map[string]func(*WaveformSpec){
		"no delimiter":          func(s *WaveformSpec) { s.Delimiter = "" },
		"no format codes":       func(s *WaveformSpec) { s.FormatCodes = nil },
		"no points":             func(s *WaveformSpec) { delete(s.Fields, FieldPoints) },
		"negative index":        func(s *WaveformSpec) { s.Fields[FieldCount] = -1 },
		"origin axis":           func(s *WaveformSpec) { s.TimeAxis = TimeOrigin },
		"referenced scale":      func(s *WaveformSpec) { s.ASCIIScale = ScaleReferenced },
		"binary width":          func(s *WaveformSpec) { s.Binary = &BinaryLayout{Width: 4} },
		"binary linear no yinc": func(s *WaveformSpec) { s.Binary = &BinaryLayout{Width: 1, Scale: ScaleLinear} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			s := base()
			mutate(&s)
			_, err := s.normalized()
			assert.Error(t, err)
		})
	}
}

func TestWaveform_ToCSV(t *testing.T) {
	wf := Waveform{Time: []float64{0, 1e-6}, Value: []float64{0.5, -0.25}}
	got := wf.ToCSV()
	assert.Equal(t, "time,value\n0,0.5\n1e-06,-0.25\n", got)
	assert.Equal(t, 3, strings.Count(got, "\n"))
}

func TestWaveform_ToCSVUnevenLogsFailure(t *testing.T) {
	mockLog := logger.NewMockLogger()
	mockLog.On("Warn", "csv write failed", mock.Anything).Return()
	prev := logger.GetLogger()
	logger.SetLogger(mockLog)
	t.Cleanup(func() { logger.SetLogger(prev) })

	wf := Waveform{Time: []float64{0}, Value: []float64{0.5, -0.25}}
	assert.ErrorIs(t, wf.WriteCSV(io.Discard), ErrValidation)
	assert.Empty(t, wf.ToCSV())
	mockLog.AssertCalled(t, "Warn", "csv write failed", mock.Anything)
}
