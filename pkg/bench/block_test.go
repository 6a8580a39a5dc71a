package bench

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"definite", "#15hello", "hello"},
		{"definite with tail", "#15hello\n", "hello"},
		{"two digit length", "#210abcdefghij", "abcdefghij"},
		{"empty payload", "#10", ""},
		{"indefinite", "#0abc\r\n", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitBlock([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestSplitBlock_Malformed(t *testing.T) {
	for _, in := range []string{"", "#", "1,2,3", "#a123", "#5123", "#3abcxyz", "#15abc"} {
		_, err := splitBlock([]byte(in))
		assert.ErrorIs(t, err, ErrProtocol, "input %q", in)
	}
}

func TestReadResponse_Line(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("+1.5\r\nnext\n"))
	got, err := readResponse(br, '\n')
	require.NoError(t, err)
	assert.Equal(t, "+1.5", string(got))

	got, err = readResponse(br, '\n')
	require.NoError(t, err)
	assert.Equal(t, "next", string(got))
}

func TestReadResponse_BlockWithTerminatorInPayload(t *testing.T) {
	// двоичные отсчёты содержат байт '\n', ответ не должен обрываться на нём
	br := bufio.NewReader(strings.NewReader("#16a\nb\nc\n1\n"))
	got, err := readResponse(br, '\n')
	require.NoError(t, err)
	assert.Equal(t, "#16a\nb\nc", string(got))

	payload, err := splitBlock(got)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", string(payload))

	got, err = readResponse(br, '\n')
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}

func TestReadResponse_IndefiniteBlock(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("#0abc\n"))
	got, err := readResponse(br, '\n')
	require.NoError(t, err)
	assert.Equal(t, "#0abc", string(got))
}

func TestReadResponse_TruncatedBlock(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("#210abc"))
	_, err := readResponse(br, '\n')
	assert.Error(t, err)
}
