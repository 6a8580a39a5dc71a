package bench

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// Блоки IEEE 488.2: "#<d><len><payload>" с d цифрами длины
// либо "#0<payload>" неопределённой длины до конца ответа.

// splitBlock отделяет заголовок блока и возвращает полезную нагрузку.
func splitBlock(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != '#' {
		return nil, protocolErrorf("block header missing in %q", head(data))
	}
	digits := int(data[1] - '0')
	if digits > 9 {
		return nil, protocolErrorf("invalid block length digit %q", data[1])
	}
	if digits == 0 {
		return bytes.TrimRight(data[2:], "\r\n"), nil
	}
	if len(data) < 2+digits {
		return nil, protocolErrorf("block header truncated: %q", head(data))
	}
	n, err := strconv.Atoi(string(data[2 : 2+digits]))
	if err != nil || n < 0 {
		return nil, protocolErrorf("invalid block length %q", data[2:2+digits])
	}
	payload := data[2+digits:]
	if len(payload) < n {
		return nil, protocolErrorf("block truncated: header declares %d bytes, got %d", n, len(payload))
	}
	return payload[:n], nil
}

// readResponse читает из потока ровно один ответ: строку до терминатора
// или, если ответ начинается с '#', блок целиком вместе с завершающим терминатором.
// Полезная нагрузка блока может содержать байты терминатора.
func readResponse(br *bufio.Reader, term byte) ([]byte, error) {
	first, err := br.Peek(1)
	if err != nil {
		return nil, err
	}
	if first[0] != '#' {
		line, err := br.ReadBytes(term)
		if err != nil {
			return nil, err
		}
		return bytes.TrimRight(line, "\r\n"), nil
	}

	hdr := make([]byte, 2)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, err
	}
	digits := int(hdr[1] - '0')
	if digits < 1 || digits > 9 {
		// неопределённая длина или мусор: дочитываем до терминатора,
		// разбор заголовка выполнит splitBlock
		rest, err := br.ReadBytes(term)
		if err != nil {
			return nil, err
		}
		return append(hdr, bytes.TrimRight(rest, "\r\n")...), nil
	}

	lenField := make([]byte, digits)
	if _, err := io.ReadFull(br, lenField); err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(string(lenField))
	if err != nil || n < 0 {
		return nil, protocolErrorf("invalid block length %q", lenField)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(br, payload); err != nil {
		return nil, err
	}
	// хвост до терминатора включительно, обычно это один '\n'
	tail, err := br.ReadBytes(term)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 2+digits+n+len(tail))
	out = append(out, hdr...)
	out = append(out, lenField...)
	out = append(out, payload...)
	return append(out, bytes.TrimRight(tail, "\r\n")...), nil
}

func head(b []byte) []byte {
	if len(b) > 16 {
		return b[:16]
	}
	return b
}
