package streamtail

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"
)

// RecordHandler is called once per record, in shard order.
type RecordHandler = func(context.Context, types.Record) error

// RenderPayload returns data as text. Each maximal invalid UTF-8
// subsequence becomes one U+FFFD; valid bytes around it are kept.
func RenderPayload(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			size = invalidPrefix(data)
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(data[:size])
		}
		data = data[size:]
	}
	return b.String()
}

// invalidPrefix returns the length of the invalid subsequence at the start
// of data: a lead byte plus however many of its continuation bytes are
// well formed before the sequence breaks off. It is always at least 1.
func invalidPrefix(data []byte) int {
	var need int
	lo, hi := byte(0x80), byte(0xBF)
	switch b := data[0]; {
	case b >= 0xC2 && b <= 0xDF:
		need = 2
	case b == 0xE0:
		need, lo = 3, 0xA0
	case b == 0xED:
		need, hi = 3, 0x9F
	case b >= 0xE1 && b <= 0xEF:
		need = 3
	case b == 0xF0:
		need, lo = 4, 0x90
	case b == 0xF4:
		need, hi = 4, 0x8F
	case b >= 0xF1 && b <= 0xF3:
		need = 4
	default:
		return 1
	}
	n := 1
	for n < need && n < len(data) && data[n] >= lo && data[n] <= hi {
		n++
		lo, hi = 0x80, 0xBF
	}
	return n
}

// PrintRecords writes each payload to w, one line per record.
func PrintRecords(w io.Writer) RecordHandler {
	return func(ctx context.Context, record types.Record) error {
		LoggerFromContext(ctx).Debug("printing record", "sequence", aws.ToString(record.SequenceNumber), "bytes", len(record.Data))
		_, err := fmt.Fprintln(w, RenderPayload(record.Data))
		return err
	}
}
