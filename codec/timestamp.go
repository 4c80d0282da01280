package codec

import (
	"strconv"
	"time"

	"github.com/soialite/soialite/jsontext"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/wire"
)

// Timestamps outside this range (the range of valid ECMAScript dates) are
// clamped on encode and decode.
const maxUnixMillis = 8640000000000000

func clampUnixMillis(millis int64) int64 {
	if millis > maxUnixMillis {
		return maxUnixMillis
	}
	if millis < -maxUnixMillis {
		return -maxUnixMillis
	}
	return millis
}

// formatTimestamp renders a unix-millis value in UTC, with milliseconds
// shown only when nonzero.
func formatTimestamp(millis int64) string {
	t := time.UnixMilli(millis).UTC()
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05") + "+00:00"
	}
	return t.Format("2006-01-02T15:04:05.000") + "+00:00"
}

type timestampAdapter struct{}

func (timestampAdapter) Type() reflection.Type {
	return reflection.Primitive(reflection.PrimitiveTimestamp)
}

func coerceTimestamp(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case nil:
		return time.UnixMilli(0), true
	}
	return time.Time{}, false
}

func (timestampAdapter) AppendBinary(sink *wire.ByteSink, v interface{}) error {
	t, ok := coerceTimestamp(v)
	if !ok {
		return typeMismatch(reflection.Primitive(reflection.PrimitiveTimestamp), v)
	}
	wire.AppendTimestampMillis(sink, clampUnixMillis(t.UnixMilli()))
	return nil
}

func (timestampAdapter) ParseBinary(src *wire.ByteSource, _ *Config) interface{} {
	return time.UnixMilli(clampUnixMillis(wire.ReadInt64(src))).UTC()
}

func (timestampAdapter) AppendDense(dst []byte, v interface{}) ([]byte, error) {
	t, ok := coerceTimestamp(v)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveTimestamp), v)
	}
	return strconv.AppendInt(dst, clampUnixMillis(t.UnixMilli()), 10), nil
}

func (timestampAdapter) AppendReadable(dst []byte, nl *jsontext.NewLine, v interface{}) ([]byte, error) {
	t, ok := coerceTimestamp(v)
	if !ok {
		return dst, typeMismatch(reflection.Primitive(reflection.PrimitiveTimestamp), v)
	}
	millis := clampUnixMillis(t.UnixMilli())
	dst = append(dst, '{')
	dst = append(dst, nl.Indent()...)
	dst = append(dst, `"unix_millis": `...)
	dst = strconv.AppendInt(dst, millis, 10)
	dst = append(dst, ',')
	dst = append(dst, nl.Current()...)
	dst = append(dst, `"formatted": `...)
	dst = jsontext.AppendQuoted(dst, formatTimestamp(millis))
	dst = append(dst, nl.Dedent()...)
	return append(dst, '}'), nil
}

// ParseJSON accepts both the dense form (a bare unix-millis number) and the
// readable object form. The "formatted" entry is informational only and is
// ignored on decode.
func (timestampAdapter) ParseJSON(tok *jsontext.Tokenizer, _ *Config) interface{} {
	if tok.Token == jsontext.TokenLeftCurly {
		hasUnixMillis := false
		var millis int64
		reader := jsontext.NewObjectReader(tok)
		for reader.Next() {
			if reader.Name() == "unix_millis" {
				hasUnixMillis = true
				millis = parseJSONInt64(tok)
			} else {
				jsontext.SkipValue(tok)
			}
		}
		if !hasUnixMillis {
			tok.Fail("object missing entry with name 'unix_millis'")
		}
		return time.UnixMilli(clampUnixMillis(millis)).UTC()
	}
	return time.UnixMilli(clampUnixMillis(parseJSONInt64(tok))).UTC()
}

func (timestampAdapter) AppendDebug(dst []byte, _ *jsontext.NewLine, v interface{}) []byte {
	t, ok := coerceTimestamp(v)
	if !ok {
		return append(dst, '?')
	}
	millis := t.UnixMilli()
	dst = append(dst, "timestamp("...)
	dst = strconv.AppendInt(dst, millis, 10)
	dst = append(dst, " /* "...)
	dst = append(dst, formatTimestamp(millis)...)
	return append(dst, " */)"...)
}

func (timestampAdapter) IsDefault(v interface{}) bool {
	t, ok := coerceTimestamp(v)
	return ok && t.UnixMilli() == 0
}

func (timestampAdapter) Default() interface{} { return time.UnixMilli(0).UTC() }
