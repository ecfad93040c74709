package format

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// WriteEDN writes an EDN rendering of v. Values go through encoding/json first
// so json tags and custom marshalers apply, then the document is walked in
// order: object keys come out in the order the marshaler wrote them, which
// keeps law options in document order. Keys become keywords.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := ednEncoder{pretty: pretty, indent: 2}
	enc.write(&buf, gjson.ParseBytes(b), 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednEncoder struct {
	pretty bool
	indent int
}

func (e ednEncoder) write(buf *bytes.Buffer, r gjson.Result, level int) {
	switch {
	case r.IsObject():
		e.writeColl(buf, '{', '}', r, level, true)
	case r.IsArray():
		e.writeColl(buf, '[', ']', r, level, false)
	default:
		switch r.Type {
		case gjson.Null:
			buf.WriteString("nil")
		case gjson.True:
			buf.WriteString("true")
		case gjson.False:
			buf.WriteString("false")
		case gjson.Number:
			// Raw keeps integers exact.
			buf.WriteString(r.Raw)
		default:
			buf.WriteString(strconv.Quote(r.Str))
		}
	}
}

func (e ednEncoder) writeColl(buf *bytes.Buffer, open, close byte, r gjson.Result, level int, keyed bool) {
	buf.WriteByte(open)
	first := true
	r.ForEach(func(k, v gjson.Result) bool {
		if first {
			if e.pretty {
				buf.WriteByte('\n')
			}
			first = false
		} else if e.pretty {
			buf.WriteByte('\n')
		} else {
			buf.WriteByte(' ')
		}
		if e.pretty {
			buf.WriteString(strings.Repeat(" ", (level+1)*e.indent))
		}
		if keyed {
			buf.WriteByte(':')
			buf.WriteString(ednKeyword(k.String()))
			buf.WriteByte(' ')
		}
		e.write(buf, v, level+1)
		return true
	})
	if !first && e.pretty {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(" ", level*e.indent))
	}
	buf.WriteByte(close)
}

// ednKeyword turns a JSON key into something a reader accepts after ':'.
func ednKeyword(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', ',', '(', ')', '[', ']', '{', '}', '"', ';', '\'', '\\', '@', '~', '^', '`':
			return '-'
		}
		return r
	}, s)
}
