package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// TextFormatter renders one line per entry. Correlation fields come first,
// the rest follow sorted by key.
type TextFormatter struct {
	TimestampFormat string
	ForceColors     bool
	DisableColors   bool
	AppName         string
}

func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = "2006-01-02 15:04:05"
	}

	colored := !f.DisableColors && f.ForceColors
	var levelColor, reset string
	if colored {
		reset = "\033[0m"
		switch entry.Level {
		case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
			levelColor = "\033[31m"
		case logrus.WarnLevel:
			levelColor = "\033[33m"
		case logrus.InfoLevel:
			levelColor = "\033[36m"
		default:
			levelColor = "\033[37m"
		}
	}

	fmt.Fprintf(b, "%s [%s%s%s] ",
		entry.Time.Format(timestampFormat),
		levelColor,
		strings.ToUpper(entry.Level.String()),
		reset,
	)

	if f.AppName != "" {
		fmt.Fprintf(b, "[%s] ", f.AppName)
	}

	if entry.HasCaller() {
		fmt.Fprintf(b, "[%s:%d] ", entry.Caller.File, entry.Caller.Line)
	}

	b.WriteString(entry.Message)

	writeFields(b, entry.Data)

	b.WriteByte('\n')

	return b.Bytes(), nil
}

var leadingFields = []string{FieldRequestID, FieldOwnerID, FieldRouteID}

func writeFields(b *bytes.Buffer, data logrus.Fields) {
	if len(data) == 0 {
		return
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		if !isLeading(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range leadingFields {
		if v, ok := data[k]; ok {
			writeField(b, k, v)
		}
	}
	for _, k := range keys {
		writeField(b, k, data[k])
	}
}

func isLeading(key string) bool {
	for _, k := range leadingFields {
		if k == key {
			return true
		}
	}
	return false
}

func writeField(b *bytes.Buffer, key string, value interface{}) {
	text := fmt.Sprint(value)
	if strings.ContainsAny(text, " \t\"=") {
		text = strconv.Quote(text)
	}
	fmt.Fprintf(b, " %s=%s", key, text)
}
