package logging

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/specpreview/tui/theme"
)

const componentKey = "component"

var levelLabels = map[logrus.Level]string{
	logrus.PanicLevel: "[PANIC]",
	logrus.FatalLevel: "[FATAL]",
	logrus.ErrorLevel: "[ERROR]",
	logrus.WarnLevel:  "[WARN]",
	logrus.InfoLevel:  "[INFO]",
	logrus.DebugLevel: "[DEBUG]",
	logrus.TraceLevel: "[TRACE]",
}

// TextFormatter writes one line per entry:
//
//	2006-01-02 15:04:05 [INFO] [component] [file:line func] message key=value ...
//
// Fields follow the message sorted by key. Values with spaces are quoted.
type TextFormatter struct {
	Config FormatConfig
}

// Format implements logrus.Formatter.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(levelLabels[entry.Level])

	if component, ok := entry.Data[componentKey]; ok && !f.Config.DisableComponent {
		fmt.Fprintf(b, " [%s]", theme.DefaultTheme.Accent.Render(fmt.Sprint(component)))
	}
	if entry.HasCaller() {
		fmt.Fprintf(b, " [%s:%d %s]", filepath.Base(entry.Caller.File), entry.Caller.Line,
			filepath.Base(entry.Caller.Function))
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	for _, key := range fieldKeys(entry.Data) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(fieldValue(entry.Data[key]))
	}
	b.WriteByte('\n')

	return b.Bytes(), nil
}

func fieldKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		if key != componentKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func fieldValue(v interface{}) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\n\"") {
		return strconv.Quote(s)
	}
	return s
}
