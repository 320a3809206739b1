package write_graphite

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/specialistvlad/oconfig/internal/registry"
)

// Identifier names a metric the way the daemon does.
type Identifier struct {
	Host           string
	Plugin         string
	PluginInstance string
	Type           string
	TypeInstance   string
}

// Writer formats metrics for one graphite node.
type Writer struct {
	Address string
	Prefix  string
}

func (w *Writer) Capabilities() registry.Capabilities { return registry.CapWrite }

// Path builds the dotted metric path. valueName is appended only for
// multi-value types.
func (w *Writer) Path(id Identifier, valueName string) string {
	var sb strings.Builder
	if w.Prefix != "" {
		sb.WriteString(w.Prefix)
		sb.WriteByte('.')
	}
	sb.WriteString(graphitize(id.Host))
	sb.WriteByte('.')
	sb.WriteString(graphitize(id.Plugin))
	if id.PluginInstance != "" {
		sb.WriteByte('-')
		sb.WriteString(graphitize(id.PluginInstance))
	}
	sb.WriteByte('.')
	sb.WriteString(graphitize(id.Type))
	if id.TypeInstance != "" {
		sb.WriteByte('-')
		sb.WriteString(graphitize(id.TypeInstance))
	}
	if valueName != "" {
		sb.WriteByte('.')
		sb.WriteString(graphitize(valueName))
	}
	return sb.String()
}

// Line renders one plaintext protocol line, newline included.
func (w *Writer) Line(id Identifier, valueName string, value float64, at time.Time) string {
	return w.Path(id, valueName) + " " +
		strconv.FormatFloat(value, 'f', -1, 64) + " " +
		strconv.FormatInt(at.Unix(), 10) + "\n"
}

// graphitize replaces characters with special meaning in graphite paths.
func graphitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return '-'
		}
		return r
	}, s)
}
