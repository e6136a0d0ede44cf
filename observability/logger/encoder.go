package logger

import (
	"encoding/json"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// devEncoder prints a colored console line followed by the entry fields as indented JSON.
// Context fields are accumulated by the embedded JSON encoder.
type devEncoder struct {
	zapcore.Encoder
	console zapcore.Encoder
	pool    buffer.Pool
}

func newDevEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &devEncoder{
		Encoder: zapcore.NewJSONEncoder(cfg),
		console: zapcore.NewConsoleEncoder(cfg),
		pool:    buffer.NewPool(),
	}
}

func (e *devEncoder) Clone() zapcore.Encoder {
	return &devEncoder{
		Encoder: e.Encoder.Clone(),
		console: e.console,
		pool:    e.pool,
	}
}

func (e *devEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	lineBuf, err := e.console.EncodeEntry(entry, nil)
	if err != nil {
		return nil, err
	}
	line := colorizeLevel(strings.TrimRight(lineBuf.String(), "\n"), entry.Level)
	lineBuf.Free()

	fieldBuf, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer fieldBuf.Free()

	var fieldsMap map[string]any
	if err = json.Unmarshal(fieldBuf.Bytes(), &fieldsMap); err != nil {
		line += " " + strings.TrimRight(fieldBuf.String(), "\n")
	} else {
		for _, k := range []string{messageKey, levelKey, timeKey, nameKey} {
			delete(fieldsMap, k)
		}
		if len(fieldsMap) > 0 {
			pretty, marshalErr := json.MarshalIndent(fieldsMap, "", "  ")
			if marshalErr == nil {
				line += "\n" + string(pretty)
			}
		}
	}

	buf := e.pool.Get()
	buf.AppendString(line)
	buf.AppendString("\n")
	return buf, nil
}

func colorizeLevel(line string, level zapcore.Level) string {
	var c *color.Color
	switch level {
	case zapcore.DebugLevel:
		c = color.New(color.FgCyan)
	case zapcore.InfoLevel:
		c = color.New(color.FgGreen)
	case zapcore.WarnLevel:
		c = color.New(color.FgYellow)
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		c = color.New(color.FgRed, color.Bold)
	default:
		return line
	}

	lvl := level.CapitalString()
	if !strings.Contains(line, lvl) {
		return line
	}
	return strings.Replace(line, lvl, c.Sprint(lvl), 1)
}
