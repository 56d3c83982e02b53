package log

import "go.uber.org/zap/zapcore"

// FilterFieldsCore wraps core so fields whose key is in keys never reach it,
// whether they are attached with With or passed to a single entry.
func FilterFieldsCore(core zapcore.Core, keys ...string) zapcore.Core {
	drop := make(fieldSet, len(keys))
	for _, key := range keys {
		if key != "" {
			drop[key] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return core
	}
	return &dropFieldsCore{Core: core, drop: drop}
}

type fieldSet map[string]struct{}

func (s fieldSet) filter(fields []zapcore.Field) []zapcore.Field {
	kept := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		if _, ok := s[field.Key]; !ok {
			kept = append(kept, field)
		}
	}
	return kept
}

type dropFieldsCore struct {
	zapcore.Core
	drop fieldSet
}

func (c *dropFieldsCore) With(fields []zapcore.Field) zapcore.Core {
	return &dropFieldsCore{Core: c.Core.With(c.drop.filter(fields)), drop: c.drop}
}

func (c *dropFieldsCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *dropFieldsCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(ent, c.drop.filter(fields))
}
