package xlog

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	_ xLogCore     = (xLogTeeCore)(nil)
	_ zapcore.Core = (multiCore)(nil)
)

// xLogTeeCore fans one entry out to every wrapped core.
type xLogTeeCore []xLogCore

func (tc xLogTeeCore) build(
	lvlEnabler zapcore.LevelEnabler,
	encoder LogEncoderType,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) (zapcore.Core, error) {
	cores := make(multiCore, 0, len(tc))
	for i := range tc {
		core, err := tc[i].build(lvlEnabler, encoder, lvlEnc, tsEnc)
		if err != nil {
			return nil, err
		}
		cores = append(cores, core)
	}
	return cores, nil
}

// multiCore differs from zapcore.NewTee by reporting every
// failed writer instead of stopping at the first one.
type multiCore []zapcore.Core

func (mc multiCore) With(fields []zap.Field) zapcore.Core {
	clone := make(multiCore, len(mc))
	for i := range mc {
		clone[i] = mc[i].With(fields)
	}
	return clone
}

func (mc multiCore) Enabled(lvl zapcore.Level) bool {
	for i := range mc {
		if mc[i].Enabled(lvl) {
			return true
		}
	}
	return false
}

func (mc multiCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	for i := range mc {
		ce = mc[i].Check(ent, ce)
	}
	return ce
}

func (mc multiCore) Write(ent zapcore.Entry, fields []zap.Field) error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Write(ent, fields))
	}
	return err
}

func (mc multiCore) Sync() error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Sync())
	}
	return err
}
