package hlog

import (
	"context"
	"fmt"
	"io"
)

// Logger provides leveled logging.
type Logger interface {
	Trace(v ...any)
	Debug(v ...any)
	Info(v ...any)
	Notice(v ...any)
	Warn(v ...any)
	Error(v ...any)
	Fatal(v ...any)
}

// FormatLogger provides leveled, format-string logging.
type FormatLogger interface {
	Tracef(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Noticef(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	Fatalf(format string, v ...any)
}

// CtxLogger provides leveled, format-string logging that carries a context.
type CtxLogger interface {
	CtxTracef(ctx context.Context, format string, v ...any)
	CtxDebugf(ctx context.Context, format string, v ...any)
	CtxInfof(ctx context.Context, format string, v ...any)
	CtxNoticef(ctx context.Context, format string, v ...any)
	CtxWarnf(ctx context.Context, format string, v ...any)
	CtxErrorf(ctx context.Context, format string, v ...any)
	CtxFatalf(ctx context.Context, format string, v ...any)
}

// Control configures a logger's output and verbosity.
type Control interface {
	SetLevel(Level)
	SetOutput(io.Writer)
}

// FullLogger combines Logger, FormatLogger, CtxLogger and Control.
type FullLogger interface {
	Logger
	FormatLogger
	CtxLogger
	Control
}

// Level is the priority of a log message.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelNotice
	LevelWarn
	LevelError
	LevelFatal
)

var strLevels = []string{
	"[Trace] ",
	"[Debug] ",
	"[Info] ",
	"[Notice] ",
	"[Warn] ",
	"[Error] ",
	"[Fatal] ",
}

func (lv Level) String() string {
	if lv >= LevelTrace && lv <= LevelFatal {
		return strLevels[lv]
	}
	return fmt.Sprintf("[?%d] ", lv)
}
