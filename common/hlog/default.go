package hlog

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
)

func Trace(v ...any) { logger.Trace(v...) }
func Debug(v ...any) { logger.Debug(v...) }
func Info(v ...any)  { logger.Info(v...) }
func Notice(v ...any) { logger.Notice(v...) }
func Warn(v ...any)  { logger.Warn(v...) }
func Error(v ...any) { logger.Error(v...) }
func Fatal(v ...any) { logger.Fatal(v...) }

func Tracef(format string, v ...any)  { logger.Tracef(format, v...) }
func Debugf(format string, v ...any)  { logger.Debugf(format, v...) }
func Infof(format string, v ...any)   { logger.Infof(format, v...) }
func Noticef(format string, v ...any) { logger.Noticef(format, v...) }
func Warnf(format string, v ...any)   { logger.Warnf(format, v...) }
func Errorf(format string, v ...any)  { logger.Errorf(format, v...) }
func Fatalf(format string, v ...any)  { logger.Fatalf(format, v...) }

func CtxTracef(ctx context.Context, format string, v ...any)  { logger.CtxTracef(ctx, format, v...) }
func CtxDebugf(ctx context.Context, format string, v ...any)  { logger.CtxDebugf(ctx, format, v...) }
func CtxInfof(ctx context.Context, format string, v ...any)   { logger.CtxInfof(ctx, format, v...) }
func CtxNoticef(ctx context.Context, format string, v ...any) { logger.CtxNoticef(ctx, format, v...) }
func CtxWarnf(ctx context.Context, format string, v ...any)   { logger.CtxWarnf(ctx, format, v...) }
func CtxErrorf(ctx context.Context, format string, v ...any)  { logger.CtxErrorf(ctx, format, v...) }
func CtxFatalf(ctx context.Context, format string, v ...any)  { logger.CtxFatalf(ctx, format, v...) }

type defaultLogger struct {
	std   *log.Logger
	level Level
	depth int
}

func (l *defaultLogger) SetOutput(w io.Writer) { l.std.SetOutput(w) }
func (l *defaultLogger) SetLevel(lv Level)     { l.level = lv }

func (l *defaultLogger) Trace(v ...any)  { l.logf(LevelTrace, nil, v...) }
func (l *defaultLogger) Debug(v ...any)  { l.logf(LevelDebug, nil, v...) }
func (l *defaultLogger) Info(v ...any)   { l.logf(LevelInfo, nil, v...) }
func (l *defaultLogger) Notice(v ...any) { l.logf(LevelNotice, nil, v...) }
func (l *defaultLogger) Warn(v ...any)   { l.logf(LevelWarn, nil, v...) }
func (l *defaultLogger) Error(v ...any)  { l.logf(LevelError, nil, v...) }
func (l *defaultLogger) Fatal(v ...any)  { l.logf(LevelFatal, nil, v...) }

func (l *defaultLogger) Tracef(format string, v ...any)  { l.logf(LevelTrace, &format, v...) }
func (l *defaultLogger) Debugf(format string, v ...any)  { l.logf(LevelDebug, &format, v...) }
func (l *defaultLogger) Infof(format string, v ...any)   { l.logf(LevelInfo, &format, v...) }
func (l *defaultLogger) Noticef(format string, v ...any) { l.logf(LevelNotice, &format, v...) }
func (l *defaultLogger) Warnf(format string, v ...any)   { l.logf(LevelWarn, &format, v...) }
func (l *defaultLogger) Errorf(format string, v ...any)  { l.logf(LevelError, &format, v...) }
func (l *defaultLogger) Fatalf(format string, v ...any)  { l.logf(LevelFatal, &format, v...) }

func (l *defaultLogger) CtxTracef(_ context.Context, format string, v ...any) {
	l.logf(LevelTrace, &format, v...)
}
func (l *defaultLogger) CtxDebugf(_ context.Context, format string, v ...any) {
	l.logf(LevelDebug, &format, v...)
}
func (l *defaultLogger) CtxInfof(_ context.Context, format string, v ...any) {
	l.logf(LevelInfo, &format, v...)
}
func (l *defaultLogger) CtxNoticef(_ context.Context, format string, v ...any) {
	l.logf(LevelNotice, &format, v...)
}
func (l *defaultLogger) CtxWarnf(_ context.Context, format string, v ...any) {
	l.logf(LevelWarn, &format, v...)
}
func (l *defaultLogger) CtxErrorf(_ context.Context, format string, v ...any) {
	l.logf(LevelError, &format, v...)
}
func (l *defaultLogger) CtxFatalf(_ context.Context, format string, v ...any) {
	l.logf(LevelFatal, &format, v...)
}

func (l *defaultLogger) logf(lv Level, format *string, v ...any) {
	if l.level > lv {
		return
	}
	msg := lv.String()
	if format != nil {
		msg += fmt.Sprintf(*format, v...)
	} else {
		msg += fmt.Sprint(v...)
	}
	_ = l.std.Output(l.depth, msg)
	if lv == LevelFatal {
		os.Exit(1)
	}
}
