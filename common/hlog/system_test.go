package hlog

import (
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

type byteSliceWriter struct {
	b []byte
}

func (w *byteSliceWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func initTestSysLogger() {
	sysLogger = &systemLogger{
		logger: &defaultLogger{std: log.New(nil, "", 0)},
		prefix: systemLogPrefix,
	}
}

func TestSystemLogger(t *testing.T) {
	initTestSysLogger()
	var w byteSliceWriter
	SetOutput(&w)

	sysLogger.Trace("tracing work")
	sysLogger.Info("starting work")
	sysLogger.Warn("work may fail")
	sysLogger.Error("work failed")

	assert.Equal(t, "[Trace] WINDOUT: tracing work\n"+
		"[Info] WINDOUT: starting work\n"+
		"[Warn] WINDOUT: work may fail\n"+
		"[Error] WINDOUT: work failed\n", string(w.b))
}

func TestSystemFormatLogger(t *testing.T) {
	initTestSysLogger()
	var w byteSliceWriter
	SetOutput(&w)

	sysLogger.Infof("starting %s", "work")
	sysLogger.Warnf("%s may fail", "work")

	assert.Equal(t, "[Info] WINDOUT: starting work\n"+
		"[Warn] WINDOUT: work may fail\n", string(w.b))
}
