package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), 100*time.Millisecond)
	ctx := context.Background()
	fc := func() (string, int64) { return "SELECT * FROM products", 1 }

	l.Trace(ctx, time.Now(), fc, nil)
	assert.Zero(t, logs.Len(), "fast successful queries are not logged at warn level")

	l.Trace(ctx, time.Now(), fc, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now(), fc, errors.New("connection reset"))
	assert.Equal(t, 1, logs.FilterMessage("query failed").Len())

	l.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	assert.Equal(t, 1, logs.FilterMessage("slow query").Len())

	l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), fc, nil)
	assert.Equal(t, 1, logs.FilterMessage("query").Len())

	l.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), fc, errors.New("ignored"))
	assert.Equal(t, 1, logs.FilterMessage("query failed").Len())
}
