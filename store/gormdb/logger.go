package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	nt "extract/entity"
)

// gormLogger relays gorm's logging to a Logger, reporting failed statements and slow ones.
type gormLogger struct {
	lgr   nt.Logger
	level logger.LogLevel
	slow  time.Duration
}

func newGormLogger(lgr nt.Logger) *gormLogger {
	return &gormLogger{lgr: lgr, level: logger.Warn, slow: time.Second}
}

func (gl *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *gl
	clone.level = level
	return &clone
}

func (gl *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if gl.level >= logger.Info {
		gl.lgr.Info(ctx, fmt.Sprintf(msg, data...))
	}
}

func (gl *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if gl.level >= logger.Warn {
		gl.lgr.Info(ctx, fmt.Sprintf(msg, data...), "level", "warn")
	}
}

func (gl *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if gl.level >= logger.Error {
		gl.lgr.Error(ctx, "gorm error", errors.Errorf(msg, data...))
	}
}

func (gl *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {

	if gl.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && gl.level >= logger.Error:
		sql, _ := fc()
		gl.lgr.Error(ctx, "statement failed", err, "sql", sql, "elapsed", elapsed.String())
	case elapsed > gl.slow && gl.level >= logger.Warn:
		sql, rows := fc()
		gl.lgr.Info(ctx, "slow statement", "sql", sql, "rows", rows, "elapsed", elapsed.String())
	case gl.level >= logger.Info:
		sql, rows := fc()
		gl.lgr.Info(ctx, "statement", "sql", sql, "rows", rows, "elapsed", elapsed.String())
	}
}
