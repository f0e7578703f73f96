package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger sends gorm's query log to zerolog. Statements are logged without
// bound values so hashes and card data never reach the log.
type gormLogger struct {
	log zerolog.Logger
}

func newGormLogger(log zerolog.Logger) gormLogger {
	return gormLogger{log: log.With().Str("component", "sqlstore").Logger()}
}

func (l gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.from(ctx).Info().Msgf(msg, data...)
}

func (l gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.from(ctx).Warn().Msgf(msg, data...)
}

func (l gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.from(ctx).Error().Msgf(msg, data...)
}

func (l gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	log := l.from(ctx)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case elapsed > slowQueryThreshold:
		sql, rows := fc()
		log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case log.Debug().Enabled():
		sql, rows := fc()
		log.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}

// ParamsFilter implements gorm.ParamsFilter; it drops bound values from logged SQL.
func (l gormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

// from prefers the request-scoped logger carried by ctx.
func (l gormLogger) from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if reqLog := zerolog.Ctx(ctx); reqLog.GetLevel() != zerolog.Disabled {
			child := reqLog.With().Str("component", "sqlstore").Logger()
			return &child
		}
	}
	return &l.log
}
