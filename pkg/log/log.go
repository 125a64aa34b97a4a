package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

type ctxKey string

const RequestIDKey ctxKey = "request_id"

type Fields = logrus.Fields

// Options настройки логгера
type Options struct {
	Level string // уровень логирования, по умолчанию info
	File  string // путь к файлу логов, без него пишем только в stderr
}

// NewLogger создаёт общий логгер процесса. Повторные вызовы возвращают тот же экземпляр.
func NewLogger(opts Options) *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()

		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)

		logger.SetFormatter(&formatter.Formatter{
			NoColors:        false,
			TimestampFormat: "02 Jan 06 - 15:04:05",
			HideKeys:        false,
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, funcName)
			},
		})

		writers := []io.Writer{os.Stderr}
		if opts.File != "" && os.Getenv("APP_ENV") != "test" {
			writers = append(writers, &lumberjack.Logger{
				Filename:   opts.File,
				LocalTime:  true,
				Compress:   true,
				MaxSize:    100,
				MaxAge:     7,
				MaxBackups: 3,
			})
		}

		logger.SetOutput(io.MultiWriter(writers...))
		logger.SetReportCaller(true)
	})

	return logger
}

// L возвращает общий логгер, создавая его с настройками по умолчанию.
func L() *logrus.Logger {
	return NewLogger(Options{})
}

func Debug(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Debug(msg)
}

func Info(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Info(msg)
}

func Warn(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Warn(msg)
}

func Error(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Error(msg)
}

func Fatal(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Fatal(msg)
}

// ErrorWithTraceID пишет ошибку и возвращает trace id, который можно показать пользователю
func ErrorWithTraceID(fields Fields, msg string) string {
	fields = orEmpty(fields)

	var traceID string
	if reqID, ok := fields[string(RequestIDKey)].(string); ok && reqID != "" {
		traceID = reqID
	} else {
		id, err := uuid.NewRandom()
		if err != nil {
			traceID = "unknown"
		} else {
			traceID = id.String()
		}
	}

	fields["trace_id"] = traceID
	L().WithFields(fields).Error(msg)

	return traceID
}

// WithRequestID добавляет в запись request id из контекста
func WithRequestID(ctx context.Context) *logrus.Entry {
	requestID := "unknown"
	if ctx != nil {
		if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
			requestID = id
		}
	}

	return L().WithField(string(RequestIDKey), requestID)
}

// ContextWithRequestID кладёт request id в контекст
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func orEmpty(fields Fields) Fields {
	if fields == nil {
		return Fields{}
	}
	return fields
}
