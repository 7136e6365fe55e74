package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/workhub/paysnap/infra/opensearch"
)

// LogLevel represents the severity level of a log entry
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
	LevelFatal LogLevel = "fatal"
)

// SystemLog represents a structured system log entry
type SystemLog struct {
	Timestamp   time.Time      `json:"timestamp"`
	Level       LogLevel       `json:"level"`
	Message     string         `json:"message"`
	Provider    string         `json:"provider,omitempty"`
	OrderID     string         `json:"order_id,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	Error       string         `json:"error,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
	Environment string         `json:"environment"`
	Service     string         `json:"service"`
}

// LogContext holds contextual information for logging
type LogContext struct {
	Provider  string
	OrderID   string
	RequestID string
	Fields    map[string]any
}

// SystemLoggerConfig represents configuration for the system logger
type SystemLoggerConfig struct {
	EnableConsole    bool
	EnableOpenSearch bool
	MinLevel         LogLevel
	Service          string
	Environment      string
}

// SystemLogger handles structured logging to console and OpenSearch
type SystemLogger struct {
	events           *opensearch.Logger
	enableConsole    bool
	enableOpenSearch bool
	minLevel         LogLevel
	service          string
	environment      string
}

// NewSystemLogger creates a new system logger
func NewSystemLogger(events *opensearch.Logger, config SystemLoggerConfig) *SystemLogger {
	return &SystemLogger{
		events:           events,
		enableConsole:    config.EnableConsole,
		enableOpenSearch: config.EnableOpenSearch && events != nil,
		minLevel:         config.MinLevel,
		service:          config.Service,
		environment:      config.Environment,
	}
}

// Debug logs a debug message
func (sl *SystemLogger) Debug(message string, ctx ...LogContext) {
	sl.log(LevelDebug, message, ctx...)
}

// Info logs an info message
func (sl *SystemLogger) Info(message string, ctx ...LogContext) {
	sl.log(LevelInfo, message, ctx...)
}

// Warn logs a warning message
func (sl *SystemLogger) Warn(message string, ctx ...LogContext) {
	sl.log(LevelWarn, message, ctx...)
}

// Error logs an error message
func (sl *SystemLogger) Error(message string, err error, ctx ...LogContext) {
	logCtx := LogContext{}
	if len(ctx) > 0 {
		logCtx = ctx[0]
	}

	if logCtx.Fields == nil {
		logCtx.Fields = make(map[string]any)
	}
	if err != nil {
		logCtx.Fields["error"] = err.Error()
	}

	sl.log(LevelError, message, logCtx)
}

// Fatal logs a fatal message and exits
func (sl *SystemLogger) Fatal(message string, err error, ctx ...LogContext) {
	sl.Error(message, err, ctx...)
	os.Exit(1)
}

func (sl *SystemLogger) log(level LogLevel, message string, ctx ...LogContext) {
	if !sl.shouldLog(level) {
		return
	}

	entry := SystemLog{
		Timestamp:   time.Now().UTC(),
		Level:       level,
		Message:     message,
		Environment: sl.environment,
		Service:     sl.service,
	}

	if len(ctx) > 0 {
		logCtx := ctx[0]
		entry.Provider = logCtx.Provider
		entry.OrderID = logCtx.OrderID
		entry.RequestID = logCtx.RequestID
		entry.Fields = logCtx.Fields

		if logCtx.Fields != nil {
			if errMsg, ok := logCtx.Fields["error"].(string); ok {
				entry.Error = errMsg
			}
		}
	}

	if sl.enableConsole {
		sl.logToConsole(entry)
	}

	if sl.enableOpenSearch {
		go sl.logToOpenSearch(entry)
	}
}

func (sl *SystemLogger) shouldLog(level LogLevel) bool {
	levelOrder := map[LogLevel]int{
		LevelDebug: 0,
		LevelInfo:  1,
		LevelWarn:  2,
		LevelError: 3,
		LevelFatal: 4,
	}

	return levelOrder[level] >= levelOrder[sl.minLevel]
}

func (sl *SystemLogger) logToConsole(entry SystemLog) {
	var contextParts []string
	if entry.Provider != "" {
		contextParts = append(contextParts, fmt.Sprintf("provider=%s", entry.Provider))
	}
	if entry.OrderID != "" {
		contextParts = append(contextParts, fmt.Sprintf("order_id=%s", entry.OrderID))
	}
	if entry.RequestID != "" {
		contextParts = append(contextParts, fmt.Sprintf("req_id=%s", entry.RequestID))
	}
	if entry.Error != "" {
		contextParts = append(contextParts, fmt.Sprintf("error=%q", entry.Error))
	}

	context := ""
	if len(contextParts) > 0 {
		context = " [" + strings.Join(contextParts, " ") + "]"
	}

	log.Printf("%s %s%s", strings.ToUpper(string(entry.Level)), entry.Message, context)
}

func (sl *SystemLogger) logToOpenSearch(entry SystemLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sl.events.LogSystemEvent(ctx, entry); err != nil {
		log.Printf("WARN failed to ship log entry to opensearch: %v", err)
	}
}
