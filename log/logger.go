// Package log provides structured, logfmt-based logging keyed by pipeline
// or task identifier. Per-id loggers are themselves held in a short-lived
// cache so a long-running orchestrator doesn't accumulate logger instances
// for pipelines that finished hours ago.
package log

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	kitlog "github.com/go-kit/log"
	"github.com/patrickmn/go-cache"
)

var loggerCache *cache.Cache
var default_logger_cache_expiry = 6 * time.Hour

func init() {
	loggerCache = cache.New(default_logger_cache_expiry, 10*time.Minute)
}

// AddContext permanently attaches keyvals to the logger for id. Any future
// logging for this pipeline/task id will include this context.
func AddContext(id string, keyvals ...interface{}) {
	logger := kitlog.With(getLogger(id), redactKeyvals(keyvals...)...)

	err := loggerCache.Replace(id, logger, default_logger_cache_expiry)
	if err != nil {
		_ = logger.Log("msg", "error replacing logger in cache: "+err.Error())
	}
}

// Log writes a log line for the pipeline or task identified by id.
func Log(id string, message string, keyvals ...interface{}) {
	_ = kitlog.With(getLogger(id), "msg", message).Log(redactKeyvals(keyvals...)...)
}

// LogNoID logs in situations where there's no pipeline/task id in scope
// yet. Use sparingly and put as much context as possible in message.
func LogNoID(message string, keyvals ...interface{}) {
	_ = kitlog.With(newLogger(), "msg", message).Log(redactKeyvals(keyvals...)...)
}

// LogError writes an error log line for the pipeline or task identified by id.
func LogError(id string, message string, err error, keyvals ...interface{}) {
	msgLogger := kitlog.With(getLogger(id), "msg", message)
	errLogger := kitlog.With(msgLogger, "err", err.Error())
	_ = errLogger.Log(redactKeyvals(keyvals...)...)
}

func getLogger(id string) kitlog.Logger {
	logger, found := loggerCache.Get(id)
	if found {
		return logger.(kitlog.Logger)
	}

	newLogger := kitlog.With(newLogger(), "id", id)
	err := loggerCache.Add(id, newLogger, default_logger_cache_expiry)
	if err != nil {
		_ = newLogger.Log("msg", "error adding logger to cache", "id", id, "err", err.Error())
	}
	return newLogger
}

func newLogger() kitlog.Logger {
	newLogger := kitlog.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	return kitlog.With(newLogger, "ts", kitlog.DefaultTimestampUTC)
}

func redactKeyvals(keyvals ...interface{}) []interface{} {
	var res []interface{}
	for i := range keyvals {
		if i%2 == 1 {
			k, v := keyvals[i-1], keyvals[i]
			res = append(res, k)
			switch s := v.(type) {
			case string:
				res = append(res, RedactURL(s))
			case url.URL:
				res = append(res, s.Redacted())
			case *url.URL:
				if s != nil {
					res = append(res, s.Redacted())
				}
			default:
				res = append(res, v)
			}
		}
	}
	return res
}

func RedactLogs(str, delim string) string {
	if delim == "" {
		return str
	}

	splitstr := strings.Split(str, delim)
	if len(splitstr) == 1 {
		return str
	}

	redactedstr := []string{}
	for _, v := range splitstr {
		r := RedactURL(v)
		redactedstr = append(redactedstr, r)
	}
	return strings.Join(redactedstr[:], delim)
}

func RedactURL(str string) string {
	strLower := strings.ToLower(str)
	if !strings.HasPrefix(strLower, "http") && !strings.HasPrefix(strLower, "s3") {
		return str
	}

	u, err := url.Parse(str)
	if err != nil {
		return "REDACTED"
	}
	return u.Redacted()
}
