package logsvc

import (
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/user"
)

// form fields never forwarded to rollbar
var scrubbed = map[string]bool{"password": true, "passwordconfirm": true, "secret": true}

// RollbarLogger prints to a std logger and reports to rollbar when enabled.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetScrubFields(scrubRegexp())
	return &RollbarLogger{std: std}
}

// scrubRegexp also hides the scrubbed fields from request data rollbar collects itself.
func scrubRegexp() *regexp.Regexp {
	names := make([]string, 0, len(scrubbed))
	for name := range scrubbed {
		names = append(names, name)
	}
	sort.Strings(names)
	return regexp.MustCompile("(?i)^(" + strings.Join(names, "|") + ")$")
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// prepare turns args into rollbar item parts.
// Accepted args: error, map[string]interface{} (merged into the item's extras), user.User (the item's person).
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var (
		usr    *user.User
		extras map[string]interface{}
	)
	items := make([]interface{}, 0, len(args)+2)
	items = append(items, msg)

	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			if usr == nil { // first one wins
				u := a
				usr = &u
			}
		case map[string]interface{}:
			if extras == nil {
				extras = make(map[string]interface{}, len(a))
			}
			for k, v := range a {
				if scrubbed[strings.ToLower(k)] {
					v = "[scrubbed]"
				}
				extras[k] = v
			}
		default:
			items = append(items, arg)
		}
	}

	if usr != nil && usr.ID > 0 {
		rollbar.SetPerson(strconv.Itoa(usr.ID), usr.Name, usr.Email)
		if extras == nil {
			extras = make(map[string]interface{}, 1)
		}
		extras["role"] = string(usr.Role)
	} else {
		rollbar.ClearPerson()
	}
	if extras != nil {
		items = append(items, extras)
	}
	return items
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("%s: %s", level, msg)
	for _, arg := range args {
		if _, ok := arg.(user.User); ok {
			continue
		}
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print("DEBUG", msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print("INFO", msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print("WARN", msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print("ERROR", msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print("FATAL", msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
