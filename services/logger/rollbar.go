package logsvc

import (
	"log"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/user"
)

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
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// prepare turns args (error, map[string]interface{} extras, acting user.User) into Rollbar arguments.
// The first authenticated user becomes the Rollbar person; users are not sent as extras.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	rbArgs := []interface{}{msg}
	var person *user.User
	for _, arg := range args {
		usr, isUser := arg.(user.User)
		switch {
		case !isUser:
			rbArgs = append(rbArgs, arg)
		case person == nil && usr.UID != "":
			person = &usr
		}
	}

	if person == nil {
		rollbar.ClearPerson()
	} else {
		rollbar.SetPerson(person.UID, strings.TrimSpace(person.FirstName+" "+person.LastName), "")
	}
	return rbArgs
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		switch v := arg.(type) {
		case user.User:
			l.std.Printf("user: %s (%s)\n", v.UID, v.Role)
		case map[string]interface{}:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				l.std.Printf("%s: %v\n", k, v[k])
			}
		default:
			l.std.Printf("%+v\n", arg)
		}
	}
}

// Flush waits for the pending reports to be sent.
func (l RollbarLogger) Flush() {
	rollbar.Wait()
}

// report sends msg and args to Rollbar at level, then prints them.
func (l RollbarLogger) report(level, msg string, args []interface{}) {
	rollbar.Log(level, l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.report(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.report(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.report(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.report(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
