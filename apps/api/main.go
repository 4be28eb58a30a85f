package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	echoapi "github.com/trezcool/lms/apps/api/echo"
	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/lms"
	"github.com/trezcool/lms/core/user"
	logsvc "github.com/trezcool/lms/services/logger"
	"github.com/trezcool/lms/storage/database"
	sqlxrepos "github.com/trezcool/lms/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := newLogger("API : ", conf)

	if err := run(conf, logger); err != nil {
		logger.Fatal(err.Error(), err)
	}
	logger.Flush()
}

func run(conf *core.Config, logger *logsvc.RollbarLogger) error {
	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	dbLogger := newLogger("DB : ", conf)
	db, err := setUpDB(conf)
	if err != nil {
		return errors.Wrap(err, "setting up database")
	}
	defer func() {
		if cErr := db.Close(); cErr != nil {
			dbLogger.Error("closing database", cErr)
		}
	}()

	startDebugServer(conf, logger)

	server := echoapi.NewServer(newServerDeps(conf, logger, db))
	go server.Start()

	select {
	case err = <-server.Errors():
		return errors.Wrap(err, "server error")

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// outstanding requests get ShutdownTimeout to complete
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
			if err = server.Close(); err != nil {
				return errors.Wrap(err, "could not force stop server")
			}
		}
	}
	return nil
}

func newLogger(prefix string, conf *core.Config) *logsvc.RollbarLogger {
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	return logger
}

// newServerDeps wires the postgres repositories into the services the API serves.
func newServerDeps(conf *core.Config, logger core.Logger, db *sql.DB) echoapi.ServerDeps {
	xdb := sqlxrepos.Open(db)
	lmsRepo := sqlxrepos.NewLMSRepository(xdb)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	user.LoadCommonPasswords(filepath.Join(conf.WorkDir, "assets", "common-passwords.txt.gz"), logger)

	return echoapi.ServerDeps{
		Conf:         conf,
		Logger:       logger,
		UserSvc:      user.NewService(sqlxrepos.NewUserRepository(xdb)),
		RegistrySvc:  lms.NewRegistryService(lmsRepo),
		CatalogSvc:   lms.NewCatalogService(lmsRepo),
		GradebookSvc: lms.NewGradebookService(lmsRepo),
		StudentSvc:   lms.NewStudentService(lmsRepo),
		Validate:     validate,
		Translator:   translator,
	}
}

// startDebugServer serves /debug/pprof and /debug/vars on the debug host.
func startDebugServer(conf *core.Config, logger core.Logger) {
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")
	return translator
}
