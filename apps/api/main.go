package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	echoapi "github.com/acadhub/backend/apps/api/echo"
	"github.com/acadhub/backend/core"
	"github.com/acadhub/backend/core/reminder"
	emailsvc "github.com/acadhub/backend/services/email"
	logsvc "github.com/acadhub/backend/services/logger"
	"github.com/acadhub/backend/storage/database"
	sqlxrepos "github.com/acadhub/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close DB", err)
		}
	}()
	if err = database.Migrate(db.DB); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	switch conf.Mail.Backend {
	case "sendgrid":
		mailSvc = emailsvc.NewSendgridService(conf)
	case "console":
		mailSvc = emailsvc.NewConsoleService(conf)
	default:
		mailSvc = emailsvc.NewEmailJSService(conf)
	}
	if conf.Debug && conf.Mail.Backend == "emailjs" {
		mailSvc = emailsvc.NewConsoleService(conf)
	}

	notifier := reminder.NewNotifier(
		sqlxrepos.NewReminderRepository(db),
		sqlxrepos.NewUserRepository(db),
		mailSvc,
		logger,
		conf,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start in-process trigger (optional; an external scheduler normally
	// drives the check endpoint)

	if conf.Notifier.CronEnabled {
		c := cron.New()
		_, err := c.AddFunc(conf.Notifier.CronSpec, func() {
			res, err := notifier.CheckDue(context.Background(), reminder.DefaultCheckOptions(conf))
			if err != nil {
				logger.Error(fmt.Sprintf("scheduled reminder check: %v", err), err)
				return
			}
			logger.Info(fmt.Sprintf("scheduled reminder check: %d checked, %d sent", res.Checked, res.EmailsSent))
		})
		if err != nil {
			logger.Fatal(fmt.Sprintf("scheduling reminder check %q: %v", conf.Notifier.CronSpec, err), err)
		}
		c.Start()
		defer c.Stop()
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Notifier:   notifier,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
