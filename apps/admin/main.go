package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/acadhub/backend/core"
	"github.com/acadhub/backend/core/reminder"
	"github.com/acadhub/backend/core/user"
	emailsvc "github.com/acadhub/backend/services/email"
	logsvc "github.com/acadhub/backend/services/logger"
	"github.com/acadhub/backend/storage/database"
	sqlxrepos "github.com/acadhub/backend/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(false) // ops CLI; keep errors local

	validate := validator.New()
	core.InitValidators(validate, newTranslator())

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	usrRepo := sqlxrepos.NewUserRepository(db)
	remRepo := sqlxrepos.NewReminderRepository(db)

	// start CLI
	cli := commandLine{
		db:       db,
		conf:     conf,
		validate: validate,
		usrSvc:   user.NewService(usrRepo),
		remRepo:  remRepo,
		notifier: reminder.NewNotifier(remRepo, usrRepo, emailsvc.NewConsoleService(conf), appLogger, conf),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
