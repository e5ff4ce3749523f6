package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	"github.com/jmoiron/sqlx"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/backend/core"
	"github.com/acadhub/backend/core/reminder"
	"github.com/acadhub/backend/core/user"
	dummymail "github.com/acadhub/backend/services/email/dummy"
	dummydb "github.com/acadhub/backend/storage/database/dummy"
	testutil "github.com/acadhub/backend/tests"
)

func setup(t *testing.T) (*commandLine, *dummydb.DB, *dummymail.Service) {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := testutil.NewConfig()
	mailSvc := dummymail.NewService()

	validate := validator.New()
	core.InitValidators(validate, newTestTranslator())

	usrRepo := dummydb.NewUserRepository(db)
	remRepo := dummydb.NewReminderRepository(db)

	cli := &commandLine{
		db:       &sqlx.DB{}, // migrate is mocked; never touches a live DB
		conf:     conf,
		validate: validate,
		usrSvc:   user.NewService(usrRepo),
		remRepo:  remRepo,
		notifier: reminder.NewNotifier(remRepo, usrRepo, mailSvc, testutil.NewLogger(), conf),
	}
	return cli, db, mailSvc
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION argument", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"admin", "migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"admin", "migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up", args: []string{"admin", "migrate", "up"}},
		{name: "up-to", args: []string{"admin", "migrate", "up-to", "2"}},
		{name: "up-to: no args", args: []string{"admin", "migrate", "up-to"}, wantErrStr: "up-to requires a VERSION argument"},
		{name: "up-to: non-int arg", args: []string{"admin", "migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down", args: []string{"admin", "migrate", "down"}},
		{name: "status", args: []string{"admin", "migrate", "status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(tt.args)
			checkCLIErr(t, tt, err)
		})
	}
}

func Test_commandLine_noArgs(t *testing.T) {
	cli, _, _ := setup(t)

	assert.Equal(t, errHelp, cli.run([]string{"admin"}))
	assert.Equal(t, errHelp, cli.run([]string{"admin", "wat"}))
}

func Test_commandLine_adduser(t *testing.T) {
	cli, db, _ := setup(t)

	tests := []cliTest{
		{name: "missing flags", args: []string{"admin", "adduser"}, wantErr: errHelp},
		{name: "ok", args: []string{"admin", "adduser", "-name", "Asha", "-username", "asha", "-email", "asha@test.cd"}},
		{name: "duplicate email", args: []string{"admin", "adduser", "-name", "Asha 2", "-username", "asha2", "-email", "asha@test.cd"},
			wantErrStr: user.ErrEmailExists.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(tt.args)
			checkCLIErr(t, tt, err)
		})
	}

	usr, err := dummydb.NewUserRepository(db).GetUserByEmail(context.Background(), "asha@test.cd")
	require.NoError(t, err)
	assert.Equal(t, "asha", usr.Username)
}

func Test_commandLine_addreminder(t *testing.T) {
	cli, db, _ := setup(t)

	testutil.CreateUser(t, dummydb.NewUserRepository(db), "Asha", "asha", "asha@test.cd", true)

	tests := []cliTest{
		{name: "missing flags", args: []string{"admin", "addreminder"}, wantErr: errHelp},
		{name: "unknown user", args: []string{"admin", "addreminder", "-email", "ghost@test.cd", "-title", "x", "-due-date", "2030-01-01"},
			wantErrStr: user.ErrNotFound.Error()},
		{name: "ok", args: []string{"admin", "addreminder", "-email", "asha@test.cd", "-title", "Final exam",
			"-type", "exam", "-due-date", "2030-05-20", "-due-time", "14:00", "-priority", "critical"}},
		{name: "bad due date", args: []string{"admin", "addreminder", "-email", "asha@test.cd", "-title", "x", "-due-date", "soon"},
			wantErrStr: "due_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(tt.args)
			checkCLIErr(t, tt, err)
		})
	}

	usr, err := dummydb.NewUserRepository(db).GetUserByEmail(context.Background(), "asha@test.cd")
	require.NoError(t, err)
	rems, err := dummydb.NewReminderRepository(db).QueryUserReminders(context.Background(), usr.ID)
	require.NoError(t, err)
	require.Len(t, rems, 1)
	assert.Equal(t, "Final exam", rems[0].Title)
	assert.Equal(t, "14:00", rems[0].DueTime.String)
}

func Test_commandLine_checkreminders(t *testing.T) {
	cli, db, mailSvc := setup(t)

	usr := testutil.CreateUser(t, dummydb.NewUserRepository(db), "Asha", "asha", "asha@test.cd", true)

	// ~24h out relative to the shifted local clock
	local := time.Now().UTC().Add(time.Duration(5.5 * float64(time.Hour)))
	due := local.Add(24 * time.Hour)
	testutil.CreateReminder(t, dummydb.NewReminderRepository(db), usr.ID,
		"Final exam", reminder.TypeExam,
		time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC), due.Format("15:04"),
		reminder.PriorityCritical, false)

	require.NoError(t, cli.run([]string{"admin", "checkreminders", "-offset", "5.5"}))
	assert.Len(t, mailSvc.SentMessages(), 1)
}

func checkCLIErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		require.Error(t, err)
		assert.Contains(t, err.Error(), tt.wantErrStr)
	default:
		assert.NoError(t, err)
	}
}
