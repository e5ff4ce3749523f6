package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/acadhub/backend/core"
	"github.com/acadhub/backend/core/reminder"
	"github.com/acadhub/backend/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db       *sqlx.DB
	conf     *core.Config
	validate *validator.Validate
	usrSvc   *user.Service
	remRepo  reminder.Repository
	notifier *reminder.Notifier
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run goose database migrations")
	fmt.Println("  checkreminders [-offset HOURS] [-format 12hr|24hr] - run one due-window pass")
	fmt.Println("  adduser -name NAME -username USERNAME -email EMAIL - create a user")
	fmt.Println("  addreminder -email USER_EMAIL -title TITLE -due-date YYYY-MM-DD [OPTIONS] - create a reminder")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	checkCmd := flag.NewFlagSet("checkreminders", flag.ExitOnError)
	checkOffset := checkCmd.Float64("offset", cli.conf.Notifier.DefaultTZOffsetHours, "UTC offset in hours, fractional allowed (5.5 = IST)")
	checkFormat := checkCmd.String("format", cli.conf.Notifier.DefaultTimeFormat, "displayed time format: 12hr or 24hr")

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserUname := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email address.")

	addRemCmd := flag.NewFlagSet("addreminder", flag.ExitOnError)
	addRemEmail := addRemCmd.String("email", "", "The owning user's email address.")
	addRemTitle := addRemCmd.String("title", "", "Display text.")
	addRemType := addRemCmd.String("type", reminder.TypeOther, "One of: assignment, exam, project, other.")
	addRemDueDate := addRemCmd.String("due-date", "", "Due calendar date (YYYY-MM-DD).")
	addRemDueTime := addRemCmd.String("due-time", "", "Optional due clock time (HH:MM[:SS]); 09:00 assumed when empty.")
	addRemPriority := addRemCmd.String("priority", reminder.PriorityNormal, "One of: critical, urgent, normal.")
	addRemDesc := addRemCmd.String("description", "", "Optional free text.")

	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])
	case "checkreminders":
		if err := checkCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.checkReminders(*checkOffset, *checkFormat)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserUname, *addUserEmail)
	case "addreminder":
		if err := addRemCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addRemEmail == "" || *addRemTitle == "" || *addRemDueDate == "" {
			addRemCmd.Usage()
			return errHelp
		}
		return cli.addReminder(*addRemEmail, *addRemTitle, *addRemType, *addRemDueDate, *addRemDueTime, *addRemPriority, *addRemDesc)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) checkReminders(offset float64, format string) error {
	res, err := cli.notifier.CheckDue(context.Background(), reminder.CheckOptions{
		TZOffsetHours: offset,
		TimeFormat:    format,
	})
	if err != nil {
		return err
	}
	fmt.Printf("checked %d reminder(s); sent %d email(s)\n", res.Checked, res.EmailsSent)
	for _, d := range res.Details {
		fmt.Println("  " + d)
	}
	return nil
}

func (cli *commandLine) addUser(name, uname, email string) error {
	usr, err := cli.usrSvc.Create(context.Background(), name, uname, email)
	if err != nil {
		return err
	}
	fmt.Printf("user %s created (%s)\n", usr.Username, usr.ID)
	return nil
}

func (cli *commandLine) addReminder(email, title, typ, dueDate, dueTime, priority, desc string) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	nr := reminder.NewReminder{
		UserID:      usr.ID.String(),
		Title:       title,
		Type:        typ,
		DueDate:     dueDate,
		DueTime:     dueTime,
		Priority:    priority,
		Description: desc,
	}
	if err := nr.Validate(cli.validate); err != nil {
		return err
	}
	rem, err := nr.Reminder()
	if err != nil {
		return err
	}
	if rem, err = cli.remRepo.CreateReminder(ctx, rem); err != nil {
		return err
	}
	fmt.Printf("reminder %q created (%s) for %s\n", rem.Title, rem.ID, usr.Email)
	return nil
}
