package reminder

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/acadhub/backend/core"
	"github.com/acadhub/backend/core/user"
)

type (
	// CheckOptions tune a single due-window pass. The zero value is not
	// usable; build it with DefaultCheckOptions and override as needed.
	CheckOptions struct {
		// TZOffsetHours shifts UTC "now" into the caller's local civil time.
		// It is applied uniformly to every reminder regardless of the owner's
		// actual timezone.
		TZOffsetHours float64
		TimeFormat    string // 12hr | 24hr
	}

	// CheckResult summarizes a due-window pass.
	CheckResult struct {
		Checked    int      `json:"checked"`
		EmailsSent int      `json:"emailsSent"`
		Details    []string `json:"details"` // "<title> -> <email>" per sent notification
	}

	// Notifier scans incomplete reminders and emails their owners when the
	// due instant falls inside a notification window. It never mutates
	// reminder state: re-running inside the same window resends.
	Notifier struct {
		repo    Repository
		users   user.Repository
		mailSvc core.EmailService
		logger  core.Logger
		conf    *core.Config
	}
)

var nowFunc = time.Now // mockable

func NewNotifier(repo Repository, users user.Repository, mailSvc core.EmailService, logger core.Logger, conf *core.Config) *Notifier {
	return &Notifier{
		repo:    repo,
		users:   users,
		mailSvc: mailSvc,
		logger:  logger,
		conf:    conf,
	}
}

// DefaultCheckOptions resolves the configured defaults (offset +5.5, 12hr).
func DefaultCheckOptions(conf *core.Config) CheckOptions {
	return CheckOptions{
		TZOffsetHours: conf.Notifier.DefaultTZOffsetHours,
		TimeFormat:    conf.Notifier.DefaultTimeFormat,
	}
}

// CheckDue performs one full pass over all incomplete reminders.
//
// Per-reminder failures (unresolvable owner, missing mail credentials,
// delivery errors) are logged and skipped; only the inability to fetch the
// reminder list at all fails the pass.
func (n *Notifier) CheckDue(ctx context.Context, opts CheckOptions) (CheckResult, error) {
	res := CheckResult{Details: make([]string, 0)}

	now := nowFunc().UTC()
	nowLocal := naiveLocalClock(now, opts.TZOffsetHours)

	rems, err := n.repo.QueryIncompleteReminders(ctx)
	if err != nil {
		return res, errors.Wrap(err, "querying incomplete reminders")
	}

	for _, rem := range rems {
		res.Checked++

		hoursUntilDue := rem.DueInstant().Sub(nowLocal).Hours()

		usr, err := n.users.GetUserByID(ctx, rem.UserID)
		if err != nil || usr.Email == "" {
			n.logger.Debug(fmt.Sprintf("no email for user %s; skipping reminder %q", rem.UserID, rem.Title))
			continue
		}

		win, ok := ClassifyWindow(hoursUntilDue)
		if !ok {
			continue
		}

		msg := n.buildMessage(rem, usr, win, opts.TimeFormat)
		if err := n.mailSvc.SendMessage(ctx, msg); err != nil {
			if errors.Cause(err) == core.ErrMailNotConfigured {
				n.logger.Error(fmt.Sprintf("email backend not configured; skipping reminder %q", rem.Title), err)
			} else {
				n.logger.Error(fmt.Sprintf("sending notification for reminder %q: %v", rem.Title, err), err)
			}
			continue
		}

		res.EmailsSent++
		res.Details = append(res.Details, fmt.Sprintf("%s -> %s", rem.Title, usr.Email))
	}
	return res, nil
}

// naiveLocalClock shifts `now` by a flat UTC offset and rebuilds the result's
// calendar fields as a timezone-naive timestamp. This deliberately ignores
// true timezone/DST rules; it mirrors how Reminder.DueInstant is constructed,
// which is what makes the subtraction meaningful.
func naiveLocalClock(now time.Time, offsetHours float64) time.Time {
	local := now.Add(time.Duration(offsetHours * float64(time.Hour)))
	return time.Date(
		local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(),
		0, time.UTC,
	)
}

func (n *Notifier) buildMessage(rem Reminder, usr user.User, win Window, timeFormat string) *core.EmailMessage {
	layout := "Jan 2, 2006 at 3:04 PM"
	if timeFormat == core.TimeFormat24Hr {
		layout = "Jan 2, 2006 at 15:04"
	}

	description := "No additional details"
	if rem.Description.Valid && rem.Description.String != "" {
		description = rem.Description.String
	}

	return &core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: fmt.Sprintf("%s: %s", win.Label, rem.Title),
		TemplateParams: map[string]string{
			"to_email":       usr.Email,
			"to_name":        usr.Name,
			"reminder_title": rem.Title,
			"reminder_type":  core.Capitalize(rem.Type),
			"due_date":       rem.DueInstant().Format(layout),
			"priority":       rem.PriorityIcon() + " " + core.Capitalize(rem.Priority),
			"description":    description,
			"window_label":   win.Label,
			"settings_url":   n.conf.SettingsURL(),
		},
	}
}
