package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/acadhub/backend/core"
	"github.com/acadhub/backend/core/reminder"
	"github.com/acadhub/backend/core/user"
)

// NewConfig returns a Config suitable for tests: no provider credentials,
// spec defaults for the notifier.
func NewConfig() *core.Config {
	conf := &core.Config{
		AppName:         "AcadHub",
		Env:             "TEST",
		TestMode:        true,
		FrontendBaseURL: "http://localhost:3000",
	}
	conf.Notifier.DefaultTZOffsetHours = 5.5
	conf.Notifier.DefaultTimeFormat = core.TimeFormat12Hr
	conf.Notifier.SettingsPath = "/settings"
	return conf
}

type nopLogger struct{}

var _ core.Logger = (*nopLogger)(nil)

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func NewLogger() core.Logger { return nopLogger{} }

func CreateUser(t *testing.T, repo user.Repository, name, uname, email string, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr, err := repo.CreateUser(context.Background(), user.User{
		ID:        uuid.New(),
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateReminder(
	t *testing.T,
	repo reminder.Repository,
	userID uuid.UUID,
	title, typ string,
	dueDate time.Time,
	dueTime string,
	priority string,
	completed bool,
) reminder.Reminder {
	t.Helper()

	now := time.Now().UTC()
	rem, err := repo.CreateReminder(context.Background(), reminder.Reminder{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Type:      typ,
		DueDate:   dueDate,
		DueTime:   null.NewString(dueTime, dueTime != ""),
		Priority:  priority,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateReminder() failed: %v", err)
	}
	return rem
}
