package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/acadhub/backend/core"
	"github.com/acadhub/backend/core/user"
	dummymail "github.com/acadhub/backend/services/email/dummy"
)

type fakeReminderRepo struct {
	Repository
	rems []Reminder
	err  error
}

func (repo *fakeReminderRepo) QueryIncompleteReminders(context.Context) ([]Reminder, error) {
	if repo.err != nil {
		return nil, repo.err
	}
	out := make([]Reminder, 0)
	for _, rem := range repo.rems {
		if !rem.Completed {
			out = append(out, rem)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	user.Repository
	users map[uuid.UUID]user.User
}

func (repo *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if usr, ok := repo.users[id]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

type notifierFixture struct {
	notifier *Notifier
	remRepo  *fakeReminderRepo
	usrRepo  *fakeUserRepo
	mailSvc  *dummymail.Service
	conf     *core.Config
}

func setup(t *testing.T) *notifierFixture {
	t.Helper()

	conf := &core.Config{AppName: "AcadHub", Env: "TEST", TestMode: true, FrontendBaseURL: "http://localhost:3000"}
	conf.Notifier.DefaultTZOffsetHours = 5.5
	conf.Notifier.DefaultTimeFormat = core.TimeFormat12Hr
	conf.Notifier.SettingsPath = "/settings"

	f := &notifierFixture{
		remRepo: &fakeReminderRepo{},
		usrRepo: &fakeUserRepo{users: make(map[uuid.UUID]user.User)},
		mailSvc: dummymail.NewService(),
		conf:    conf,
	}
	f.notifier = NewNotifier(f.remRepo, f.usrRepo, f.mailSvc, nopLogger{}, conf)
	return f
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setNow(t *testing.T, instant time.Time) {
	t.Helper()
	nowFunc = func() time.Time { return instant }
	t.Cleanup(func() { nowFunc = time.Now })
}

func (f *notifierFixture) addUser(name, email string) user.User {
	usr := user.User{ID: uuid.New(), Name: name, Email: email, IsActive: true}
	f.usrRepo.users[usr.ID] = usr
	return usr
}

func (f *notifierFixture) addReminder(userID uuid.UUID, title string, dueDate time.Time, dueTime string, completed bool) Reminder {
	rem := Reminder{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Type:      TypeAssignment,
		DueDate:   dueDate,
		DueTime:   null.NewString(dueTime, dueTime != ""),
		Priority:  PriorityNormal,
		Completed: completed,
	}
	f.remRepo.rems = append(f.remRepo.rems, rem)
	return rem
}

var defaultOpts = CheckOptions{TZOffsetHours: 5.5, TimeFormat: core.TimeFormat12Hr}

// The worked IST example: local "now" is 2024-06-09 09:00, the reminder is
// due 2024-06-10 with no due_time (09:00 assumed) -> exactly 24h out.
func TestNotifier_CheckDue_istDayWindow(t *testing.T) {
	f := setup(t)
	setNow(t, time.Date(2024, 6, 9, 3, 30, 0, 0, time.UTC))

	usr := f.addUser("Asha", "asha@test.cd")
	f.addReminder(usr.ID, "OS assignment", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "", false)

	res, err := f.notifier.CheckDue(context.Background(), defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Checked)
	assert.Equal(t, 1, res.EmailsSent)
	require.Len(t, res.Details, 1)
	assert.Equal(t, "OS assignment -> asha@test.cd", res.Details[0])

	sent := f.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	params := sent[0].TemplateParams
	assert.Equal(t, "24 Hours Until Due", params["window_label"])
	assert.Equal(t, "Assignment", params["reminder_type"])
	assert.Equal(t, "Jun 10, 2024 at 9:00 AM", params["due_date"])
	assert.Equal(t, "🟢 Normal", params["priority"])
	assert.Equal(t, "No additional details", params["description"])
	assert.Equal(t, "http://localhost:3000/settings", params["settings_url"])
}

func TestNotifier_CheckDue_completedNeverEvaluated(t *testing.T) {
	f := setup(t)
	setNow(t, time.Date(2024, 6, 9, 3, 30, 0, 0, time.UTC))

	usr := f.addUser("Asha", "asha@test.cd")
	f.addReminder(usr.ID, "done already", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "", true)

	res, err := f.notifier.CheckDue(context.Background(), defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Checked)
	assert.Equal(t, 0, res.EmailsSent)
	assert.Empty(t, f.mailSvc.SentMessages())
}

func TestNotifier_CheckDue_windowSelection(t *testing.T) {
	// local now: 2024-06-09 09:00 (offset +5.5 on 03:30Z)
	now := time.Date(2024, 6, 9, 3, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		dueDate   time.Time
		dueTime   string
		wantLabel string
		wantSent  int
	}{
		{
			name:    "3-day window",
			dueDate: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), dueTime: "09:30",
			wantLabel: "3 Days Until Due", wantSent: 1,
		},
		{
			name:    "2-day window",
			dueDate: time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), dueTime: "09:00",
			wantLabel: "2 Days Until Due", wantSent: 1,
		},
		{
			name:    "1-hour window",
			dueDate: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), dueTime: "10:00",
			wantLabel: "1 Hour Until Due!", wantSent: 1,
		},
		{
			name:    "overdue window",
			dueDate: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), dueTime: "08:30",
			wantLabel: "OVERDUE", wantSent: 1,
		},
		{
			name:    "too far out",
			dueDate: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), dueTime: "09:00",
			wantSent: 0,
		},
		{
			name:    "too long overdue",
			dueDate: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), dueTime: "06:00",
			wantSent: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			setNow(t, now)

			usr := f.addUser("Asha", "asha@test.cd")
			f.addReminder(usr.ID, tt.name, tt.dueDate, tt.dueTime, false)

			res, err := f.notifier.CheckDue(context.Background(), defaultOpts)
			require.NoError(t, err)

			assert.Equal(t, 1, res.Checked)
			assert.Equal(t, tt.wantSent, res.EmailsSent)
			if tt.wantSent > 0 {
				sent := f.mailSvc.SentMessages()
				require.Len(t, sent, 1)
				assert.Equal(t, tt.wantLabel, sent[0].TemplateParams["window_label"])
			}
		})
	}
}

func TestNotifier_CheckDue_unresolvableUserSkipped(t *testing.T) {
	f := setup(t)
	setNow(t, time.Date(2024, 6, 9, 3, 30, 0, 0, time.UTC))

	usr := f.addUser("Asha", "asha@test.cd")
	f.addReminder(usr.ID, "mine", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "", false)
	f.addReminder(uuid.New(), "orphan", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "", false)

	res, err := f.notifier.CheckDue(context.Background(), defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Checked) // the orphan still counts as checked
	assert.Equal(t, 1, res.EmailsSent)
	assert.Equal(t, []string{"mine -> asha@test.cd"}, res.Details)
}

func TestNotifier_CheckDue_mailNotConfigured(t *testing.T) {
	f := setup(t)
	setNow(t, time.Date(2024, 6, 9, 3, 30, 0, 0, time.UTC))
	f.mailSvc.Err = core.ErrMailNotConfigured

	usr := f.addUser("Asha", "asha@test.cd")
	f.addReminder(usr.ID, "a", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "", false)
	f.addReminder(usr.ID, "b", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "", false)

	res, err := f.notifier.CheckDue(context.Background(), defaultOpts)
	require.NoError(t, err) // degrades gracefully, no hard failure

	assert.Equal(t, 2, res.Checked)
	assert.Equal(t, 0, res.EmailsSent)
	assert.Empty(t, res.Details)
}

func TestNotifier_CheckDue_deliveryErrorDoesNotAbortBatch(t *testing.T) {
	f := setup(t)
	setNow(t, time.Date(2024, 6, 9, 3, 30, 0, 0, time.UTC))
	f.mailSvc.Err = errors.New("provider exploded")

	usr := f.addUser("Asha", "asha@test.cd")
	f.addReminder(usr.ID, "a", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "", false)

	res, err := f.notifier.CheckDue(context.Background(), defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Checked)
	assert.Equal(t, 0, res.EmailsSent)
}

// No idempotence guard: re-running inside the same window resends.
func TestNotifier_CheckDue_resendsWithinWindow(t *testing.T) {
	f := setup(t)
	setNow(t, time.Date(2024, 6, 9, 3, 30, 0, 0, time.UTC))

	usr := f.addUser("Asha", "asha@test.cd")
	f.addReminder(usr.ID, "a", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "", false)

	for i := 0; i < 2; i++ {
		res, err := f.notifier.CheckDue(context.Background(), defaultOpts)
		require.NoError(t, err)
		assert.Equal(t, 1, res.EmailsSent)
	}
	assert.Len(t, f.mailSvc.SentMessages(), 2)
}

func TestNotifier_CheckDue_24hrFormat(t *testing.T) {
	f := setup(t)
	setNow(t, time.Date(2024, 6, 9, 3, 30, 0, 0, time.UTC))

	usr := f.addUser("Asha", "asha@test.cd")
	f.addReminder(usr.ID, "a", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "16:45", false)

	// 31.75h out: shift now so 16:45 lands in the 1-day band instead
	setNow(t, time.Date(2024, 6, 9, 11, 15, 0, 0, time.UTC)) // local 16:45 -> exactly 24h

	res, err := f.notifier.CheckDue(context.Background(), CheckOptions{TZOffsetHours: 5.5, TimeFormat: core.TimeFormat24Hr})
	require.NoError(t, err)
	require.Equal(t, 1, res.EmailsSent)

	sent := f.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Jun 10, 2024 at 16:45", sent[0].TemplateParams["due_date"])
}

func TestNotifier_CheckDue_repositoryFailureIsFatal(t *testing.T) {
	f := setup(t)
	f.remRepo.err = errors.New("connection refused")

	_, err := f.notifier.CheckDue(context.Background(), defaultOpts)
	assert.Error(t, err)
}

func TestNotifier_CheckDue_emptyDetailsIsNotNil(t *testing.T) {
	f := setup(t)

	res, err := f.notifier.CheckDue(context.Background(), defaultOpts)
	require.NoError(t, err)
	assert.NotNil(t, res.Details)
	assert.Empty(t, res.Details)
}
