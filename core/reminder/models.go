package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/acadhub/backend/core"
)

var (
	// errors
	ErrNotFound = errors.New("reminder not found")
)

// Reminder types
const (
	TypeAssignment = "assignment"
	TypeExam       = "exam"
	TypeProject    = "project"
	TypeOther      = "other"
)

// Priorities
const (
	PriorityCritical = "critical"
	PriorityUrgent   = "urgent"
	PriorityNormal   = "normal"
)

// DefaultDueTime is assumed when a reminder carries no due_time.
const DefaultDueTime = "09:00:00"

var priorityIcons = map[string]string{
	PriorityCritical: "🔴",
	PriorityUrgent:   "🟠",
	PriorityNormal:   "🟢",
}

type (
	// Reminder is externally persisted and read-only from this service's
	// perspective: the main application creates, updates and completes it.
	//
	// DueDate + DueTime (or DefaultDueTime) define a single due instant in
	// the owner's local civil calendar. No timezone is stored with it.
	Reminder struct {
		ID          uuid.UUID   `json:"id" db:"id"`
		UserID      uuid.UUID   `json:"user_id" db:"user_id"`
		Title       string      `json:"title" db:"title"`
		Type        string      `json:"type" db:"type"`
		DueDate     time.Time   `json:"due_date" db:"due_date"`
		DueTime     null.String `json:"due_time" db:"due_time"` // HH:MM[:SS]
		Priority    string      `json:"priority" db:"priority"`
		Description null.String `json:"description" db:"description"`
		Completed   bool        `json:"completed" db:"completed"`
		CreatedAt   time.Time   `json:"created_at" db:"created_at"`
		UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
	}

	Repository interface {
		CreateReminder(ctx context.Context, rem Reminder) (Reminder, error)
		// QueryIncompleteReminders returns all reminders with completed = false,
		// in no particular order.
		QueryIncompleteReminders(ctx context.Context) ([]Reminder, error)
		QueryUserReminders(ctx context.Context, userID uuid.UUID) ([]Reminder, error)
		GetReminderByID(ctx context.Context, id uuid.UUID) (Reminder, error)
		CompleteReminder(ctx context.Context, id uuid.UUID) error
		DeleteRemindersByID(ctx context.Context, ids ...uuid.UUID) error
	}
)

// DueClock resolves the reminder's wall-clock due time, falling back to
// DefaultDueTime when due_time is absent or unparsable.
func (r Reminder) DueClock() (hour, min int) {
	hour, min, err := parseClock(r.DueTime.String)
	if !r.DueTime.Valid || err != nil {
		hour, min, _ = parseClock(DefaultDueTime)
	}
	return hour, min
}

// DueInstant combines due_date (a local calendar date at midnight) with the
// resolved due clock. The result is a timezone-naive local timestamp; it is
// only meaningful relative to instants constructed the same way.
func (r Reminder) DueInstant() time.Time {
	hour, min := r.DueClock()
	return time.Date(r.DueDate.Year(), r.DueDate.Month(), r.DueDate.Day(), hour, min, 0, 0, time.UTC)
}

// PriorityIcon returns the display icon for the reminder's priority.
func (r Reminder) PriorityIcon() string {
	if icon, ok := priorityIcons[r.Priority]; ok {
		return icon
	}
	return priorityIcons[PriorityNormal]
}

func parseClock(s string) (hour, min int, err error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// NewReminder contains information needed to create a new Reminder.
// Only exercised by seeding and ops tooling; the main application writes
// reminders through its own path.
type NewReminder struct {
	UserID      string `json:"user_id" validate:"required,uuid4"`
	Title       string `json:"title" validate:"required,max=200"`
	Type        string `json:"type" validate:"required,oneof=assignment exam project other"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
	DueTime     string `json:"due_time" validate:"omitempty,clocktime"`
	Priority    string `json:"priority" validate:"required,oneof=critical urgent normal"`
	Description string `json:"description"`
}

func (nr *NewReminder) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	nr.Priority = core.CleanString(nr.Priority, true /* lower */)
	return validate.Struct(nr)
}

// Reminder builds the domain object from validated input.
func (nr NewReminder) Reminder() (Reminder, error) {
	userID, err := uuid.Parse(nr.UserID)
	if err != nil {
		return Reminder{}, err
	}
	dueDate, err := time.Parse("2006-01-02", nr.DueDate)
	if err != nil {
		return Reminder{}, err
	}

	now := time.Now().UTC()
	return Reminder{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       nr.Title,
		Type:        nr.Type,
		DueDate:     dueDate,
		DueTime:     null.NewString(nr.DueTime, nr.DueTime != ""),
		Priority:    nr.Priority,
		Description: null.NewString(nr.Description, nr.Description != ""),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
