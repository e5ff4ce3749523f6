package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/acadhub/backend/core/reminder"
)

type reminderRepository struct {
	db *sqlx.DB
}

var _ reminder.Repository = (*reminderRepository)(nil) // interface compliance check

func NewReminderRepository(db *sqlx.DB) reminder.Repository {
	return &reminderRepository{db: db}
}

const reminderColumns = "id, user_id, title, type, due_date, due_time, priority, description, completed, created_at, updated_at"

func (repo *reminderRepository) CreateReminder(ctx context.Context, rem reminder.Reminder) (reminder.Reminder, error) {
	query := `
		INSERT INTO reminder (` + reminderColumns + `)
		VALUES (:id, :user_id, :title, :type, :due_date, :due_time, :priority, :description, :completed, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, rem); err != nil {
		return reminder.Reminder{}, errors.Wrap(err, "inserting reminder")
	}
	return rem, nil
}

func (repo *reminderRepository) QueryIncompleteReminders(ctx context.Context) ([]reminder.Reminder, error) {
	rems := make([]reminder.Reminder, 0)
	query := "SELECT " + reminderColumns + " FROM reminder WHERE NOT completed"
	if err := repo.db.SelectContext(ctx, &rems, query); err != nil {
		return nil, errors.Wrap(err, "querying incomplete reminders")
	}
	return rems, nil
}

func (repo *reminderRepository) QueryUserReminders(ctx context.Context, userID uuid.UUID) ([]reminder.Reminder, error) {
	rems := make([]reminder.Reminder, 0)
	query := "SELECT " + reminderColumns + " FROM reminder WHERE user_id = $1 ORDER BY due_date, due_time"
	if err := repo.db.SelectContext(ctx, &rems, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying user reminders")
	}
	return rems, nil
}

func (repo *reminderRepository) GetReminderByID(ctx context.Context, id uuid.UUID) (reminder.Reminder, error) {
	var rem reminder.Reminder
	query := "SELECT " + reminderColumns + " FROM reminder WHERE id = $1"
	if err := repo.db.GetContext(ctx, &rem, query, id); err != nil {
		if err == sql.ErrNoRows {
			return reminder.Reminder{}, reminder.ErrNotFound
		}
		return reminder.Reminder{}, errors.Wrap(err, "getting reminder")
	}
	return rem, nil
}

func (repo *reminderRepository) CompleteReminder(ctx context.Context, id uuid.UUID) error {
	res, err := repo.db.ExecContext(ctx, "UPDATE reminder SET completed = true, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "completing reminder")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return reminder.ErrNotFound
	}
	return nil
}

func (repo *reminderRepository) DeleteRemindersByID(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM reminder WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting reminders")
	}
	return nil
}
