package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/acadhub/backend/core/reminder"
)

type reminderRepository struct {
	db *reminderTable
}

var _ reminder.Repository = (*reminderRepository)(nil) // interface compliance check

func NewReminderRepository(db *DB) reminder.Repository {
	return &reminderRepository{db: db.reminder}
}

func (repo *reminderRepository) query() []reminder.Reminder {
	rems := make([]reminder.Reminder, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		rems = append(rems, *r)
	}
	return rems
}

func (repo *reminderRepository) CreateReminder(_ context.Context, rem reminder.Reminder) (reminder.Reminder, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if rem.ID == uuid.Nil {
		rem.ID = uuid.New()
	}
	repo.db.table[rem.ID] = &rem
	return rem, nil
}

func (repo *reminderRepository) QueryIncompleteReminders(_ context.Context) ([]reminder.Reminder, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rems := make([]reminder.Reminder, 0)
	for _, rem := range repo.query() {
		if !rem.Completed {
			rems = append(rems, rem)
		}
	}
	return rems, nil
}

func (repo *reminderRepository) QueryUserReminders(_ context.Context, userID uuid.UUID) ([]reminder.Reminder, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rems := make([]reminder.Reminder, 0)
	for _, rem := range repo.query() {
		if rem.UserID == userID {
			rems = append(rems, rem)
		}
	}
	sort.Slice(rems, func(i, j int) bool { return rems[i].DueInstant().Before(rems[j].DueInstant()) })
	return rems, nil
}

func (repo *reminderRepository) GetReminderByID(_ context.Context, id uuid.UUID) (reminder.Reminder, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rem, ok := repo.db.table[id]; ok {
		return *rem, nil
	}
	return reminder.Reminder{}, reminder.ErrNotFound
}

func (repo *reminderRepository) CompleteReminder(_ context.Context, id uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	rem, ok := repo.db.table[id]
	if !ok {
		return reminder.ErrNotFound
	}
	rem.Completed = true
	return nil
}

func (repo *reminderRepository) DeleteRemindersByID(_ context.Context, ids ...uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
