package dummydb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/acadhub/backend/core/reminder"
	"github.com/acadhub/backend/core/user"
)

type (
	DB struct {
		user     *userTable
		reminder *reminderTable
	}

	userTable struct {
		sync.RWMutex
		table map[uuid.UUID]*user.User
	}

	reminderTable struct {
		sync.RWMutex
		table map[uuid.UUID]*reminder.Reminder
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[uuid.UUID]*user.User)},
		reminder: &reminderTable{table: make(map[uuid.UUID]*reminder.Reminder)},
	}
	return db, nil
}
