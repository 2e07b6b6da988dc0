package repository

import (
	"strconv"

	"github.com/jmoiron/sqlx"
)

// WatchersTable holds the plugin's watch relations. The zp_plugin_ prefix
// keeps plugin tables apart from the host's.
const WatchersTable = "zp_plugin_watchers"

type Repositories struct {
	Watcher WatcherRepository
	Ticket  TicketRepository
	Project ProjectRepository
	User    UserRepository
	Setting SettingRepository
	Queue   QueueRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Watcher: NewWatcherRepository(db),
		Ticket:  NewTicketRepository(db),
		Project: NewProjectRepository(db),
		User:    NewUserRepository(db),
		Setting: NewSettingRepository(db),
		Queue:   NewQueueRepository(db),
	}
}

// limitClause returns a LIMIT bound to placeholder nextArg, or nothing for
// a negative limit.
func limitClause(limit int, nextArg int) (string, bool) {
	if limit < 0 {
		return "", false
	}
	return " LIMIT $" + strconv.Itoa(nextArg), true
}
