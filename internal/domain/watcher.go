package domain

// ProjectLevel is the ticket id stored for a watch on a whole project.
const ProjectLevel int64 = 0

// Watcher is the identifying triple returned by the list queries.
type Watcher struct {
	ProjectID int64 `json:"project_id" db:"project_id"`
	TicketID  int64 `json:"ticket_id" db:"ticket_id"`
	UserID    int64 `json:"user_id" db:"user_id"`
}

// Unbounded disables LIMIT on the watcher list queries.
const Unbounded = -1

type WatchStatusResponse struct {
	Status      int   `json:"status"`
	WatchStatus *bool `json:"watchStatus,omitempty"`
}

type WatchQuery struct {
	ID int64 `query:"id" validate:"required,gt=0"`
}
