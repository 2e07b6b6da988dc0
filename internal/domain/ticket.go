package domain

type Ticket struct {
	ID        int64  `json:"id" db:"id"`
	ProjectID int64  `json:"project_id" db:"project_id"`
	Headline  string `json:"headline" db:"headline"`
	UserID    int64  `json:"user_id" db:"user_id"`
	EditorID  int64  `json:"editor_id" db:"editor_id"`
}

type Project struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
