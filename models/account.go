package models

import "time"

type Account struct {
	ID         int        `json:"account_id" db:"account_id"`
	Title      string     `json:"title" db:"title"`
	Archived   bool       `json:"archived" db:"archived"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ModifiedAt time.Time  `json:"modified_at" db:"modified_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at"`
}
