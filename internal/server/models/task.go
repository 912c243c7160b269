package models

import "time"

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Done      bool      `db:"done" json:"done"`
	UserID    int64     `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// UserDoneTasks is a user's name together with their completed tasks.
type UserDoneTasks struct {
	UserName string `json:"username"`
	Tasks    []Task `json:"tasks"`
}
