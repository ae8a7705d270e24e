package model

import "time"

// User is the identity attached to connections and requests. Account
// creation and credentials live with the identity provider; rows here
// are mirrored from verified tokens so membership and authorship can
// reference them.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
