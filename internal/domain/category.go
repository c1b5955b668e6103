package domain

import "time"

// Category groups products. Categories are referenced by products through a
// foreign key, so a category cannot be removed while products still use it.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
