package models

import "time"

type Category struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// Service is a bookable catalog offering.
type Service struct {
	ID            string    `db:"id"`
	CategoryID    string    `db:"category_id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Price         *float64  `db:"price"`
	DurationValue int       `db:"duration_value"`
	DurationUnit  string    `db:"duration_unit"`
	ImageURL      string    `db:"image_url"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
