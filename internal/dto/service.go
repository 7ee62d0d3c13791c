package dto

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ServiceResponse struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	DurationValue int      `json:"duration_value,omitempty"`
	DurationUnit  string   `json:"duration_unit,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

type UpsertServiceRequest struct {
	CategoryID    string   `json:"category_id" validate:"max=64"`
	Name          string   `json:"name" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	DurationValue int      `json:"duration_value" validate:"gte=0"`
	DurationUnit  string   `json:"duration_unit" validate:"omitempty,oneof=minutes hours days"`
	ImageURL      string   `json:"image_url" validate:"omitempty,url"`
}
