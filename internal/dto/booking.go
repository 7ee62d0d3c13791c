package dto

type CreateBookingRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required"`
	Address   string `json:"address" validate:"required,max=500"`
	Notes     string `json:"notes" validate:"max=2000"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed inProgress completed cancelled"`
}

type BookingResponse struct {
	ID          string `json:"id"`
	ReferenceID string `json:"reference_id"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Address     string `json:"address"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status"`
	AdminSeen   bool   `json:"admin_seen"`
	CreatedAt   string `json:"created_at"`
}
