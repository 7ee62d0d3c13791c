package dto

type RecommendationResponse struct {
	Service      ServiceResponse `json:"service"`
	CategoryName string          `json:"category_name"`
	TimesBooked  int             `json:"times_booked"`
}
