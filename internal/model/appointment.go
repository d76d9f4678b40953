package model

// TimeSlots are the bookable appointment start times.
var TimeSlots = []string{"07:00", "08:00", "09:00", "10:00", "11:00"}

// BookingRequest asks for one appointment slot.
type BookingRequest struct {
	UserID string `json:"userId" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string `json:"time" validate:"required,oneof=07:00 08:00 09:00 10:00 11:00"`
}
