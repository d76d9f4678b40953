// Package booking books appointment slots for the logged-in user.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/service"
	"github.com/Veraticus/carepoint/internal/session"
)

// Notification texts.
const (
	MsgBooked     = "Booking successful!"
	MsgFillFields = "Please fill all fields"
	MsgFailed     = "Something went wrong"
)

// Form is what the user picked.
type Form struct {
	Date string
	Time string
}

// Controller turns a form into a booking. Request and Settle touch the session and
// belong on the UI loop; Submit only talks to the server and may run anywhere.
type Controller struct {
	appointments service.Appointments
	sessions     *session.Prober
}

// NewController creates a booking controller.
func NewController(appointments service.Appointments, sessions *session.Prober) *Controller {
	return &Controller{appointments: appointments, sessions: sessions}
}

// CanSubmit reports whether the book button is enabled.
func (c *Controller) CanSubmit(inFlight bool) bool {
	return !inFlight && c.sessions.CanBook()
}

// Request validates the form against the current session.
func (c *Controller) Request(f Form) (model.BookingRequest, error) {
	current := c.sessions.Current()
	date := strings.TrimSpace(f.Date)
	slot := strings.TrimSpace(f.Time)
	if current == nil || current.UserID == "" || date == "" || slot == "" {
		return model.BookingRequest{}, common.NewValidationError("", MsgFillFields)
	}

	req := model.BookingRequest{UserID: current.UserID, Date: date, Time: slot}
	if err := common.ValidateStruct(req); err != nil {
		return model.BookingRequest{}, err
	}
	return req, nil
}

// Submit sends the booking.
func (c *Controller) Submit(ctx context.Context, req model.BookingRequest) error {
	return c.appointments.Book(ctx, req)
}

// Settle applies the outcome of Submit and returns the notification to show. Hitting
// the booking limit also ends the session.
func (c *Controller) Settle(err error) string {
	switch {
	case err == nil:
		return MsgBooked
	case errors.Is(err, common.ErrBookingLimit):
		c.sessions.Clear()
		return common.UserMessage(err)
	case errors.Is(err, common.ErrSlotUnavailable):
		return common.UserMessage(err)
	default:
		var validationErr *common.ValidationError
		if errors.As(err, &validationErr) {
			return validationErr.Error()
		}
		slog.Warn("Booking failed", "error", err)
		return MsgFailed
	}
}

// Book runs Request, Submit and Settle in one go. It returns the notification text and
// the error, if any.
func (c *Controller) Book(ctx context.Context, f Form) (string, error) {
	req, err := c.Request(f)
	if err != nil {
		return c.Settle(err), err
	}
	err = c.Submit(ctx, req)
	return c.Settle(err), err
}
