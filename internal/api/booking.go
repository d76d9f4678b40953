package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
)

const pathBook = "/book"

// Book reserves a slot. The server answers 401 when the user's booking limit is
// reached and 402 when the slot is taken; neither carries its usual HTTP meaning.
func (c *Client) Book(ctx context.Context, req model.BookingRequest) error {
	_, _, err := c.post(ctx, pathBook, req)
	if err == nil {
		return nil
	}

	var remoteErr *common.RemoteError
	if errors.As(err, &remoteErr) {
		switch remoteErr.Status {
		case http.StatusUnauthorized:
			remoteErr.Err = common.ErrBookingLimit
		case http.StatusPaymentRequired:
			remoteErr.Err = common.ErrSlotUnavailable
		}
	}
	return fmt.Errorf("booking failed: %w", err)
}
