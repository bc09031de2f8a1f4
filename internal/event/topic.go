package event

import (
	"fmt"
)

// ListingTopic names the broadcast scope shared by every viewer of a listing.
func ListingTopic(listingID int64) string {
	return fmt.Sprintf("listing:%d", listingID)
}

// InboxTopic names the private broadcast scope of one authenticated user.
func InboxTopic(userID int64) string {
	return fmt.Sprintf("inbox:%d", userID)
}
