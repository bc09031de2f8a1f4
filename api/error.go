package api

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	ErrUsernameTaken         = errors.New("username is already taken")
	ErrInvalidCredentials    = errors.New("incorrect username or password")
	ErrListingDeadlineInPast = errors.New("listing deadline must be in the future")
	ErrStartBidOutOfRange    = errors.New("start bid is out of the allowed range")
	ErrMissingWebsocketToken = errors.New("token query parameter is required")
)

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
