package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/katatrina/auctsite-BE/internal/ledger"
	"github.com/katatrina/auctsite-BE/internal/session"
	"github.com/rs/zerolog/log"
)

// websocketUserID resolves the optional token query parameter into a user id.
// Returns (nil, nil) when no token was sent.
func (server *Server) websocketUserID(c *gin.Context) (*int64, error) {
	accessToken := c.Query("token")
	if accessToken == "" {
		return nil, nil
	}

	payload, err := server.tokenMaker.VerifyToken(accessToken)
	if err != nil {
		return nil, err
	}

	userID, err := payload.UserID()
	if err != nil {
		return nil, err
	}

	return &userID, nil
}

// serveListingSocket attaches a connection to a listing room. Anonymous
// viewers may watch; bids, comments, and end requests require a valid token.
func (server *Server) serveListingSocket(c *gin.Context) {
	listingID, err := listingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	userID, err := server.websocketUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	conn, err := server.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	listingSession, err := session.NewListingSession(conn, server.eventSender, server.dbStore, server.bidLedger, server.controller, listingID, userID)
	if err != nil {
		if errors.Is(err, ledger.ErrListingNotFound) {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		} else {
			log.Error().Err(err).Int64("listing_id", listingID).Msg("failed to open listing session")
		}
		conn.Close()
		return
	}

	listingSession.Run()
}

// serveInboxSocket attaches an authenticated connection to the user's inbox.
func (server *Server) serveInboxSocket(c *gin.Context) {
	if c.Query("token") == "" {
		c.JSON(http.StatusUnauthorized, errorResponse(ErrMissingWebsocketToken))
		return
	}

	userID, err := server.websocketUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	conn, err := server.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	session.NewInboxSession(conn, server.eventSender, server.relay, *userID).Run()
}
