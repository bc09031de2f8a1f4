package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/ledger"
	"github.com/katatrina/auctsite-BE/internal/util"
	"github.com/katatrina/auctsite-BE/internal/worker"
	"github.com/rs/zerolog/log"
)

func listingIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("listingID"), 10, 64)
}

type createListingRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description" binding:"required"`
	ImageURL    *string   `json:"image_url"`
	StartBid    float64   `json:"start_bid" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

func (server *Server) createListing(c *gin.Context) {
	userID, err := authenticatedUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	req := new(createListingRequest)
	if err = c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if !req.EndsAt.After(time.Now()) {
		c.JSON(http.StatusBadRequest, errorResponse(ErrListingDeadlineInPast))
		return
	}

	startBid := util.NormalizeBid(req.StartBid)
	if startBid <= 0 || startBid > server.config.BidCeiling {
		c.JSON(http.StatusBadRequest, errorResponse(ErrStartBidOutOfRange))
		return
	}

	listing, err := server.dbStore.CreateListing(c, db.CreateListingParams{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		StartBid:    startBid,
		Status:      db.ListingStatusOpen,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	// Schedule the close at the deadline. The periodic sweep covers this
	// listing anyway, so a failed enqueue is not fatal.
	err = server.taskDistributor.DistributeTaskEndListing(c,
		&worker.PayloadEndListing{ListingID: listing.ID},
		asynq.ProcessAt(listing.EndsAt),
		asynq.Queue(worker.QueueCritical),
	)
	if err != nil {
		log.Warn().Err(err).Int64("listing_id", listing.ID).Msg("failed to schedule listing end task")
	}

	c.JSON(http.StatusCreated, listing)
}

func (server *Server) listListings(c *gin.Context) {
	var status *db.ListingStatus
	if raw := c.Query("status"); raw != "" {
		s := db.ListingStatus(raw)
		if s != db.ListingStatusOpen && s != db.ListingStatusClosed {
			c.JSON(http.StatusBadRequest, errorResponse(errors.New("status must be open or closed")))
			return
		}
		status = &s
	}

	listings, err := server.dbStore.ListListings(c, db.ListListingsParams{Status: status})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, listings)
}

type listingDetailsResponse struct {
	db.Listing
	CurrentValue string `json:"current_value"`
	HasBid       bool   `json:"has_bid"`
}

func (server *Server) getListingDetails(c *gin.Context) {
	listingID, err := listingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	listing, err := server.dbStore.GetListingByID(c, listingID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(ledger.ErrListingNotFound))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	snapshot, err := server.bidLedger.Snapshot(c, listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, listingDetailsResponse{
		Listing:      listing,
		CurrentValue: util.FormatBidValue(snapshot.Highest),
		HasBid:       snapshot.HasBid,
	})
}

// getLastBid reports the current highest bid of a listing. The placeholder
// text for a listing with no bids is part of the client contract.
func (server *Server) getLastBid(c *gin.Context) {
	listingID, err := listingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if _, err = server.dbStore.GetListingByID(c, listingID); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(ledger.ErrListingNotFound))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	highestBid, err := server.dbStore.GetHighestBid(c, listingID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"value": "No bids yet :)"})
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": util.FormatBidValue(highestBid.Value)})
}

func (server *Server) listListingBids(c *gin.Context) {
	listingID, err := listingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	bids, err := server.dbStore.ListBidsByListing(c, listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, bids)
}

func (server *Server) listListingComments(c *gin.Context) {
	listingID, err := listingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	comments, err := server.dbStore.ListCommentsByListing(c, listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, comments)
}
