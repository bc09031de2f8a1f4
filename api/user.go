package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/util"
	"github.com/katatrina/auctsite-BE/internal/validator"
)

type userResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	AvatarURL   *string   `json:"avatar_url"`
	UnreadCount int64     `json:"unread_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func newUserResponse(user db.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Username:    user.Username,
		AvatarURL:   user.AvatarURL,
		UnreadCount: user.UnreadCount,
		CreatedAt:   user.CreatedAt,
	}
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (server *Server) createUser(c *gin.Context) {
	req := new(createUserRequest)

	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if err := validator.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	user, err := server.dbStore.CreateUser(c, db.CreateUserParams{
		Username:       req.Username,
		HashedPassword: hashedPassword,
	})
	if err != nil {
		errCode, constraintName := db.ErrorDescription(err)
		if errCode == db.UniqueViolationCode && constraintName == db.UniqueUsernameConstraint {
			c.JSON(http.StatusConflict, errorResponse(ErrUsernameTaken))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (server *Server) getCurrentUser(c *gin.Context) {
	userID, err := authenticatedUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	user, err := server.dbStore.GetUserByID(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (server *Server) listUserBids(c *gin.Context) {
	userID, err := authenticatedUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	bids, err := server.dbStore.ListBidsByBidder(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, bids)
}
