package api

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/katatrina/auctsite-BE/internal/chat"
	db "github.com/katatrina/auctsite-BE/internal/db/sqlc"
	"github.com/katatrina/auctsite-BE/internal/event"
	"github.com/katatrina/auctsite-BE/internal/ledger"
	"github.com/katatrina/auctsite-BE/internal/token"
	"github.com/katatrina/auctsite-BE/internal/util"
	"github.com/katatrina/auctsite-BE/internal/worker"
	"github.com/rs/zerolog/log"
)

type Server struct {
	router          *gin.Engine
	dbStore         db.Store
	tokenMaker      token.Maker
	config          *util.Config
	eventSender     event.EventSender
	bidLedger       *ledger.Ledger
	controller      *ledger.Controller
	relay           *chat.Relay
	taskDistributor worker.TaskDistributor
	upgrader        websocket.Upgrader
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(
	store db.Store,
	config *util.Config,
	eventSender event.EventSender,
	bidLedger *ledger.Ledger,
	controller *ledger.Controller,
	relay *chat.Relay,
	taskDistributor worker.TaskDistributor,
) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	log.Info().Msg("Token maker created successfully ✅")

	// Browser websocket clients cannot set custom headers, so origins are
	// checked against the same allow-list CORS uses.
	allowedOrigins := make(map[string]bool, len(config.AllowedOrigins))
	for _, origin := range config.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	server := &Server{
		dbStore:         store,
		tokenMaker:      tokenMaker,
		config:          config,
		eventSender:     eventSender,
		bidLedger:       bidLedger,
		controller:      controller,
		relay:           relay,
		taskDistributor: taskDistributor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowedOrigins[r.Header.Get("Origin")]
			},
		},
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	gin.ForceConsoleColor()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := router.Group("/v1")

	v1.POST("/tokens/verify", server.verifyAccessToken)

	v1.POST("/auth/login", server.loginUser)

	userGroup := v1.Group("/users")
	{
		userGroup.POST("", server.createUser)

		userGroup.Use(authMiddleware(server.tokenMaker))
		userGroup.GET("/me", server.getCurrentUser)
		userGroup.GET("/me/bids", server.listUserBids)
	}

	listingGroup := v1.Group("/listings")
	{
		listingGroup.GET("", server.listListings)
		listingGroup.GET(":listingID", server.getListingDetails)
		listingGroup.GET(":listingID/last_bid", server.getLastBid)
		listingGroup.GET(":listingID/bids", server.listListingBids)
		listingGroup.GET(":listingID/comments", server.listListingComments)

		listingGroup.POST("", authMiddleware(server.tokenMaker), server.createListing)
	}

	// Websocket endpoints authenticate through a token query parameter.
	router.GET("/ws/listings/:listingID", server.serveListingSocket)
	router.GET("/ws/inbox", server.serveInboxSocket)

	server.router = router
	return router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}
