package server

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"party-relay/internal/bridge"
	"party-relay/internal/config"
	"party-relay/internal/db"
	"party-relay/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Server struct {
	elimination *game.Registry[game.EliminationRoom]
	teams       *game.Registry[game.TeamRoom]
	db          *gorm.DB
	ws          *wsHub
	cfg         config.Config
	content     game.Content
	rng         *rand.Rand
	bridge      *bridge.Bridge

	countdownsMu sync.Mutex
	countdowns   map[string]*countdown

	journalMu sync.Mutex
	roomDBIDs map[string]uint
}

// New builds a server around an optional database. Content pools stored in
// the database replace the built-in ones pool by pool.
func New(conn *gorm.DB, cfg config.Config) (*Server, error) {
	registerValidators()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	content, err := loadContent(conn)
	if err != nil {
		return nil, err
	}
	s := &Server{
		elimination: game.NewRegistry(game.CloneEliminationRoom),
		teams:       game.NewRegistry(game.CloneTeamRoom),
		db:          conn,
		ws:          newWSHub(),
		cfg:         cfg,
		content:     content,
		rng:         rand.New(&lockedSource{src: rand.NewPCG(rand.Uint64(), rand.Uint64())}),
		countdowns:  make(map[string]*countdown),
		roomDBIDs:   make(map[string]uint),
	}
	s.bridge, err = bridge.New(cfg.TriggerPhrase, cfg.BridgeCacheSize, s.dispatchBridge)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func loadContent(conn *gorm.DB) (game.Content, error) {
	stored, err := db.LoadContent(conn)
	if err != nil {
		return game.Content{}, fmt.Errorf("load content: %w", err)
	}
	content := stored.Merge(game.DefaultContent())
	if err := content.Validate(); err != nil {
		return game.Content{}, fmt.Errorf("content pools: %w", err)
	}
	return content, nil
}

func (s *Server) Bridge() *bridge.Bridge {
	return s.bridge
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/", s.handleHome)
	router.GET("/play/:family/:roomId", s.handlePlayView)
	router.GET("/ws", s.handleWebsocket)

	api := router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/rooms", s.handleListRooms)
	api.GET("/rooms/:family/:roomId", s.handleGetRoom)
	api.GET("/rooms/:family/:roomId/qr.png", s.handleRoomQR)
	api.POST("/events/:event", s.handlePostEvent)
	api.POST("/bridge/:family/:roomId", s.handleBridgeFeed)
	return router
}

// Close stops every running countdown.
func (s *Server) Close() {
	s.countdownsMu.Lock()
	defer s.countdownsMu.Unlock()
	for key, cd := range s.countdowns {
		cd.cancel()
		delete(s.countdowns, key)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}

// lockedSource lets a single *rand.Rand be shared by both registries.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (l *lockedSource) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uint64()
}

var errNoConnection = errors.New("event needs a websocket connection")
