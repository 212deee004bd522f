package main

import (
	"log"
	"net/http"
	"time"

	"memories/auth"
	"memories/config"
	"memories/db"
	"memories/events"
	"memories/handlers"
	"memories/models"
	"memories/search"
	"memories/storage"
	"memories/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 30 * 86400 // 30 days
)

func main() {
	db.Init()
	models.Init()
	storage.Init()
	search.Init()
	events.Init()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", auth.IdentityHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		// Image downloads live under /posts/ and are already compressed
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/posts/"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	authRouter := &auth.Router{Base: router}
	// Memory handlers
	authRouter.POST("/groups/:groupId/memories", handlers.MemoryCreate)
	authRouter.GET("/groups/:groupId/memories", handlers.MemoryList)
	authRouter.GET("/memories/:memoryId", handlers.MemoryGet)
	// Activity feed handlers
	authRouter.GET("/memories/:memoryId/activities", handlers.ActivityList)
	authRouter.POST("/memories/:memoryId/activities/comments", handlers.CommentCreate)
	// Post handlers
	authRouter.POST("/memories/:memoryId/posts", handlers.PostCreate)
	authRouter.GET("/memories/:memoryId/posts", handlers.PostList)
	authRouter.GET("/posts/:postId", handlers.PostGet)
	authRouter.PUT("/posts/:postId", handlers.PostUpdate)
	authRouter.DELETE("/posts/:postId", handlers.PostDelete)
	authRouter.GET("/posts/:postId/images/:fileId", handlers.PostImage)
	authRouter.POST("/posts/:postId/reactions", handlers.PostReactionAdd)
	authRouter.DELETE("/posts/:postId/reactions", handlers.PostReactionRemove)
	// Comment handlers
	authRouter.PUT("/comments/:commentId", handlers.CommentUpdate)
	authRouter.DELETE("/comments/:commentId", handlers.CommentDelete)
	authRouter.POST("/comments/:commentId/reactions", handlers.CommentReactionAdd)
	authRouter.DELETE("/comments/:commentId/reactions", handlers.CommentReactionRemove)
	// Search handlers
	authRouter.GET("/groups/:groupId/search/memories", handlers.SearchMemories)
	// Session handlers
	router.POST("/auth/logout", func(c *gin.Context) {
		auth.LoadSession(c).Logout()
		c.JSON(http.StatusOK, handlers.OKResponse)
	})

	err := router.Run(config.BIND_ADDRESS)
	// log.Fatalf exits without running deferred calls, so drain first
	events.Close()
	log.Fatalf("Server stopped: %v", err)
}
