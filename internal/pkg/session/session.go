package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/eventpix/eventpix/internal/pkg/cache"
	"github.com/eventpix/eventpix/internal/pkg/env"
)

// Session key for the authenticated user's numeric id.
const KeyUserID = "user_id"

var sessionStore *session.Store

// NewSessionStore creates the cookie-session store: signed session id in an
// httpOnly, SameSite=Lax cookie with a 30-day lifetime, Secure outside dev.
// Session payloads live in Redis database 1 (cache uses DB 0).
func NewSessionStore() *session.Store {
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})

	sessionStore = session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     30 * 24 * time.Hour,
		KeyLookup:      "cookie:session_id",
	})

	return sessionStore
}

// NewMemoryStore creates a session store on Fiber's in-memory storage. Used
// by tests; production always goes through NewSessionStore.
func NewMemoryStore() *session.Store {
	sessionStore = session.New(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     30 * 24 * time.Hour,
		KeyLookup:      "cookie:session_id",
	})
	return sessionStore
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// UserID returns the authenticated user's id from the request session, or 0
// when no identity is present.
func UserID(c *fiber.Ctx) uint {
	if sessionStore == nil {
		return 0
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return 0
	}
	if v, ok := sess.Get(KeyUserID).(uint); ok {
		return v
	}
	return 0
}

// Login stores the user id in a fresh session.
func Login(c *fiber.Ctx, userID uint) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(KeyUserID, userID)
	return sess.Save()
}

// Logout destroys the session.
func Logout(c *fiber.Ctx) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return sess.Destroy()
}
