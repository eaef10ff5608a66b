package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PriceTableCache returns cache middleware for the gold price table. Prices
// change a handful of times a day, so a short public cache is safe and keeps
// the counter screens from hammering the table.
func PriceTableCache() fiber.Handler {
	return CacheControl(5 * time.Minute)
}

// CacheControl sets cache headers on successful GET responses
func CacheControl(maxAge time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() == "GET" && c.Response().StatusCode() == 200 {
			c.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
		}

		return err
	}
}

// NoCacheHeaders sets no-cache headers
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")
		return c.Next()
	}
}
