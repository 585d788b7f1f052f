// Package middleware contains reusable HTTP middleware: scorekeeper
// device identity, the Redis response cache and the Redis token-bucket
// rate limiter.
package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// deviceIDKey is the context key the identity middleware stores the
// resolved device identifier under.
const deviceIDKey = "device_id"

// DeviceIdentity resolves which scorekeeper device a request came from
// and stores it in the context for handlers and the rate limiter.
// Token issuance lives in the club's auth service; this middleware
// only attributes writes, it does not gate them.  Resolution order:
//
//  1. A Bearer token signed with secret: the "sub" or "device_id"
//     claim wins.  A malformed or badly signed token is ignored rather
//     than rejected: score entry must keep working when the auth
//     service is unreachable and devices fall back to plain headers.
//  2. The X-Device-ID header.
//  3. "anonymous".
func DeviceIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(deviceIDKey, resolveDeviceID(c, secret))
			return next(c)
		}
	}
}

func resolveDeviceID(c echo.Context, secret string) string {
	if secret != "" {
		auth := c.Request().Header.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			raw := strings.TrimPrefix(auth, "Bearer ")
			if id := deviceFromToken(raw, secret); id != "" {
				return id
			}
		}
	}
	if id := c.Request().Header.Get("X-Device-ID"); id != "" {
		return id
	}
	return "anonymous"
}

// deviceFromToken parses an HS256 scorekeeper token and extracts the
// device identifier claim.  Returns "" for anything unparseable.
func deviceFromToken(raw, secret string) string {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return ""
	}
	cl, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	if v, ok := cl["device_id"].(string); ok && v != "" {
		return v
	}
	if v, ok := cl["sub"].(string); ok && v != "" {
		return v
	}
	return ""
}

// currentDeviceID returns the device identifier resolved by
// DeviceIdentity, or "anonymous" when the middleware did not run.
func currentDeviceID(c echo.Context) string {
	if v, ok := c.Get(deviceIDKey).(string); ok && v != "" {
		return v
	}
	return "anonymous"
}

// DeviceID exposes the resolved device identifier to handlers.
func DeviceID(c echo.Context) string { return currentDeviceID(c) }
