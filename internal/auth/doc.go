// Package auth guards the write endpoints of the inventory API.
//
// Authentication is optional. When AUTH_API_TOKEN_HASH holds a bcrypt hash,
// POST, PUT and DELETE requests must carry a matching bearer token:
//
//	Authorization: Bearer <token>
//
// Generate a hash with the CLI:
//
//	bookstock hash-token -token <token>
//
// Failed attempts are throttled per client IP by RateLimiter.
package auth
