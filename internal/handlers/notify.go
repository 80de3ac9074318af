package handlers

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// userFCMTokens returns all registered device tokens for a user.
// Lookup failures are logged and swallowed: push delivery is best
// effort and never fails the request that triggered it.
func userFCMTokens(db *sqlx.DB, userID string) []string {
	tokens := []string{}
	err := db.Select(&tokens, "SELECT token FROM fcm_tokens WHERE user_id = $1", userID)
	if err != nil {
		log.Printf("⚠️ Failed to fetch FCM tokens for user %s: %v", userID, err)
		return nil
	}
	return tokens
}
