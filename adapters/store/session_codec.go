package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

// SessionKey is the well-known key the current session is stored under.
const SessionKey = "auth_session"

func encodeSession(session *core.Session) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return data, nil
}

// decodeSession returns the stored session, or discard=true when the stored
// value is undecodable or expired and has to be removed.
func decodeSession(data []byte, now time.Time) (session *core.Session, discard bool) {
	session = &core.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, true
	}
	if session.Token == "" || session.User.WalletAddress == "" || session.Expired(now) {
		return nil, true
	}
	return session, false
}
