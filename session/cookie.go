package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// IdentityFromCookie reads and verifies the identity cookie
func IdentityFromCookie(r *http.Request, secret []byte) (*Identity, error) {
	c, err := r.Cookie(identityCookieName)
	if err != nil {
		return nil, err
	}
	return decode(c, secret)
}

func decode(c *http.Cookie, secret []byte) (*Identity, error) {
	parts := strings.Split(c.Value, "|")
	if len(parts) != 2 {
		return nil, errors.New("invalid identity cookie format")
	}
	value, sig := parts[0], parts[1]
	if !validateHMAC(value, sig, secret) {
		return nil, errors.New("invalid identity signature")
	}
	jsonData, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}
	var u Identity
	if err := json.Unmarshal(jsonData, &u); err != nil {
		return nil, err
	}
	if time.Now().Unix() > u.ExpiresAt {
		return nil, errors.New("identity expired")
	}
	return &u, nil
}
