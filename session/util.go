package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// FromContext retrieves the identity previously attached with WithContext.
func FromContext(ctx context.Context) (*Identity, error) {
	v := ctx.Value(identityKey)
	if v == nil {
		return nil, errors.New("no identity in context")
	}
	u, ok := v.(*Identity)
	if !ok {
		return nil, errors.New("invalid identity type in context")
	}
	return u, nil
}

func computeHMAC(message string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

func validateHMAC(message, sig string, secret []byte) bool {
	expected := computeHMAC(message, secret)
	return hmac.Equal([]byte(sig), []byte(expected))
}

// SetIdentityCookie serializes the identity, signs it, and sets it as an HTTP
// cookie. The integration layer only reads identities; this is the write half
// for the login flow that owns them. SameSite=Lax so the cookie still rides
// the provider's top-level redirect back to the callback.
func SetIdentityCookie(w http.ResponseWriter, u *Identity, secret []byte) error {
	jsonData, err := json.Marshal(u)
	if err != nil {
		return err
	}
	value := base64.URLEncoding.EncodeToString(jsonData)
	sig := computeHMAC(value, secret)
	cookieValue := fmt.Sprintf("%s|%s", value, sig)
	var expires time.Time
	if u.ExpiresAt > 0 {
		expires = time.Unix(u.ExpiresAt, 0)
	}
	c := &http.Cookie{
		Name:     identityCookieName,
		Value:    cookieValue,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	if u.Domain != "" {
		c.Domain = u.Domain
	}
	http.SetCookie(w, c)
	return nil
}
