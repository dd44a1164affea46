// Package auth stores the backend bearer token in the system keyring.
package auth

import (
	"errors"
	"strings"

	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/key"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const user = "api-token"

// Origin tells where the token in use comes from.
type Origin string

const (
	OriginNone    Origin = ""
	OriginConfig  Origin = "config"
	OriginKeyring Origin = "keyring"
)

// SetToken persists the token in the system keyring.
func SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(constant.ReelFeed, user, token)
}

// DeleteToken removes the stored token. Deleting a missing token is not an error.
func DeleteToken() error {
	err := keyring.Delete(constant.ReelFeed, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Token returns the token to send, "" if there is none. The api.token setting
// (or REELFEED_API_TOKEN) overrides the keyring.
func Token() (string, error) {
	token, _, err := Resolve()
	return token, err
}

// Resolve is Token plus the origin of the token.
func Resolve() (string, Origin, error) {
	if token := strings.TrimSpace(viper.GetString(key.APIToken)); token != "" {
		return token, OriginConfig, nil
	}

	token, err := keyring.Get(constant.ReelFeed, user)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", OriginNone, nil
	case err != nil:
		return "", OriginNone, err
	}

	return token, OriginKeyring, nil
}

// Mask hides all but the last four characters.
func Mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
