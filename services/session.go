package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableorder-telegram/api"
)

// ErrNoToken means the customer arrived without a session token; the
// ordering flow must not start.
var ErrNoToken = errors.New("no session token")

// SessionResolver maps the opaque QR token to a table number. A failed
// lookup is terminal for the session; the customer has to re-scan the code.
type SessionResolver struct {
	client *api.Client
}

func NewSessionResolver(client *api.Client) *SessionResolver {
	return &SessionResolver{client: client}
}

func (r *SessionResolver) Resolve(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	sess, err := r.client.SessionInfo(ctx, token)
	if err != nil {
		return "", fmt.Errorf("session lookup: %w", err)
	}
	if sess.TableNumber == "" {
		return "", errors.New("session has no table number")
	}
	return sess.TableNumber, nil
}
