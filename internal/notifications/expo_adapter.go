package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// PushSender delivers a batch of Expo messages. Tests substitute a recorder.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
}

// ExpoAdapter is the production PushSender.
type ExpoAdapter struct {
	client *exponent.Client
}

// NewExpoAdapter builds a client authenticated with accessToken. An empty token
// talks to Expo without enhanced push security.
func NewExpoAdapter(accessToken string) *ExpoAdapter {
	if accessToken == "" {
		return &ExpoAdapter{client: exponent.NewClient()}
	}
	return &ExpoAdapter{client: exponent.NewClient(exponent.WithAccessToken(accessToken))}
}

func (a *ExpoAdapter) Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	return a.client.Publish(ctx, msgs)
}
