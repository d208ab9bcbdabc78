package notifications

import (
	"context"
	"fmt"
	"time"

	"sitefeed/internal/domain/storage"

	"github.com/9ssi7/exponent"
	"go.uber.org/zap"
)

// expo accepts at most this many recipients per message
const maxRecipients = 100

const asyncTimeout = 10 * time.Second

// SendUpdatePosted tells every registered device except the poster's that a new
// construction update is available for a section.
func SendUpdatePosted(ctx context.Context, push PushSender, store *storage.Container, posterID, sectionID, sectionName, title string) error {
	tokens, err := store.PushTokens.ListTokensExcept(ctx, posterID)
	if err != nil {
		return fmt.Errorf("list push tokens: %w", err)
	}
	tokens = dedupe(tokens)
	if len(tokens) == 0 {
		return nil
	}

	data := map[string]string{
		"type":       "update_posted",
		"section_id": sectionID,
		// in client we do router.push(`/${data.screen}`)
		"screen": fmt.Sprintf("updates/%s", sectionID),
	}

	var (
		msgs       []*exponent.Message
		recipients []string
	)
	for start := 0; start < len(tokens); start += maxRecipients {
		end := min(start+maxRecipients, len(tokens))
		to := make([]*exponent.Token, 0, end-start)
		for _, t := range tokens[start:end] {
			token := exponent.Token(t)
			to = append(to, &token)
			recipients = append(recipients, t)
		}
		msgs = append(msgs, &exponent.Message{
			To:    to,
			Title: fmt.Sprintf("New update on %s", sectionName),
			Body:  title,
			Data:  data,
		})
	}

	responses, err := push.Publish(ctx, msgs)
	if err != nil {
		return fmt.Errorf("publish push: %w", err)
	}

	if dead := unregisteredTokens(responses, recipients); len(dead) > 0 {
		if err := store.PushTokens.RemoveTokensByTokenList(ctx, dead); err != nil {
			return fmt.Errorf("remove unregistered push tokens: %w", err)
		}
	}
	return nil
}

// unregisteredTokens picks the tokens Expo rejected as DeviceNotRegistered.
// Expo returns one ticket per recipient in send order; the token is taken from
// the ticket details when present and from that order otherwise.
func unregisteredTokens(responses []*exponent.MessageResponse, recipients []string) []string {
	var dead []string
	for i, resp := range responses {
		if resp == nil || resp.Status != "error" {
			continue
		}
		if fmt.Sprint(resp.Details["error"]) != string(exponent.ErrorMsgDeviceNotRegistered) {
			continue
		}
		raw, ok := resp.Details["expoPushToken"]
		token := fmt.Sprint(raw)
		if !ok || token == "" {
			if len(responses) != len(recipients) {
				continue
			}
			token = recipients[i]
		}
		dead = append(dead, token)
	}
	return dedupe(dead)
}

// CallAsync runs fn in the background with its own timeout; push delivery
// never blocks or fails the request that triggered it.
func CallAsync(logger *zap.SugaredLogger, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Warnw("push notification failed", "error", err)
		}
	}()
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
