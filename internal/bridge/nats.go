package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"party-relay/internal/game"
)

const subjectPrefix = "chat"

// Connect dials the chat feed broker. The connection keeps retrying in the
// background when the broker is not up yet.
func Connect(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("party-relay bridge"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("chat feed disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("chat feed reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect chat feed: %w", err)
	}
	return nc, nil
}

// Subject builds the subject a chat source publishes a room's records on.
func Subject(family game.Family, roomID string) string {
	return subjectPrefix + "." + string(family) + "." + roomID
}

// ParseSubject reads chat.<family>.<roomId>.
func ParseSubject(subject string) (game.Family, string, bool) {
	parts := strings.SplitN(subject, ".", 3)
	if len(parts) != 3 || parts[0] != subjectPrefix || parts[2] == "" {
		return "", "", false
	}
	family, ok := game.ParseFamily(parts[1])
	if !ok {
		return "", "", false
	}
	return family, parts[2], true
}

// DecodeMessages accepts a single record or a JSON array of records.
func DecodeMessages(data []byte) ([]Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var batch []Message
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, err
		}
		return batch, nil
	}
	var msg Message
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return nil, err
	}
	return []Message{msg}, nil
}

func (b *Bridge) HandleMsg(msg *nats.Msg) {
	family, roomID, ok := ParseSubject(msg.Subject)
	if !ok {
		log.Debug().Str("subject", msg.Subject).Msg("chat feed subject ignored")
		return
	}
	messages, err := DecodeMessages(msg.Data)
	if err != nil {
		log.Warn().Err(err).Str("subject", msg.Subject).Msg("chat feed decode failed")
		return
	}
	b.Feed(family, roomID, messages)
}

func (b *Bridge) Subscribe(nc *nats.Conn, subject string) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(subject, b.HandleMsg)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	log.Info().Str("subject", subject).Msg("chat feed subscribed")
	return sub, nil
}
