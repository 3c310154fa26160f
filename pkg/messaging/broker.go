package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var ErrBrokerClosed = errors.New("broker is closed")

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// LogBroker is the broker used when no Redis URL is configured. Every
// published message is written to the log and fanned out to in-process
// subscribers of the same channel.
type LogBroker struct {
	logger *zerolog.Logger

	mu     sync.RWMutex
	closed bool
	subs   map[string][]chan []byte
}

func NewLogBroker(logger *zerolog.Logger) *LogBroker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &LogBroker{
		logger: logger,
		subs:   make(map[string][]chan []byte),
	}
}

func (b *LogBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBrokerClosed
	}

	b.logger.Info().
		Str("channel", channel).
		RawJSON("message", payload).
		Msg("event published")

	for _, ch := range b.subs[channel] {
		select {
		case ch <- payload:
		case <-ctx.Done():
			return ctx.Err()
		default:
			b.logger.Warn().Str("channel", channel).Msg("subscriber buffer full, message dropped")
		}
	}
	return nil
}

// Subscribe returns a channel that receives messages until ctx is done or
// the broker is closed.
func (b *LogBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrokerClosed
	}

	ch := make(chan []byte, 100)
	b.subs[channel] = append(b.subs[channel], ch)

	go func() {
		<-ctx.Done()
		b.unsubscribe(channel, ch)
	}()

	return ch, nil
}

func (b *LogBroker) unsubscribe(channel string, ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[channel]
	for i, c := range subs {
		if c == ch {
			b.subs[channel] = append(subs[:i:i], subs[i+1:]...)
			close(ch)
			return
		}
	}
}

func (b *LogBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for channel, subs := range b.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subs, channel)
	}
	return nil
}
