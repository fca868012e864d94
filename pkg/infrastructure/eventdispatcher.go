package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/coreidentity/iamcore/pkg/domain"
)

// WatermillEventDispatcher is the in-process notification path described on
// domain.EventDispatcher: a best-effort fan-out to in-memory
// subscribers (audit hooks, cache invalidation, webhooks), distinct from the
// durable, ordered path ProjectionManager drives by tailing
// EventStore.ReadSince. Because gochannel.GoChannel is non-persistent and
// never leaves this process, envelopes are kept in a local table keyed by
// event ID rather than round-tripped through JSON.
type WatermillEventDispatcher struct {
	pubSub     *gochannel.GoChannel
	logger     watermill.LoggerAdapter
	handlers   map[string][]domain.EventHandler
	handlersMu sync.RWMutex
	envelopes  sync.Map // eventID string -> domain.Envelope
	router     *message.Router
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWatermillEventDispatcher creates an in-process event dispatcher.
func NewWatermillEventDispatcher(logger watermill.LoggerAdapter) (*WatermillEventDispatcher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 64,
			Persistent:          false,
		},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create message router: %w", err)
	}

	return &WatermillEventDispatcher{
		pubSub:   pubSub,
		logger:   logger,
		handlers: make(map[string][]domain.EventHandler),
		router:   router,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start runs the router. Must be called before any Dispatch reaches a
// subscribed handler.
func (d *WatermillEventDispatcher) Start() error {
	go func() {
		if err := d.router.Run(d.ctx); err != nil {
			d.logger.Error("router stopped with error", err, nil)
		}
	}()
	return nil
}

// Dispatch fans every envelope out to its registered handlers.
func (d *WatermillEventDispatcher) Dispatch(ctx context.Context, envelopes []domain.Envelope) error {
	for _, envelope := range envelopes {
		if err := d.dispatchSingle(ctx, envelope); err != nil {
			return fmt.Errorf("dispatch event %s: %w", envelope.EventID(), err)
		}
	}
	return nil
}

func (d *WatermillEventDispatcher) dispatchSingle(ctx context.Context, envelope domain.Envelope) error {
	eventType := envelope.Event().EventType()

	d.handlersMu.RLock()
	handlers := d.handlers[eventType]
	d.handlersMu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	d.envelopes.Store(envelope.EventID(), envelope)
	msg := message.NewMessage(envelope.EventID(), []byte(envelope.EventID()))
	msg.Metadata.Set("event_type", eventType)

	for i := range handlers {
		topic := handlerTopic(eventType, i)
		if err := d.pubSub.Publish(topic, msg); err != nil {
			return fmt.Errorf("publish to handler topic %s: %w", topic, err)
		}
	}
	return nil
}

// Subscribe registers handler for eventType, wiring it to its own topic on
// the underlying router so each handler receives every matching event.
func (d *WatermillEventDispatcher) Subscribe(eventType string, handler domain.EventHandler) error {
	d.handlersMu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	index := len(d.handlers[eventType]) - 1
	d.handlersMu.Unlock()

	topic := handlerTopic(eventType, index)
	d.router.AddNoPublisherHandler(
		topic,
		topic,
		d.pubSub,
		func(msg *message.Message) error {
			return d.handleMessage(msg, handler)
		},
	)
	return nil
}

func (d *WatermillEventDispatcher) handleMessage(msg *message.Message, handler domain.EventHandler) error {
	eventID := string(msg.Payload)
	value, ok := d.envelopes.Load(eventID)
	if !ok {
		return fmt.Errorf("no envelope retained for event %s", eventID)
	}
	envelope := value.(domain.Envelope)
	d.envelopes.Delete(eventID)

	if err := handler.Handle(context.Background(), envelope); err != nil {
		return fmt.Errorf("event handler failed: %w", err)
	}
	return nil
}

// Close shuts down the router and underlying pub/sub.
func (d *WatermillEventDispatcher) Close() error {
	d.cancel()
	return d.router.Close()
}

// GetHandlers returns the registered handlers for eventType, for tests.
func (d *WatermillEventDispatcher) GetHandlers(eventType string) []domain.EventHandler {
	d.handlersMu.RLock()
	defer d.handlersMu.RUnlock()

	handlers := make([]domain.EventHandler, len(d.handlers[eventType]))
	copy(handlers, d.handlers[eventType])
	return handlers
}

func handlerTopic(eventType string, index int) string {
	return fmt.Sprintf("%s_handler_%d", eventType, index)
}
