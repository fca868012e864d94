package application

import (
	"context"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// commandBus implements CommandBus with unified handler support.
type commandBus struct {
	handlers map[string]Handler[Command, struct{}]
}

// NewCommandBus creates a new command bus instance.
func NewCommandBus() CommandBus {
	return &commandBus{
		handlers: make(map[string]Handler[Command, struct{}]),
	}
}

// Handle routes cmd to its registered handler, wrapping it in Payload.
func (b *commandBus) Handle(ctx context.Context, logger domain.Logger, cmd Command) error {
	handlerFunc, exists := b.handlers[cmd.CommandType()]
	if !exists {
		return NewHandlerNotFoundError(cmd.CommandType(), "command")
	}

	payload := Payload[Command]{
		Data:     cmd,
		Metadata: make(map[string]any),
	}

	response, err := handlerFunc(ctx, logger, payload)
	if err != nil {
		return err
	}
	if response.Error != nil {
		return response.Error
	}
	return nil
}

// Register associates a command type with its handler, applying middleware
// in the order provided so the first middleware runs outermost.
func (b *commandBus) Register(cmdType string, handler Handler[Command, struct{}], middleware ...Middleware[Command, struct{}]) {
	handlerFunc := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		handlerFunc = middleware[i](handlerFunc)
	}
	b.handlers[cmdType] = handlerFunc
}

// queryBus implements QueryBus with unified handler support.
type queryBus struct {
	handlers map[string]Handler[Query, any]
}

// NewQueryBus creates a new query bus instance.
func NewQueryBus() QueryBus {
	return &queryBus{
		handlers: make(map[string]Handler[Query, any]),
	}
}

// Handle routes query to its registered handler, wrapping it in Payload.
func (q *queryBus) Handle(ctx context.Context, logger domain.Logger, query Query) (any, error) {
	handlerFunc, exists := q.handlers[query.QueryType()]
	if !exists {
		return nil, NewHandlerNotFoundError(query.QueryType(), "query")
	}

	payload := Payload[Query]{
		Data:     query,
		Metadata: make(map[string]any),
	}

	response, err := handlerFunc(ctx, logger, payload)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, response.Error
	}
	return response.Data, nil
}

// Register associates a query type with its handler, applying middleware
// in the order provided so the first middleware runs outermost.
func (q *queryBus) Register(queryType string, handler Handler[Query, any], middleware ...Middleware[Query, any]) {
	handlerFunc := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		handlerFunc = middleware[i](handlerFunc)
	}
	q.handlers[queryType] = handlerFunc
}
