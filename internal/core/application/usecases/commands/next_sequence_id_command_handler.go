package commands

import (
	"context"

	"catering/internal/core/application/services"
)

type NextSequenceIDCommandHandler struct {
	allocator *services.SequenceAllocator
}

func NewNextSequenceIDCommandHandler(allocator *services.SequenceAllocator) NextSequenceIDCommandHandler {
	return NextSequenceIDCommandHandler{allocator: allocator}
}

func (h NextSequenceIDCommandHandler) Handle(ctx context.Context, cmd NextSequenceIDCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}
	return h.allocator.Next(ctx, cmd.CounterName())
}
