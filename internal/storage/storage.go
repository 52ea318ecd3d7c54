package storage

import "swapEngine/internal/model"

// Storage defines a sink for engine events.
type Storage interface {
	PutEventBatch(events []model.EngineEvent) error
}
