package storage

import "time"

type StorageOption func(*StorageEngine)

// WithDataFile sets the snapshot file used by SaveToFile, LoadFromFile and
// the background saver.
func WithDataFile(path string) StorageOption {
	return func(engine *StorageEngine) {
		engine.dataFile = path
	}
}

// WithBackgroundSave saves dirty collections to the data file every interval.
func WithBackgroundSave(interval time.Duration) StorageOption {
	return func(engine *StorageEngine) {
		engine.backgroundSave = interval > 0
		engine.saveInterval = interval
	}
}

// WithIDGenerator replaces the UUID v7 identifier generator.
func WithIDGenerator(fn func() string) StorageOption {
	return func(engine *StorageEngine) {
		engine.newID = fn
	}
}
