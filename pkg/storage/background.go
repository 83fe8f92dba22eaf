package storage

import (
	"log"
	"runtime"
	"time"
)

// GetMemoryStats returns current memory usage statistics
func (se *StorageEngine) GetMemoryStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	se.mu.RLock()
	collections := len(se.collections)
	se.mu.RUnlock()

	return map[string]interface{}{
		"alloc_mb":       m.Alloc / 1024 / 1024,
		"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
		"sys_mb":         m.Sys / 1024 / 1024,
		"num_goroutines": runtime.NumGoroutine(),
		"collections":    collections,
	}
}

// StartBackgroundWorkers starts the background save worker when background
// saving and a data file are both configured.
func (se *StorageEngine) StartBackgroundWorkers() {
	if !se.backgroundSave || se.dataFile == "" {
		return
	}

	se.backgroundWg.Add(1)
	go func() {
		defer se.backgroundWg.Done()
		ticker := time.NewTicker(se.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				se.saveDirtyCollections()
			case <-se.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops background workers
func (se *StorageEngine) StopBackgroundWorkers() {
	se.stopOnce.Do(func() {
		close(se.stopChan)
	})
	se.backgroundWg.Wait()
}

// Close stops background workers and writes a final snapshot when a data
// file is configured.
func (se *StorageEngine) Close() error {
	se.StopBackgroundWorkers()
	if se.dataFile == "" {
		return nil
	}
	if len(se.dirtyCollections()) == 0 {
		return nil
	}
	if err := se.SaveToFile(se.dataFile); err != nil {
		return err
	}
	log.Printf("INFO: Saved data to %s", se.dataFile)
	return nil
}
