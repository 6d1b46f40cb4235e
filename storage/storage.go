// Package storage hands finished rasters off for persistence. The engine
// never assumes anything about a saved image beyond the returned handle;
// cloud backends can replace Local behind the same interface.
package storage

import "image"

// Storage persists rendered images and makes them reachable.
type Storage interface {
	// Save encodes img and returns a local handle (a file path) for it.
	// name is a hint for the stored object's base name.
	Save(img image.Image, name string) (string, error)

	// Publish makes a previously saved image publicly reachable and
	// returns its URL.
	Publish(localPath string) (string, error)
}
