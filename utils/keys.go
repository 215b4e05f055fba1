package utils

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

// ArchiveKey builds the object key for a room's standings snapshot, e.g.
// rooms/spring-slam-2f1c.../standings-1700000000.json
func ArchiveKey(roomName, roomID string, at time.Time) string {
	prefix := slug.Make(roomName)
	if prefix == "" {
		prefix = "room"
	}
	return fmt.Sprintf("rooms/%s-%s/standings-%d.json", prefix, roomID, at.Unix())
}
