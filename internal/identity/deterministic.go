package identity

import (
	"strings"
	"time"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const slotLayout = "2006-01-02T15:04"

// UUID derives a deterministic UUID from a stable key using go-hashid.
// Keys are prefixed by kind so different entities never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RunUUID identifies the trigger run for a scheduled slot. Every attempt at
// the same slot shares the id.
func RunUUID(slot time.Time) uuid.UUID {
	return UUID("postcast:trigger_run:" + slot.UTC().Format(slotLayout))
}

// RunID is the string form of RunUUID.
func RunID(slot time.Time) string {
	return RunUUID(slot).String()
}
