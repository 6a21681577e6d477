package backup

import (
	"path"
	"strings"
	"time"
)

// StampLayout names each backup folder. Stamps sort chronologically.
const StampLayout = "20060102T150405Z"

// Object names inside a backup folder.
const (
	SnapshotObject = "snapshot.json"
	ManifestObject = "manifest.json"
	filesFolder    = "files"
)

// Manifest describes one backup. It is written last, so a folder without a
// manifest is an interrupted backup.
type Manifest struct {
	Stamp     string    `json:"stamp"`
	CreatedAt time.Time `json:"created_at"`
	Dormitory string    `json:"dormitory,omitempty"`
	Rooms     int       `json:"rooms"`
	Dormers   int       `json:"dormers"`
	Payments  int       `json:"payments"`
	Objects   []Object  `json:"objects"`
}

// Object is one uploaded object of a backup.
type Object struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// objectKey joins the prefix, stamp and name into an object key.
func objectKey(prefix, stamp string, name ...string) string {
	parts := append([]string{strings.Trim(prefix, "/"), stamp}, name...)
	return strings.TrimPrefix(path.Join(parts...), "/")
}

// folder returns the listing prefix for the backups root or one stamp.
func folder(prefix string, stamp ...string) string {
	p := objectKey(prefix, path.Join(stamp...))
	if p == "" {
		return ""
	}
	return p + "/"
}

// parseStamp extracts the stamp from a listed folder key.
func parseStamp(root, key string) (string, bool) {
	stamp := strings.Trim(strings.TrimPrefix(key, root), "/")
	if strings.Contains(stamp, "/") {
		return "", false
	}
	if _, err := time.Parse(StampLayout, stamp); err != nil {
		return "", false
	}
	return stamp, true
}
