package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SafeFileName strips directories and anything that is not safe in an
// object key. An empty result becomes "file".
func SafeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeKeyChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "file"
	}
	return name
}

// ObjectKey prefixes the file name with the upload time in milliseconds and
// a short random tag, so two uploads of the same file in the same
// millisecond still get distinct keys. prefix may be empty.
func ObjectKey(prefix, fileName string, at time.Time) string {
	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	key := fmt.Sprintf("%d-%s-%s", at.UnixMilli(), tag, SafeFileName(fileName))
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
