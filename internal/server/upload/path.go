package upload

import (
	"fmt"
	"time"

	"github.com/figurevault/figurevault/internal/utils"
)

const shortIDLength = 6

// GeneratePath returns `<epoch-millis>_<short-id>.<ext>`. Uniqueness relies on
// the millisecond timestamp plus the random suffix, the store is not consulted.
func GeneratePath(contentType string, now time.Time) string {
	return fmt.Sprintf("%d_%s.%s", now.UnixMilli(), utils.ShortID(shortIDLength), utils.ExtensionFor(contentType))
}
