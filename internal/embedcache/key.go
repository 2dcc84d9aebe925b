package embedcache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// buildCacheKey returns the combined lookup key, the content hash and
// the normalized model name for one embedding request.
func buildCacheKey(modelName, taskType, text string) (string, string, string) {
	model := strings.TrimSpace(modelName)
	hash := sha256.Sum256([]byte(text))
	contentHash := hex.EncodeToString(hash[:])
	return model + "|" + taskType + "|" + contentHash, contentHash, model
}
