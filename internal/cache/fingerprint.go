package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
)

// Fingerprint derives the cache key for one generation. Two requests that
// would produce identical provider calls map to the same key: variables are
// the merged map (defaults included), sorted so map iteration order cannot
// split the key space.
func Fingerprint(templateName string, variables map[string]string, temperature float64, maxTokens int) string {
	keys := make([]string, 0, len(variables))
	for k := range variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	fmt.Fprintf(h, "template=%s\n", templateName)
	for _, k := range keys {
		// Length prefixes keep key/value boundaries unambiguous.
		fmt.Fprintf(h, "var:%d:%s=%d:%s\n", len(k), k, len(variables[k]), variables[k])
	}
	fmt.Fprintf(h, "temperature=%s\n", strconv.FormatFloat(temperature, 'f', -1, 64))
	fmt.Fprintf(h, "max_tokens=%d\n", maxTokens)
	return hex.EncodeToString(h.Sum(nil))
}
