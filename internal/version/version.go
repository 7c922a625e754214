// In file: internal/version/version.go

// Package version centralizes the versioning for the engine's cached
// artifacts.
//
// By including these version strings in cache keys, stale entries are
// invalidated automatically whenever the underlying logic changes. For
// example, bumping Prompts after editing an agent prompt template means all
// cached responses produced by the old prompt stop matching and get
// regenerated.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComponentVersions holds the version strings for the logical parts of the
// engine whose output is cached. Manually increment a version here before
// deploying a change to that component.
var ComponentVersions = struct {
	// Feed should be updated whenever the trending source list, the
	// categorizer keywords, or the feed item shape changes.
	Feed string

	// Prompts should be updated whenever an agent prompt template or the
	// shorts rewriter's system prompt changes.
	Prompts string
}{
	Feed:    "v1.0",
	Prompts: "v1.0",
}

// GenerateVersionedCacheKey creates a consistent, version-aware key for a
// cached value. It combines a prefix, a hash of the input, and the current
// component versions, so changing either the input or any component version
// yields a fresh key.
//
// Example output: "feedcache:a1b2c3d4...:fv1.0_pv1.0"
func GenerateVersionedCacheKey(prefix, input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	inputHash := hex.EncodeToString(hasher.Sum(nil))

	versionString := fmt.Sprintf("f%s_p%s",
		ComponentVersions.Feed,
		ComponentVersions.Prompts,
	)

	return fmt.Sprintf("%s:%s:%s", prefix, inputHash, versionString)
}
