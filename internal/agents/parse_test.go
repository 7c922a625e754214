// In file: internal/agents/parse_test.go
package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPlatformSections(t *testing.T) {
	output := `Here are your 8 pieces:

[TWITTER]
tweet one
---
tweet two

[LINKEDIN]
A thoughtful post.

What do you think?

[YOUTUBE SHORTS]
Hook line [PAUSE] then the payoff.

[UNKNOWN LABEL]
dropped

[BLUESKY]
post one
`
	sections := SplitPlatformSections(output)
	require.Len(t, sections, 4)
	assert.Equal(t, "tweet one\n---\ntweet two", sections["twitter"])
	assert.Equal(t, "A thoughtful post.\n\nWhat do you think?", sections["linkedin"])
	assert.Equal(t, "Hook line [PAUSE] then the payoff.\n\n[UNKNOWN LABEL]\ndropped", sections["youtube_shorts"])
	assert.Equal(t, "post one", sections["bluesky"])
}

func TestSplitPlatformSections_EmptyAndUnlabeled(t *testing.T) {
	assert.Empty(t, SplitPlatformSections(""))
	assert.Empty(t, SplitPlatformSections("no labels here at all"))

	// An empty section is not kept.
	sections := SplitPlatformSections("[TWITTER]\n\n[REDDIT]\nbody")
	assert.NotContains(t, sections, "twitter")
	assert.Equal(t, "body", sections["reddit"])
}

func TestPlatformContent_TelegramFallsBack(t *testing.T) {
	sections := map[string]string{"linkedin": "li post", "twitter": "tweet"}

	content, ok := PlatformContent(sections, "telegram")
	require.True(t, ok)
	assert.Equal(t, "li post", content)

	content, ok = PlatformContent(map[string]string{"reddit": "thread"}, "telegram")
	require.True(t, ok)
	assert.Equal(t, "thread", content)

	_, ok = PlatformContent(map[string]string{}, "telegram")
	assert.False(t, ok)

	_, ok = PlatformContent(sections, "email")
	assert.False(t, ok)
}
