package dispatcher_test

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/contentfix/internal/dispatcher"
	"github.com/calvinalkan/contentfix/internal/rules"
)

func testRules() *rules.Rules {
	return rules.Default()
}

func defaults() dispatcher.Defaults {
	return dispatcher.DefaultsFromRules(testRules())
}

// messy exercises tabs, trailing spaces, CRLF, duplicated items, missing
// fields, blank padding and a preamble.
const messy = "# Dispatcher index\r\n" +
	"\r\n" +
	"\r\n" +
	"module_id: core_starting_hands   \r\n" +
	"short_scope: Opening ranges by position\r\n" +
	"spotkind_allowlist:\r\n" +
	"\tl2_core_rules_check\r\n" +
	"  l2_core_rules_check\r\n" +
	"\r\n" +
	"target_tokens_allowlist:\r\n" +
	"  call\r\n" +
	"  fold\t\r\n" +
	"\r\n" +
	"\r\n" +
	"module_id: cash_threebet_ip\r\n" +
	"spotkind_allowlist:\r\n" +
	"target_tokens_allowlist:\r\n" +
	"  3bet_ip_9bb\r\n"

func newNormalizer(style dispatcher.Style) *dispatcher.Normalizer {
	return dispatcher.NewNormalizer(style, defaults())
}

func TestNormalize_Golden(t *testing.T) {
	t.Parallel()

	for _, style := range []dispatcher.Style{dispatcher.StyleCompact, dispatcher.StyleSpaced} {
		t.Run(style.String(), func(t *testing.T) {
			t.Parallel()

			res := newNormalizer(style).Normalize(messy)

			require.True(t, res.Changed)
			assert.Equal(t, 2, res.Records)

			g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
			g.Assert(t, "normalize_"+style.String(), []byte(res.Output))
		})
	}
}

func TestNormalize_IsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		messy,
		"module_id:\n",
		"module_id: a\nstray\nshort_scope:\nspotkind_allowlist: x\n  x\n  y\ntarget_tokens_allowlist:\n",
		"preamble only\n",
		"module_id: a\nshort_scope: s\nspotkind_allowlist:\n  short_scope: inside\ntarget_tokens_allowlist:\n  none",
	}

	for _, style := range []dispatcher.Style{dispatcher.StyleCompact, dispatcher.StyleSpaced} {
		n := newNormalizer(style)

		for _, in := range inputs {
			once := n.Normalize(in)
			twice := n.Normalize(once.Output)

			assert.Equal(t, once.Output, twice.Output, "style %s input %q", style, in)
			assert.False(t, twice.Changed, "style %s input %q", style, in)
			assert.Empty(t, twice.Changes.ChangedIDs(), "style %s input %q", style, in)
			assert.Zero(t, twice.Changes.LinesChanged, "style %s input %q", style, in)
		}
	}
}

func TestNormalize_HeaderlessInputIsReturnedUnchanged(t *testing.T) {
	t.Parallel()

	in := "some\ttext  \r\nwithout records\n"

	res := newNormalizer(dispatcher.StyleCompact).Normalize(in)

	assert.Equal(t, in, res.Output)
	assert.False(t, res.Changed)
	assert.Zero(t, res.Records)
}

func TestNormalize_TracksChangedRecords(t *testing.T) {
	t.Parallel()

	canonical := "module_id: a\n" +
		"short_scope: s\n" +
		"spotkind_allowlist:\n" +
		"  k\n" +
		"target_tokens_allowlist:\n" +
		"  call\n"

	in := canonical +
		"module_id: b\n" +
		"short_scope: s\n" +
		"spotkind_allowlist:\n" +
		"\tk\n" +
		"target_tokens_allowlist:\n" +
		"  call\n" +
		"  call\n" +
		canonical

	res := newNormalizer(dispatcher.StyleCompact).Normalize(in)

	require.True(t, res.Changed)
	assert.Equal(t, []string{"b"}, res.Changes.ChangedIDs())
	assert.Equal(t, 1, res.Changes.Touched())
	// "\tk" differs and the duplicate "  call" has no counterpart.
	assert.Equal(t, 2, res.Changes.LinesChanged)
	assert.Equal(t, canonical+strings.Replace(canonical, "module_id: a", "module_id: b", 1)+canonical, res.Output)
}

func TestNormalize_ChangedIDsAreUnique(t *testing.T) {
	t.Parallel()

	in := "module_id: a\nshort_scope: x \nmodule_id: a\nshort_scope: y \n"

	res := newNormalizer(dispatcher.StyleCompact).Normalize(in)

	assert.Equal(t, []string{"a"}, res.Changes.ChangedIDs())
	assert.Len(t, res.Changes.Records, 2)
}

func TestNormalize_SeparatorBlankLinesCountAsChanges(t *testing.T) {
	t.Parallel()

	in := "module_id: a\n" +
		"short_scope: s\n" +
		"spotkind_allowlist:\n" +
		"  k\n" +
		"target_tokens_allowlist:\n" +
		"  call\n" +
		"\n"

	res := newNormalizer(dispatcher.StyleCompact).Normalize(in)

	assert.True(t, res.Changed)
	assert.Equal(t, []string{"a"}, res.Changes.ChangedIDs())
	assert.Equal(t, 1, res.Changes.LinesChanged)
}

func TestNormalize_RemovedTrailingBlankLinesAreCounted(t *testing.T) {
	t.Parallel()

	in := "module_id: a\n" +
		"short_scope: s\n" +
		"spotkind_allowlist:\n" +
		"  k\n" +
		"target_tokens_allowlist:\n" +
		"  call\n" +
		"\n\n"

	res := newNormalizer(dispatcher.StyleCompact).Normalize(in)

	assert.True(t, res.Changed)
	assert.Equal(t, 2, res.Changes.LinesChanged)
}
