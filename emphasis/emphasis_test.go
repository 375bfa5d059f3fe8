package emphasis

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestSplitMarksWholeWords(t *testing.T) {
	text := "Go is great, I love Go."
	segs := Split(text, BuildMatcher([]string{"go"}))

	assert.Equal(t, []Segment{
		{Text: "Go", Emphasized: true},
		{Text: " is great, I love "},
		{Text: "Go", Emphasized: true},
		{Text: "."},
	}, segs)
	assert.Equal(t, text, join(segs))
}

func TestSplitSubstringIsNotAMatch(t *testing.T) {
	segs := Split("Gopher goes to Golang", BuildMatcher([]string{"go"}))
	assert.Equal(t, []Segment{{Text: "Gopher goes to Golang"}}, segs)
}

func TestSplitTrivialCases(t *testing.T) {
	assert.Equal(t, []Segment{{Text: "hello"}}, Split("hello", nil))
	assert.Equal(t, []Segment{{Text: ""}}, Split("", BuildMatcher([]string{"x"})))
	assert.Equal(t, []Segment{{Text: "plain"}}, Split("plain", BuildMatcher([]string{"x"})))
}

func TestBuildMatcher(t *testing.T) {
	assert.Nil(t, BuildMatcher(nil))
	assert.Nil(t, BuildMatcher([]string{"", "   "}))

	m := BuildMatcher([]string{" Go ", "GO", "go"})
	require.NotNil(t, m)
	assert.Equal(t, `(?i)(?:\bGo\b)`, m.re.String())
}

func TestBuildMatcherEscapesMetacharacters(t *testing.T) {
	m := BuildMatcher([]string{"Node.js", "a+b"})
	require.NotNil(t, m)

	segs := Split("Nodexjs and Node.js", m)
	assert.Equal(t, []Segment{
		{Text: "Nodexjs and "},
		{Text: "Node.js", Emphasized: true},
	}, segs)

	assert.Equal(t, []Segment{
		{Text: "a+b", Emphasized: true},
		{Text: " but not aab"},
	}, Split("a+b but not aab", m))
}

func TestPunctuationKeywordsMatchLiterally(t *testing.T) {
	m := BuildMatcher([]string{"C++", "C#", ".NET"})
	require.NotNil(t, m)

	assert.Equal(t, []Segment{
		{Text: "I write "},
		{Text: "c++", Emphasized: true},
		{Text: " and "},
		{Text: "C#", Emphasized: true},
	}, Split("I write c++ and C#", m))

	assert.Equal(t, []Segment{
		{Text: "on "},
		{Text: ".NET", Emphasized: true},
		{Text: " daily"},
	}, Split("on .NET daily", m))

	// The word edge of a keyword still needs a boundary.
	assert.Equal(t, []Segment{{Text: "ABC# and NETwork"}}, Split("ABC# and NETwork", m))
}

func TestSplitLossless(t *testing.T) {
	texts := []string{
		"",
		"Go",
		"go go go",
		"TypeScript, React & Next.js in production",
		"Zürich: Go - Rust - go.",
		"   leading and trailing   ",
	}
	keywordSets := [][]string{
		nil,
		{"go"},
		{"react", "next.js", "typescript"},
		{"rust", "", "GO"},
		{"ü", "a"},
	}
	for _, text := range texts {
		for _, ks := range keywordSets {
			assert.Equal(t, text, join(Split(text, BuildMatcher(ks))), "text %q keywords %v", text, ks)
		}
	}
}

func TestSplitValue(t *testing.T) {
	m := BuildMatcher([]string{"42"})
	assert.Equal(t, []Segment{{Text: ""}}, SplitValue(nil, m))
	assert.Equal(t, []Segment{{Text: "42", Emphasized: true}}, SplitValue(42, m))
	assert.Equal(t, []Segment{{Text: "true"}}, SplitValue(true, m))
	assert.Equal(t, "[1 2]", join(SplitValue([]int{1, 2}, m)))
}

func TestHTMLEscapesAndWraps(t *testing.T) {
	var buf bytes.Buffer
	err := HTML("<b>Go</b> & go", BuildMatcher([]string{"go"})).Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;<strong>Go</strong>&lt;/b&gt; &amp; <strong>go</strong>", buf.String())
}
