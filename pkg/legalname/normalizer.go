package legalname

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizerFunc defines a single normalization step.
type NormalizerFunc func(string) string

// Normalizer turns raw tokens into comparable tokens. The same pipeline runs over
// dictionary terms and over input names.
type Normalizer struct {
	steps []NormalizerFunc
	cache *Cache[string, string]
}

// defaultSteps is Fold followed by StripPunct.
var defaultSteps = []NormalizerFunc{
	FoldCase,
	NFKDDecompose,
	RemoveCombiningMarks,
	ReplaceNonDecomposable,
	StripPunct,
}

// NewNormalizer creates a normalizer with the default pipeline and an LRU cache
// of DefaultFoldCacheSize entries.
func NewNormalizer() *Normalizer {
	cache, _ := NewCache[string, string](DefaultFoldCacheSize)
	return &Normalizer{
		steps: defaultSteps,
		cache: cache,
	}
}

// NewNormalizerWithCache creates a default normalizer whose cache holds size entries.
func NewNormalizerWithCache(size int) (*Normalizer, error) {
	cache, err := NewCache[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Normalizer{
		steps: defaultSteps,
		cache: cache,
	}, nil
}

// NewNormalizerNoCache creates a default normalizer without caching.
func NewNormalizerNoCache() *Normalizer {
	return &Normalizer{steps: defaultSteps}
}

// NewNormalizerWithSteps creates an uncached normalizer with a custom pipeline.
func NewNormalizerWithSteps(steps ...NormalizerFunc) *Normalizer {
	return &Normalizer{steps: steps}
}

// Normalize applies all configured steps to a single token.
func (n *Normalizer) Normalize(token string) string {
	if n.cache == nil {
		return n.normalizeUncached(token)
	}

	if result, ok := n.cache.Get(token); ok {
		return result
	}

	result := n.normalizeUncached(token)
	n.cache.Add(token, result)

	return result
}

func (n *Normalizer) normalizeUncached(s string) string {
	for _, step := range n.steps {
		s = step(s)
	}
	return s
}

// NormalizeAll normalizes tokens elementwise; the result has the same length.
func (n *Normalizer) NormalizeAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = n.Normalize(tok)
	}
	return out
}

// ClearCache clears the normalization cache.
func (n *Normalizer) ClearCache() {
	if n.cache != nil {
		n.cache.Purge()
	}
}

// CacheSize returns the number of cached tokens (0 if cache is disabled).
func (n *Normalizer) CacheSize() int {
	if n.cache == nil {
		return 0
	}
	return n.cache.Len()
}

// CacheEnabled returns true if caching is enabled.
func (n *Normalizer) CacheEnabled() bool {
	return n.cache != nil
}

// Fold casefolds s and removes accents, leaving punctuation alone.
func Fold(s string) string {
	return ReplaceNonDecomposable(RemoveCombiningMarks(NFKDDecompose(FoldCase(s))))
}

// FoldCase applies full Unicode case folding (ß → ss, Σ → σ).
func FoldCase(s string) string {
	return cases.Fold().String(s)
}

// NFKDDecompose applies Unicode NFKD normalization.
// Decomposes ä → a + combining diaeresis, ﬁ → fi, etc.
func NFKDDecompose(s string) string {
	return norm.NFKD.String(s)
}

// RemoveCombiningMarks removes nonspacing marks (category Mn).
// Run after NFKD to drop the diacritics it split off.
func RemoveCombiningMarks(s string) string {
	result, _, err := transform.String(runes.Remove(runes.In(unicode.Mn)), s)
	if err != nil {
		return s
	}
	return result
}

// nonDecomposable maps folded letters that NFKD leaves without a plain base letter.
var nonDecomposable = strings.NewReplacer(
	"ł", "l",
	"đ", "d",
	"ð", "d",
	"ø", "o",
	"æ", "ae",
	"œ", "oe",
	"þ", "th",
	"ħ", "h",
	"ı", "i",
	"ŧ", "t",
	"ə", "e",
	"ß", "ss",
)

// ReplaceNonDecomposable substitutes letters such as ł or ø with their ASCII base.
// Anything not in the table passes through unchanged.
func ReplaceNonDecomposable(s string) string {
	return nonDecomposable.Replace(s)
}

var punctuation = strings.NewReplacer(".", "", ",", "", "-", "")

// StripPunct removes '.', ',' and '-'.
func StripPunct(s string) string {
	return punctuation.Replace(s)
}

// isWordRune mirrors a Unicode-aware \w, extended with combining marks so a
// decomposed trailing accent is not cut off its letter.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

func isEdgeJunk(r rune) bool {
	return r != '.' && !isWordRune(r)
}

// TrimEdges drops leading and trailing runs of runes that are neither word
// runes nor dots. Dots survive because many legal forms end in one ("Inc.").
func TrimEdges(name string) string {
	return strings.TrimRightFunc(strings.TrimLeftFunc(name, isEdgeJunk), isEdgeJunk)
}

// cjk covers Hiragana, Katakana and the CJK ideograph blocks.
var cjk = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x30ff, Stride: 1}, // Hiragana, Katakana
		{Lo: 0x3400, Hi: 0x4dbf, Stride: 1}, // CJK Extension A
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1}, // CJK Unified Ideographs
		{Lo: 0xf900, Hi: 0xfaff, Stride: 1}, // CJK Compatibility Ideographs
		{Lo: 0xff66, Hi: 0xff9f, Stride: 1}, // Halfwidth Katakana
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2fa1f, Stride: 1}, // Extensions B-F, Compatibility Supplement
	},
}

// IsCJK reports whether text contains any CJK syllabary or ideograph rune.
func IsCJK(text string) bool {
	for _, r := range text {
		if unicode.Is(cjk, r) {
			return true
		}
	}
	return false
}

// Tokenize splits text on whitespace, or into single runes when text contains
// CJK. The switch applies to the whole string.
func Tokenize(text string) []string {
	if IsCJK(text) {
		return splitRunes(text)
	}
	return strings.Fields(text)
}

func splitRunes(text string) []string {
	tokens := make([]string, 0, len(text))
	for _, r := range text {
		tokens = append(tokens, string(r))
	}
	return tokens
}
