package legalname

import (
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Config controls caching and logging for a Classifier.
type Config struct {
	// Cache enables the per-token normalization cache and the query cache.
	Cache bool
	// FoldCacheSize defaults to DefaultFoldCacheSize when zero.
	FoldCacheSize int
	// QueryCacheSize defaults to DefaultQueryCacheSize when zero.
	QueryCacheSize int
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultConfig enables both caches at their default sizes.
func DefaultConfig() Config {
	return Config{
		Cache:          true,
		FoldCacheSize:  DefaultFoldCacheSize,
		QueryCacheSize: DefaultQueryCacheSize,
	}
}

// Result is the classification of one name.
type Result struct {
	BaseName  string   `json:"basename"`
	Types     []string `json:"types"`
	Countries []string `json:"countries"`
}

func (r Result) clone() Result {
	return Result{
		BaseName:  r.BaseName,
		Types:     slices.Clone(r.Types),
		Countries: slices.Clone(r.Countries),
	}
}

// Stats describes the loaded dictionary.
type Stats struct {
	RawTerms int `json:"raw_terms"`
	Terms    int `json:"terms"`
	Tokens   int `json:"tokens"`
	Skipped  int `json:"skipped"`
}

type queryKey struct {
	name string
	mode Mode
}

// Classifier strips legal-form terms from company names and reports the
// entity types and countries they imply. It is fully built by New and safe
// for concurrent use afterwards.
type Classifier struct {
	normalizer *Normalizer
	index      *TermIndex
	automaton  *Automaton[*TermInfo]
	resolver   *Resolver
	cache      *Cache[queryKey, Result]
	stats      Stats
}

// New builds the term index and automaton from data.
func New(data TermData, cfg Config) (*Classifier, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	normalizer := NewNormalizerNoCache()
	var cache *Cache[queryKey, Result]
	if cfg.Cache {
		var err error
		normalizer, err = NewNormalizerWithCache(sizeOr(cfg.FoldCacheSize, DefaultFoldCacheSize))
		if err != nil {
			return nil, eris.Wrap(err, "create normalizer")
		}
		cache, err = NewCache[queryKey, Result](sizeOr(cfg.QueryCacheSize, DefaultQueryCacheSize))
		if err != nil {
			return nil, eris.Wrap(err, "create query cache")
		}
	}

	index, err := BuildIndex(data, normalizer)
	if err != nil {
		return nil, eris.Wrap(err, "build term index")
	}

	automaton := NewAutomaton[*TermInfo]()
	for _, e := range index.Entries() {
		if err := automaton.Add(e.Term, e); err != nil {
			return nil, eris.Wrapf(err, "add term %q", e.Term)
		}
	}
	if err := automaton.Build(); err != nil {
		return nil, eris.Wrap(err, "build automaton")
	}

	stats := Stats{
		RawTerms: data.TermCount(),
		Terms:    index.Len(),
		Tokens:   index.TokenCount(),
		Skipped:  len(index.Skipped()),
	}
	log.Debug("term automaton built",
		zap.Int("raw_terms", stats.RawTerms),
		zap.Int("terms", stats.Terms),
		zap.Int("tokens", stats.Tokens),
		zap.Strings("skipped", index.Skipped()),
		zap.Bool("cache", cfg.Cache),
	)

	return &Classifier{
		normalizer: normalizer,
		index:      index,
		automaton:  automaton,
		resolver:   NewResolver(index, automaton),
		cache:      cache,
		stats:      stats,
	}, nil
}

// NewDefault builds a classifier over the built-in dictionary with DefaultConfig.
func NewDefault() (*Classifier, error) {
	data, err := DefaultTermData()
	if err != nil {
		return nil, err
	}
	return New(data, DefaultConfig())
}

func sizeOr(size, fallback int) int {
	if size <= 0 {
		return fallback
	}
	return size
}

// Search strips legal-form terms from the edges of name selected by mode and
// returns the base name with the deduplicated, sorted labels of the stripped
// terms. Names without any term come back trimmed with empty label lists.
// The only error is ErrMiddleStrip.
func (c *Classifier) Search(name string, mode Mode) (Result, error) {
	if mode.Middle() {
		return Result{}, ErrMiddleStrip
	}

	if c.cache == nil {
		return c.search(name, mode)
	}

	key := queryKey{name: name, mode: mode}
	if result, ok := c.cache.Get(key); ok {
		return result.clone(), nil
	}

	result, err := c.search(name, mode)
	if err != nil {
		return Result{}, err
	}
	c.cache.Add(key, result)

	return result.clone(), nil
}

func (c *Classifier) search(name string, mode Mode) (Result, error) {
	toks := c.normalizer.Split(TrimEdges(name))

	labels, err := c.resolver.Resolve(toks, mode)
	if err != nil {
		return Result{}, err
	}

	return Result{
		BaseName:  TrimEdges(toks.Join()),
		Types:     uniqueSorted(labels.Types),
		Countries: uniqueSorted(labels.Countries),
	}, nil
}

// BaseName returns only the stripped name.
func (c *Classifier) BaseName(name string, mode Mode) (string, error) {
	result, err := c.Search(name, mode)
	return result.BaseName, err
}

// LegalTypes returns only the entity-type labels.
func (c *Classifier) LegalTypes(name string, mode Mode) ([]string, error) {
	result, err := c.Search(name, mode)
	return result.Types, err
}

// Countries returns only the country labels.
func (c *Classifier) Countries(name string, mode Mode) ([]string, error) {
	result, err := c.Search(name, mode)
	return result.Countries, err
}

// Lookup returns the merged record of a raw dictionary term, e.g. "S.R.O.".
func (c *Classifier) Lookup(term string) (*TermInfo, bool) {
	return c.automaton.Get(c.normalizer.Split(term).Norm)
}

// HasToken reports whether a raw token normalizes to a token of any term.
func (c *Classifier) HasToken(token string) bool {
	return c.index.HasPattern(c.normalizer.Normalize(token))
}

// Index returns the term index the classifier was built from.
func (c *Classifier) Index() *TermIndex {
	return c.index
}

// Stats returns dictionary statistics.
func (c *Classifier) Stats() Stats {
	return c.stats
}

// CacheSize returns the number of cached query results.
func (c *Classifier) CacheSize() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// ClearCache clears the query cache and the normalization cache.
func (c *Classifier) ClearCache() {
	if c.cache != nil {
		c.cache.Purge()
	}
	c.normalizer.ClearCache()
}

// CacheEnabled returns true if caching is enabled.
func (c *Classifier) CacheEnabled() bool {
	return c.cache != nil
}

func uniqueSorted(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	slices.Sort(out)
	return slices.Compact(out)
}
