// Package match pairs recipient names with certificate files despite
// inconsistent naming conventions, separators, accents, and typos.
//
// Matching is tiered: exact token equality, containment in either
// direction, then Levenshtein-based fuzzy comparison. Tiers are strictly
// ordered by evidence strength and scored so stronger evidence always
// wins; the engine ranks candidates and reports confidence, it never
// guarantees a match exists.
package match

import "strings"

// Tier categorizes the evidence strength of a candidate match, strongest
// first.
type Tier int

const (
	TierExact Tier = iota
	TierFileContainsName
	TierNameContainsFile
	TierFuzzy
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierFileContainsName:
		return "fileContainsName"
	case TierNameContainsFile:
		return "nameContainsFile"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// Candidate is one certificate file offered for matching. Ref is an opaque
// handle (typically the file path) passed through untouched; the engine
// never opens file contents.
type Candidate struct {
	Filename string
	Ref      any
}

// Result is the chosen candidate for one recipient. Similarity is only
// meaningful for TierFuzzy; Confidence and NeedsReview are populated by
// WithConfidence.
type Result struct {
	Candidate   Candidate
	Tier        Tier
	Score       int
	Similarity  int
	Confidence  int
	NeedsReview bool
}

// Config tunes a Matcher. Zero values select the defaults.
type Config struct {
	// FuzzyThreshold is the minimum similarity percentage for the fuzzy
	// tier. Defaults to DefaultFuzzyThreshold.
	FuzzyThreshold int
	// NoiseWords replaces the default noise vocabulary when non-empty.
	// Order matters: compound entries must precede their components.
	NoiseWords []string
}

// Matcher pairs recipients with candidate files. Safe for concurrent use:
// all state is read-only configuration.
type Matcher struct {
	decomposer *Decomposer
	threshold  int
}

// New builds a Matcher from cfg.
func New(cfg Config) *Matcher {
	threshold := cfg.FuzzyThreshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Matcher{
		decomposer: NewDecomposer(cfg.NoiseWords),
		threshold:  threshold,
	}
}

// Decomposer exposes the matcher's filename decomposer, sharing its noise
// vocabulary.
func (m *Matcher) Decomposer() *Decomposer {
	return m.decomposer
}

// Match evaluates every candidate against the recipient name and returns
// the single best match, or nil when no candidate produces any evidence.
// Ties on score are broken by the shorter original filename; candidate
// order is never a tie-break input.
func (m *Matcher) Match(recipientName string, pool []Candidate) *Result {
	name := Normalize(recipientName)
	if len(name) < MinTokenLen {
		return nil
	}

	var best *Result
	for _, c := range pool {
		token := m.decomposer.ExtractNameToken(c.Filename)
		if token == "" {
			continue
		}

		r := m.evaluate(name, token, c)
		if r == nil {
			continue
		}
		if best == nil || r.Score > best.Score ||
			(r.Score == best.Score && len(c.Filename) < len(best.Candidate.Filename)) {
			best = r
		}
	}
	return best
}

// evaluate applies the tier precedence for a single candidate: the first
// tier whose conditions hold decides the score, lower tiers are not
// consulted.
func (m *Matcher) evaluate(name, token string, c Candidate) *Result {
	// The original filename with extension stripped and normalized, noise
	// words retained. Structural bonuses look at this rather than the
	// decomposed token so "MyCert_JohnDoe.pdf" still earns its suffix
	// bonus.
	original := Normalize(StripExtension(c.Filename))

	if name == token {
		score := ScoreExact + originalBonus(original, name) + lengthBonus(c.Filename)
		return &Result{Candidate: c, Tier: TierExact, Score: score}
	}

	if len(name) < MinPartialLen {
		return nil
	}

	if strings.Contains(token, name) {
		score := ScoreFileContainsName
		switch {
		case strings.HasPrefix(token, name):
			score += BonusTokenPrefix
		case strings.HasSuffix(token, name):
			score += BonusTokenSuffix
		}
		ratio := float64(len(name)) / float64(len(token))
		switch {
		case ratio > 0.8:
			score += BonusRatioHigh
		case ratio > 0.5:
			score += BonusRatioMid
		}
		score += originalBonus(original, name)
		return &Result{Candidate: c, Tier: TierFileContainsName, Score: score}
	}

	if len(token) < MinPartialLen {
		return nil
	}

	if strings.Contains(name, token) {
		return &Result{Candidate: c, Tier: TierNameContainsFile, Score: ScoreNameContainsFile}
	}
	if sim := Similarity(name, token); sim >= m.threshold {
		score := ScoreFuzzyBase + sim
		if score > FuzzyScoreCap {
			score = FuzzyScoreCap
		}
		return &Result{Candidate: c, Tier: TierFuzzy, Score: score, Similarity: sim}
	}
	return nil
}

// originalBonus rewards the recipient token appearing at an edge of the
// original (non-decomposed) filename.
func originalBonus(original, name string) int {
	switch {
	case strings.HasPrefix(original, name):
		return BonusOriginalPrefix
	case strings.HasSuffix(original, name):
		return BonusOriginalSuffix
	}
	return 0
}

// lengthBonus rewards short original filenames, which carry less room for
// ambiguity.
func lengthBonus(filename string) int {
	switch {
	case len(filename) < shortNameLen:
		return BonusShortName
	case len(filename) < mediumNameLen:
		return BonusMediumName
	}
	return 0
}
