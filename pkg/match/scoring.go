package match

// Base scores per tier.
const (
	ScoreExact            = 100
	ScoreFileContainsName = 80
	ScoreNameContainsFile = 60
	ScoreFuzzyBase        = 50

	// FuzzyScoreCap keeps any fuzzy score strictly below ScoreExact so an
	// exact match always outranks a fuzzy one regardless of bonuses.
	FuzzyScoreCap = 99
)

// Bonus values for structural evidence in the candidate filename.
const (
	BonusOriginalPrefix = 10 // normalized original filename starts with the recipient token
	BonusOriginalSuffix = 5  // ...or ends with it
	BonusTokenPrefix    = 15 // decomposed filename token starts with the recipient token
	BonusTokenSuffix    = 10 // ...or ends with it
	BonusRatioHigh      = 5  // recipient token covers >80% of the filename token
	BonusRatioMid       = 2  // ...or >50%
	BonusShortName      = 5  // original filename shorter than 15 characters
	BonusMediumName     = 2  // ...shorter than 25
)

// Length thresholds for the filename-length bonus.
const (
	shortNameLen  = 15
	mediumNameLen = 25
)

// Minimum token lengths guarding against false positives.
const (
	// MinTokenLen is the global floor: recipients normalizing to fewer
	// than 2 characters never match anything.
	MinTokenLen = 2
	// MinPartialLen gates the containment and fuzzy tiers, which carry
	// weaker evidence than an exact match.
	MinPartialLen = 3
)

// DefaultFuzzyThreshold is the minimum similarity percentage for a fuzzy
// match to be considered at all.
const DefaultFuzzyThreshold = 85
