package match

import "strings"

// DefaultNoiseWords are filename fragments that carry no information about
// the recipient and are stripped before comparison. Compound entries cover
// common stacked prefixes ("Certificate_of_John_Doe.pdf"). The list is
// configuration: institutions with their own naming conventions can extend
// it via Config.NoiseWords.
var DefaultNoiseWords = []string{
	"certificate_of",
	"certificate-",
	"certificate",
	"diploma_of",
	"diploma-",
	"diploma",
	"completion",
	"document",
	"award",
	"cert_",
	"cert-",
	"cert",
	"doc",
}

// Decomposer extracts the recipient-identifying token from a certificate
// filename by stripping the extension and noise words, then normalizing
// the remainder.
type Decomposer struct {
	noise []string
}

// NewDecomposer builds a Decomposer with the given noise vocabulary.
// An empty list falls back to DefaultNoiseWords.
func NewDecomposer(noise []string) *Decomposer {
	if len(noise) == 0 {
		noise = DefaultNoiseWords
	}
	lowered := make([]string, 0, len(noise))
	for _, w := range noise {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return &Decomposer{noise: lowered}
}

// ExtractNameToken strips a trailing .pdf extension and all bounded noise
// words from filename, then returns the normalized remainder. Malformed or
// empty filenames yield the empty token, never an error.
func (d *Decomposer) ExtractNameToken(filename string) string {
	s := StripExtension(filename)
	s = d.stripNoise(s)
	return Normalize(s)
}

// StripExtension removes a trailing .pdf extension, case-insensitively.
func StripExtension(filename string) string {
	if ext := filename[max(0, len(filename)-4):]; strings.EqualFold(ext, ".pdf") {
		return filename[:len(filename)-4]
	}
	return filename
}

// stripNoise removes bounded noise words until a full pass over the string
// produces no further change. An explicit fixed-point loop keeps the worst
// case bounded even with overlapping vocabulary entries. The string is
// lowercased once up front so every pass scans and slices the same bytes;
// case mappings can change UTF-8 length, and the result is normalized
// afterwards anyway.
func (d *Decomposer) stripNoise(s string) string {
	s = strings.ToLower(s)
	for {
		next := d.stripNoisePass(s)
		if next == s {
			return s
		}
		s = next
	}
}

// stripNoisePass replaces every bounded occurrence of every noise word with
// a single space, scanning left to right. s must already be lowercase.
func (d *Decomposer) stripNoisePass(s string) string {
	for _, word := range d.noise {
		from := 0
		for {
			i := strings.Index(s[from:], word)
			if i < 0 {
				break
			}
			i += from
			if bounded(s, word, i) {
				s = s[:i] + " " + s[i+len(word):]
			}
			from = i + 1
		}
	}
	return s
}

// bounded reports whether the occurrence of word at byte offset i in s may
// be stripped: noise words strip at the start or end of the string even
// when glued to the name ("JohnDoeCertificate"), but a mid-string
// occurrence needs separators on both sides so names like "Madoc" are
// not gutted. A word that itself begins or ends with a separator satisfies
// that side implicitly ("cert-" matches "cert-john").
func bounded(s, word string, i int) bool {
	j := i + len(word)
	if i == 0 || j == len(s) {
		return true
	}
	leftSep := isSeparator(s[i-1]) || isSeparator(word[0])
	rightSep := isSeparator(s[j]) || isSeparator(word[len(word)-1])
	return leftSep && rightSep
}

func isSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == '_' || c == '-'
}
