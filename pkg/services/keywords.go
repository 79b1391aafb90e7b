package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// acronyms maps lower-cased words to the spelling topic labels should use.
var acronyms = map[string]string{
	"nlp":    "NLP",
	"css":    "CSS",
	"hci":    "HCI",
	"tinyml": "TinyML",
	"ml":     "ML",
	"iot":    "IoT",
	"mpc":    "MPC",
	"llm":    "LLM",
	"ai":     "AI",
	"eeg":    "EEG",
	"esg":    "ESG",
	"ui/ux":  "UI/UX",
	"cscw":   "CSCW",
	"sts":    "STS",
	"mrs":    "MRS",
	"ux":     "UX",
	"eaa":    "EAA",
	"wad":    "WAD",
	"api":    "API",
	"gpu":    "GPU",
	"genai":  "GenAI",
	"it":     "IT",
}

// titleWord upper-cases the first letter of word and lower-cases the rest.
func titleWord(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// NormalizeKeyword title-cases each whitespace separated token and collapses
// runs of whitespace. NormalizeKeyword(NormalizeKeyword(s)) == NormalizeKeyword(s).
func NormalizeKeyword(keyword string) string {
	words := strings.Fields(keyword)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// NormalizeKeywords normalizes every keyword, drops blanks, and removes
// duplicates after normalization keeping the first occurrence.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		n := NormalizeKeyword(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// PrettifyLabel title-cases a topic label, keeping known acronyms in their
// canonical spelling ("nlp for ui/ux" -> "NLP For UI/UX").
func PrettifyLabel(label string) string {
	words := strings.Fields(label)
	for i, w := range words {
		if acronym, ok := acronyms[strings.ToLower(w)]; ok {
			words[i] = acronym
			continue
		}
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}
