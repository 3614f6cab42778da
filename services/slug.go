package services

import "strings"

const slugPunctuation = "!?.,;:'\"()[]{}<>/\\|@#$%^&*+=`~"

var stripPunctuation = strings.NewReplacer(func() []string {
	pairs := make([]string, 0, 2*len(slugPunctuation))
	for _, r := range slugPunctuation {
		pairs = append(pairs, string(r), "")
	}
	return pairs
}()...)

// Slugify lowercases name, strips punctuation and joins words with hyphens.
// Slugs are not checked for uniqueness.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = stripPunctuation.Replace(s)
	return strings.Join(strings.Fields(s), "-")
}
