package app

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// LangParam is the query parameter used to select the page language.
const LangParam = "lang"

var supportedTags = []language.Tag{
	language.English,
	language.MustParse("pt-BR"),
}

var tagMatcher = language.NewMatcher(supportedTags)

// ResolveLanguage picks the page language from the lang query parameter,
// then Accept-Language, falling back to English.
func ResolveLanguage(r *http.Request) language.Tag {
	if r == nil {
		return supportedTags[0]
	}
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, ok := parseSupportedTag(value); ok {
			return tag
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, confidence := tagMatcher.Match(tags...)
			if confidence != language.No {
				return supportedTags[index]
			}
		}
	}
	return supportedTags[0]
}

func parseSupportedTag(value string) (language.Tag, bool) {
	parsed, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	for _, tag := range supportedTags {
		if tag == parsed {
			return tag, true
		}
	}
	return language.Tag{}, false
}
