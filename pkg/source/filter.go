package source

import "strings"

// DefaultMarketingKeywords is the base set used for filtering
// marketing-relevant content from general-purpose feeds.
var DefaultMarketingKeywords = []string{
	"marketing", "advertising", "branding", "brand",
	"social media", "content marketing", "influencer",
	"SEO", "search engine optimization", "SEM", "PPC",
	"email marketing", "newsletter", "growth hacking",
	"customer acquisition", "retention", "conversion",
	"e-commerce", "ecommerce", "d2c", "direct to consumer",
	"small business", "startup", "local business",
	"consumer trends", "customer experience", "CX",
	"engagement", "audience", "campaign", "funnel",
	"TikTok", "Instagram", "LinkedIn", "YouTube",
	"chatbot", "personalization", "automation",
	"AI marketing", "generative AI", "copywriting",
	"analytics", "attribution", "market research",
	"product launch", "go to market", "pricing",
}

// Filter holds keyword lists for relevance matching.
type Filter struct {
	keywords []string
	exclude  []string
}

// NewFilter creates a filter with the default marketing keywords plus extras.
func NewFilter(extraKeywords, excludeKeywords []string) *Filter {
	keywords := make([]string, len(DefaultMarketingKeywords))
	copy(keywords, DefaultMarketingKeywords)
	keywords = append(keywords, extraKeywords...)

	// Lowercase all keywords for case-insensitive matching.
	for i, kw := range keywords {
		keywords[i] = strings.ToLower(kw)
	}

	exclude := make([]string, len(excludeKeywords))
	for i, kw := range excludeKeywords {
		exclude[i] = strings.ToLower(kw)
	}

	return &Filter{keywords: keywords, exclude: exclude}
}

// Matches returns true if text contains a relevant keyword and no
// excluded keyword.
func (f *Filter) Matches(text string) bool {
	lower := strings.ToLower(text)

	for _, ex := range f.exclude {
		if strings.Contains(lower, ex) {
			return false
		}
	}

	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
