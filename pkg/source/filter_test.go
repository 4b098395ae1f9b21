package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterMatches(t *testing.T) {
	f := NewFilter(nil, nil)

	assert.True(t, f.Matches("New SEO tactics for 2026"))
	assert.True(t, f.Matches("Why every SMALL BUSINESS needs email"))
	assert.False(t, f.Matches("Kernel scheduler patch merged"))
}

func TestFilterExtraKeywords(t *testing.T) {
	f := NewFilter([]string{"webinar"}, nil)

	assert.True(t, f.Matches("Join our webinar on Thursday"))
}

func TestFilterExclude(t *testing.T) {
	f := NewFilter(nil, []string{"hiring"})

	// Exclusions win even when a relevant keyword is present.
	assert.False(t, f.Matches("Hiring: marketing manager"))
	assert.True(t, f.Matches("marketing manager shares playbook"))
}
