// Package classifier maps a free-text skills description to a collaboration
// role using nearest-neighbour matching over a labelled sample set.
package classifier

import (
	"strings"
	"unicode"

	"github.com/fastygo/teamups/domain"
)

// Sample is one labelled skills description.
type Sample struct {
	Skills string
	Role   domain.Role
}

// DefaultSamples seeds the classifier when no custom set is supplied.
var DefaultSamples = []Sample{
	{"project management, planning, delegation, decision making, strategy", domain.RoleLeader},
	{"leadership, public speaking, coordination, vision, mentoring", domain.RoleLeader},
	{"documentation, testing, quality assurance, helping others, reviewing", domain.RoleSupporter},
	{"customer support, empathy, listening, onboarding, coaching", domain.RoleSupporter},
	{"research, data analysis, statistics, machine learning, modelling", domain.RoleThinker},
	{"architecture, algorithms, problem solving, design, mathematics", domain.RoleThinker},
	{"python, go, django, backend, coding, deployment, implementation", domain.RoleDoer},
	{"frontend, javascript, react, css, building prototypes, devops", domain.RoleDoer},
	{"networking, marketing, communication, partnerships, sales", domain.RoleConnector},
	{"community, social media, negotiation, outreach, events", domain.RoleConnector},
}

// Classifier is safe for concurrent use once built.
type Classifier struct {
	samples  []vector
	fallback domain.Role
}

type vector struct {
	terms map[string]struct{}
	role  domain.Role
}

// New builds a classifier. fallback is returned for input sharing no term with
// any sample.
func New(samples []Sample, fallback domain.Role) *Classifier {
	if len(samples) == 0 {
		samples = DefaultSamples
	}
	if !fallback.Valid() {
		fallback = domain.RoleDoer
	}
	c := &Classifier{fallback: fallback}
	for _, s := range samples {
		if !s.Role.Valid() {
			continue
		}
		c.samples = append(c.samples, vector{terms: tokenize(s.Skills), role: s.Role})
	}
	return c
}

// Predict returns the role of the most similar sample by Jaccard similarity.
func (c *Classifier) Predict(skills string) domain.Role {
	query := tokenize(skills)
	if len(query) == 0 {
		return c.fallback
	}

	best, bestScore := c.fallback, 0.0
	for _, s := range c.samples {
		if score := jaccard(query, s.terms); score > bestScore {
			best, bestScore = s.role, score
		}
	}
	return best
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		terms[f] = struct{}{}
	}
	return terms
}

func jaccard(a, b map[string]struct{}) float64 {
	var shared int
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
