// Package fake produces synthetic identities and post text.
package fake

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Profile is the identity of one simulated user.
type Profile struct {
	Username string
	FullName string
	Birthday time.Time
}

// Provider wraps a seeded gofakeit instance. It is not safe for concurrent use.
type Provider struct {
	f   *gofakeit.Faker
	now func() time.Time
}

// New returns a provider seeded with seed (0 picks a random seed).
func New(seed uint64) *Provider {
	return &Provider{f: gofakeit.New(seed), now: time.Now}
}

// Profile returns a username, full name and a birthday up to 115 years back.
func (p *Provider) Profile() Profile {
	now := p.now()
	b := p.f.DateRange(now.AddDate(-115, 0, 0), now)
	return Profile{
		Username: p.f.Username(),
		FullName: p.f.Name(),
		Birthday: time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// Sentence is a short title-like line.
func (p *Provider) Sentence() string {
	return p.f.Sentence(4 + p.f.IntRange(0, 6))
}

// Text is a paragraph of a few sentences, roughly the size of a short post.
func (p *Provider) Text() string {
	return p.f.Paragraph(1, 2+p.f.IntRange(0, 3), 10, " ")
}
