package sandbox

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Provider supplies realistic fake field values. Every random draw made while
// generating a dataset goes through one Provider so that a seeded provider
// reproduces the same dataset.
type Provider interface {
	Username() string
	Password() string
	FirstName() string
	LastName() string
	Phone() string
	Email() string
	Postcode() string
	BuildingNumber() string
	StreetAddress() string
	Sentence() string
	DateBetween(start, end time.Time) time.Time
	// IntRange returns an integer in [min, max].
	IntRange(min, max int) int
}

// FakeProvider is the gofakeit backed Provider.
type FakeProvider struct {
	faker *gofakeit.Faker
}

// NewFakeProvider returns a provider seeded with seed.
func NewFakeProvider(seed int64) *FakeProvider {
	return &FakeProvider{faker: gofakeit.New(uint64(seed))}
}

func (p *FakeProvider) Username() string { return p.faker.Username() }

func (p *FakeProvider) Password() string {
	return p.faker.Password(true, true, true, false, false, 12)
}

func (p *FakeProvider) FirstName() string { return p.faker.FirstName() }

func (p *FakeProvider) LastName() string { return p.faker.LastName() }

func (p *FakeProvider) Phone() string { return p.faker.PhoneFormatted() }

func (p *FakeProvider) Email() string { return p.faker.Email() }

func (p *FakeProvider) Postcode() string { return p.faker.Zip() }

func (p *FakeProvider) BuildingNumber() string { return p.faker.StreetNumber() }

func (p *FakeProvider) StreetAddress() string { return p.faker.Address().Address }

func (p *FakeProvider) Sentence() string { return p.faker.Sentence(8) }

func (p *FakeProvider) DateBetween(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	return p.faker.DateRange(start, end)
}

func (p *FakeProvider) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return p.faker.IntRange(min, max)
}
