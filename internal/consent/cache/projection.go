// Package cache keeps the client-side projection of consents: the pending
// aggregates and the directional lists per address.
package cache

import (
	"slices"
	"strings"
	"sync"

	"marketaccess/internal/consent/models"
)

type listKey struct {
	address   string
	direction models.Direction
}

// Projection is safe for concurrent use.
type Projection struct {
	mu         sync.Mutex
	aggregates map[string]models.UserConsentsData
	lists      map[listKey][]models.Consent
}

func New() *Projection {
	return &Projection{
		aggregates: make(map[string]models.UserConsentsData),
		lists:      make(map[listKey][]models.Consent),
	}
}

func norm(address string) string {
	return strings.ToLower(address)
}

func (p *Projection) Aggregate(address string) (models.UserConsentsData, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.aggregates[norm(address)]
	return data, ok
}

func (p *Projection) SetAggregate(address string, data models.UserConsentsData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.aggregates[norm(address)] = data
}

// InvalidateAggregate drops the cached aggregate so the next read refetches it.
func (p *Projection) InvalidateAggregate(address string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.aggregates, norm(address))
}

// InvalidateAll drops every cached aggregate and list.
func (p *Projection) InvalidateAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.aggregates)
	clear(p.lists)
}

func (p *Projection) List(address string, d models.Direction) ([]models.Consent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	list, ok := p.lists[listKey{norm(address), d}]
	return slices.Clone(list), ok
}

func (p *Projection) SetList(address string, d models.Direction, list []models.Consent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists[listKey{norm(address), d}] = slices.Clone(list)
}

// Located is a cached consent and where it lives.
type Located struct {
	Address   string
	Direction models.Direction
	Consent   models.Consent
}

// Find looks the consent up in every cached list, optionally restricted to one
// direction.
func (p *Projection) Find(consentID int64, only ...models.Direction) (Located, bool) {
	all := p.Locate(consentID, only...)
	if len(all) == 0 {
		return Located{}, false
	}
	return all[0], true
}

// Locate returns every cached copy of the consent. The same consent is cached
// twice when both its owner and its solicitor are served by this process.
func (p *Projection) Locate(consentID int64, only ...models.Direction) []Located {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Located
	for key, list := range p.lists {
		if len(only) > 0 && !slices.Contains(only, key.direction) {
			continue
		}
		if i := index(list, consentID); i >= 0 {
			out = append(out, Located{Address: key.address, Direction: key.direction, Consent: list[i]})
		}
	}
	return out
}

// Patch applies fn to the consent in the address's direction list.
func (p *Projection) Patch(address string, d models.Direction, consentID int64, fn func(*models.Consent)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := listKey{norm(address), d}
	list := p.lists[key]
	i := index(list, consentID)
	if i < 0 {
		return false
	}
	updated := slices.Clone(list)
	fn(&updated[i])
	p.lists[key] = updated
	return true
}

// Remove deletes the consent from the address's direction list.
func (p *Projection) Remove(address string, d models.Direction, consentID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := listKey{norm(address), d}
	list := p.lists[key]
	i := index(list, consentID)
	if i < 0 {
		return false
	}
	p.lists[key] = slices.Delete(slices.Clone(list), i, i+1)
	return true
}

// AdjustPending adds delta to the cached pending counter, if one is cached.
func (p *Projection) AdjustPending(address string, d models.Direction, delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if data, ok := p.aggregates[norm(address)]; ok {
		p.aggregates[norm(address)] = data.AddPending(d, delta)
	}
}

func index(list []models.Consent, id int64) int {
	return slices.IndexFunc(list, func(c models.Consent) bool { return c.ID == id })
}

// Reinstate puts a previously located copy of a consent back in its list and
// moves the cached pending counter by the difference in pending status. A
// consent that is no longer cached stays gone and false is returned.
func (p *Projection) Reinstate(prior Located) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := listKey{norm(prior.Address), prior.Direction}
	list := p.lists[key]
	i := index(list, prior.Consent.ID)
	if i < 0 {
		return false
	}
	delta := pending(prior.Consent) - pending(list[i])
	updated := slices.Clone(list)
	updated[i] = cloneConsent(prior.Consent)
	p.lists[key] = updated
	if data, ok := p.aggregates[key.address]; ok && delta != 0 {
		p.aggregates[key.address] = data.AddPending(prior.Direction, delta)
	}
	return true
}

func pending(c models.Consent) int {
	if models.IsPending(c) {
		return 1
	}
	return 0
}

func cloneConsent(c models.Consent) models.Consent {
	if c.Response != nil {
		r := *c.Response
		c.Response = &r
	}
	return c
}
