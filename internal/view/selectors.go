package view

import (
	"sync"

	"github.com/noah-isme/tapp-client/internal/models"
	"github.com/noah-isme/tapp-client/internal/store"
)

// Graph exposes the memoized selectors over one store. Each selector caches
// its last output keyed on the version counters of the collections it reads,
// so a store update that leaves those collections untouched costs nothing.
type Graph struct {
	store *store.Store

	mu          sync.Mutex
	assignments memo[[]Assignment]
	positions   memo[[]Position]
	ddahs       memo[[]Ddah]
	postings    memo[[]Posting]
}

// NewGraph builds the selector graph over the given store.
func NewGraph(s *store.Store) *Graph {
	return &Graph{store: s}
}

type memo[T any] struct {
	keys  []uint64
	value T
	valid bool
}

func (m *memo[T]) get(keys []uint64) (T, bool) {
	if !m.valid || len(m.keys) != len(keys) {
		var zero T
		return zero, false
	}
	for i := range keys {
		if m.keys[i] != keys[i] {
			var zero T
			return zero, false
		}
	}
	return m.value, true
}

func (m *memo[T]) set(keys []uint64, value T) {
	m.keys = append([]uint64(nil), keys...)
	m.value = value
	m.valid = true
}

// Assignments returns the denormalized assignments. Assignments whose
// applicant or position has not arrived yet are dropped rather than returned
// half-resolved.
func (g *Graph) Assignments() []Assignment {
	keys := []uint64{
		g.store.Assignments.Version(),
		g.store.Applicants.Version(),
		g.store.Positions.Version(),
		g.store.WageChunksByAssignment.Version(),
		g.store.OffersByAssignment.Version(),
		g.store.Sessions.Version(),
		g.store.StateVersion(),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.assignments.get(keys); ok {
		return cached
	}

	out := g.computeAssignments()
	g.assignments.set(keys, out)
	return out
}

func (g *Graph) computeAssignments() []Assignment {
	applicantsByID := make(map[int]models.Applicant)
	for _, a := range g.store.Applicants.Items() {
		applicantsByID[a.ID] = a
	}
	positionsByID := make(map[int]models.Position)
	for _, p := range g.store.Positions.Items() {
		positionsByID[p.ID] = p
	}
	session, hasSession := g.store.ActiveSession()

	raw := g.store.Assignments.Items()
	out := make([]Assignment, 0, len(raw))
	for _, a := range raw {
		applicant := applicantsByID[a.ApplicantID]
		position := positionsByID[a.PositionID]
		// Assignments can arrive before the applicants or positions they
		// reference; an unresolved relation means the row is not renderable
		// yet.
		if applicant.ID == 0 || position.ID == 0 {
			continue
		}

		row := Assignment{
			ID:                a.ID,
			Applicant:         applicant,
			Position:          position,
			StartDate:         a.StartDate,
			EndDate:           a.EndDate,
			Hours:             a.Hours,
			Note:              a.Note,
			ActiveOfferStatus: a.ActiveOfferStatus,
		}
		if row.StartDate == nil {
			row.StartDate = position.StartDate
		}
		if row.EndDate == nil {
			row.EndDate = position.EndDate
		}

		if chunks, fetched := g.store.WageChunksByAssignment.Get(a.ID); fetched {
			var sum float64
			for _, c := range chunks {
				sum += c.Hours
			}
			// A chunk list that disagrees with the derived hours belongs to
			// an earlier version of the assignment; treat it as stale.
			if len(chunks) == 0 || sum == a.Hours {
				resolved := make([]WageChunk, 0, len(chunks))
				for _, c := range chunks {
					rate := 0.0
					if hasSession {
						rate = ResolveWageRate(session, c)
					} else if c.Rate != nil {
						rate = *c.Rate
					}
					resolved = append(resolved, WageChunk{
						ID:           c.ID,
						AssignmentID: c.AssignmentID,
						StartDate:    c.StartDate,
						EndDate:      c.EndDate,
						Hours:        c.Hours,
						Rate:         rate,
					})
				}
				row.WageChunks = resolved
			}
		}

		if offers, fetched := g.store.OffersByAssignment.Get(a.ID); fetched && len(offers) > 0 {
			row.Offers = offers
			active := offers[0]
			for _, o := range offers[1:] {
				if o.ID > active.ID {
					active = o
				}
			}
			row.ActiveOffer = &active
		}

		out = append(out, row)
	}
	return out
}

// Positions returns the denormalized positions. Instructor ids that resolve
// to no known instructor are dropped silently.
func (g *Graph) Positions() []Position {
	keys := []uint64{
		g.store.Positions.Version(),
		g.store.Instructors.Version(),
		g.store.ContractTemplates.Version(),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.positions.get(keys); ok {
		return cached
	}

	instructorsByID := make(map[int]models.Instructor)
	for _, i := range g.store.Instructors.Items() {
		instructorsByID[i.ID] = i
	}
	templatesByID := make(map[int]models.ContractTemplate)
	for _, t := range g.store.ContractTemplates.Items() {
		templatesByID[t.ID] = t
	}

	raw := g.store.Positions.Items()
	out := make([]Position, 0, len(raw))
	for _, p := range raw {
		instructors := make([]models.Instructor, 0, len(p.InstructorIDs))
		for _, id := range p.InstructorIDs {
			if inst, ok := instructorsByID[id]; ok {
				instructors = append(instructors, inst)
			}
		}
		out = append(out, Position{
			Position:         p,
			Instructors:      instructors,
			ContractTemplate: templatesByID[p.ContractTemplateID],
		})
	}

	g.positions.set(keys, out)
	return out
}

// Ddahs returns the denormalized DDAH forms. Forms whose assignment cannot be
// resolved are dropped.
func (g *Graph) Ddahs() []Ddah {
	assignments := g.Assignments()

	keys := []uint64{
		g.store.Ddahs.Version(),
		g.store.Assignments.Version(),
		g.store.Applicants.Version(),
		g.store.Positions.Version(),
		g.store.WageChunksByAssignment.Version(),
		g.store.OffersByAssignment.Version(),
		g.store.Sessions.Version(),
		g.store.StateVersion(),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.ddahs.get(keys); ok {
		return cached
	}

	assignmentsByID := make(map[int]Assignment, len(assignments))
	for _, a := range assignments {
		assignmentsByID[a.ID] = a
	}

	raw := g.store.Ddahs.Items()
	out := make([]Ddah, 0, len(raw))
	for _, d := range raw {
		assignment, ok := assignmentsByID[d.AssignmentID]
		if !ok {
			continue
		}
		out = append(out, Ddah{
			Ddah:       d,
			Assignment: assignment,
			Status:     DdahStatusOf(d),
			TotalHours: DdahTotalHours(d),
		})
	}

	g.ddahs.set(keys, out)
	return out
}

// Postings returns the denormalized postings.
func (g *Graph) Postings() []Posting {
	keys := []uint64{
		g.store.Postings.Version(),
		g.store.PostingPositions.Version(),
		g.store.Positions.Version(),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.postings.get(keys); ok {
		return cached
	}

	positionsByID := make(map[int]models.Position)
	for _, p := range g.store.Positions.Items() {
		positionsByID[p.ID] = p
	}
	linksByPosting := make(map[int][]PostingPosition)
	for _, link := range g.store.PostingPositions.Items() {
		linksByPosting[link.PostingID] = append(linksByPosting[link.PostingID], PostingPosition{
			PostingPosition: link,
			Position:        positionsByID[link.PositionID],
		})
	}

	raw := g.store.Postings.Items()
	out := make([]Posting, 0, len(raw))
	for _, p := range raw {
		links := linksByPosting[p.ID]
		if links == nil {
			links = []PostingPosition{}
		}
		out = append(out, Posting{Posting: p, PostingPositions: links})
	}

	g.postings.set(keys, out)
	return out
}
