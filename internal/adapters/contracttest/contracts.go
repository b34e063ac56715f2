package contracttest

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
	advocaterepoport "github.com/solace-advocates/advocate-directory-api/internal/ports/out/advocaterepo"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
)

type CleanupFunc = func()

type AdvocateRepoFactory func(t *testing.T) (advocaterepoport.Repository, CleanupFunc)

// RunAdvocateRepo exercises the behavior every advocaterepo.Repository must share.
// Result sets are compared without regard to order since natural scan order is store-defined.
func RunAdvocateRepo(t *testing.T, newRepo AdvocateRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	jane := advocaterepoport.Advocate{
		ID:                domain.AdvocateID(uuid.NewString()),
		FirstName:         "Jane",
		LastName:          "Doe",
		City:              "Austin",
		Degree:            "MD",
		Specialties:       []string{"CBT", "Trauma & PTSD"},
		YearsOfExperience: 5,
		PhoneNumber:       5550134,
		CreatedAt:         now,
	}
	john := advocaterepoport.Advocate{
		ID:                domain.AdvocateID(uuid.NewString()),
		FirstName:         "John",
		LastName:          "Smith",
		City:              "Boston",
		Degree:            "PhD",
		Specialties:       nil,
		YearsOfExperience: 12,
		PhoneNumber:       6175550000,
		CreatedAt:         now,
	}
	percy := advocaterepoport.Advocate{
		ID:                domain.AdvocateID(uuid.NewString()),
		FirstName:         "Percy",
		LastName:          "O'Neil",
		City:              "New York",
		Degree:            "MSW",
		Specialties:       []string{"Grief"},
		YearsOfExperience: 0,
		PhoneNumber:       3475550199,
		CreatedAt:         now,
	}
	renee := advocaterepoport.Advocate{
		ID:                domain.AdvocateID(uuid.NewString()),
		FirstName:         "Renée",
		LastName:          "Müller",
		City:              "Zürich",
		Degree:            "DSW",
		Specialties:       []string{"Eating Disorders"},
		YearsOfExperience: 3,
		PhoneNumber:       4155550177,
		CreatedAt:         now,
	}
	for _, a := range []advocaterepoport.Advocate{jane, john, percy, renee} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create %s: %v", a.FirstName, err)
		}
	}

	// Duplicate IDs are rejected.
	if err := repo.Create(ctx, jane); !errors.Is(err, advocaterepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, jane.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FirstName != "Jane" || got.City != "Austin" || got.YearsOfExperience != 5 || got.PhoneNumber != 5550134 {
		t.Fatalf("GetByID=%+v", got)
	}
	if len(got.Specialties) != 2 || got.Specialties[0] != "CBT" || got.Specialties[1] != "Trauma & PTSD" {
		t.Fatalf("specialties=%v, want ordered [CBT Trauma & PTSD]", got.Specialties)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}

	gotJohn, err := repo.GetByID(ctx, john.ID)
	if err != nil {
		t.Fatalf("GetByID john: %v", err)
	}
	if gotJohn.Specialties == nil || len(gotJohn.Specialties) != 0 {
		t.Fatalf("nil specialties must read back as empty, got %#v", gotJohn.Specialties)
	}

	if _, err := repo.GetByID(ctx, domain.AdvocateID(uuid.NewString())); !errors.Is(err, advocaterepoport.ErrNotFound) {
		t.Fatalf("GetByID missing err=%v, want ErrNotFound", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertIDs(t, "List", all, jane.ID, john.ID, percy.ID, renee.ID)

	core := search.DefaultPolicy()
	extended := search.ExtendedPolicy()
	cases := []struct {
		name   string
		term   string
		policy search.Policy
		want   []domain.AdvocateID
	}{
		{name: "empty term returns all", term: "", policy: core, want: []domain.AdvocateID{jane.ID, john.ID, percy.ID, renee.ID}},
		{name: "city", term: "austin", policy: core, want: []domain.AdvocateID{jane.ID}},
		{name: "upper-case term", term: "SMITH", policy: core, want: []domain.AdvocateID{john.ID}},
		{name: "substring of first name", term: "oh", policy: core, want: []domain.AdvocateID{john.ID}},
		{name: "degree", term: "ph", policy: core, want: []domain.AdvocateID{john.ID}},
		{name: "whitespace is significant", term: "new y", policy: core, want: []domain.AdvocateID{percy.ID}},
		{name: "quote is literal", term: "o'n", policy: core, want: []domain.AdvocateID{percy.ID}},
		{name: "no match", term: "xyz", policy: core, want: nil},
		{name: "accented upper-case term", term: "ZÜRICH", policy: core, want: []domain.AdvocateID{renee.ID}},
		{name: "accented lower-case term", term: "renée", policy: core, want: []domain.AdvocateID{renee.ID}},
		{name: "accent is significant", term: "muller", policy: core, want: nil},
		{name: "like wildcard is literal", term: "%", policy: core, want: nil},
		{name: "underscore is literal", term: "_", policy: core, want: nil},
		{name: "specialties excluded by default", term: "cbt", policy: core, want: nil},
		{name: "phone excluded by default", term: "555", policy: core, want: nil},
		{name: "extended specialties", term: "ptsd", policy: extended, want: []domain.AdvocateID{jane.ID}},
		{name: "extended years", term: "12", policy: extended, want: []domain.AdvocateID{john.ID}},
		{name: "extended phone", term: "0199", policy: extended, want: []domain.AdvocateID{percy.ID}},
		{name: "extended still matches core", term: "boston", policy: extended, want: []domain.AdvocateID{john.ID}},
	}
	for _, tc := range cases {
		res, err := repo.Search(ctx, advocaterepoport.Query{Term: tc.term, Policy: tc.policy})
		if err != nil {
			t.Fatalf("%s: Search(%q): %v", tc.name, tc.term, err)
		}
		if res == nil {
			t.Fatalf("%s: Search(%q) returned nil slice, want non-nil", tc.name, tc.term)
		}
		assertIDs(t, tc.name, res, tc.want...)
	}
}

func assertIDs(t *testing.T, label string, got []advocaterepoport.Advocate, want ...domain.AdvocateID) {
	t.Helper()
	g := make([]string, 0, len(got))
	for _, a := range got {
		g = append(g, string(a.ID))
	}
	w := make([]string, 0, len(want))
	for _, id := range want {
		w = append(w, string(id))
	}
	sort.Strings(g)
	sort.Strings(w)
	if len(g) != len(w) {
		t.Fatalf("%s: got %d records %v, want %d %v", label, len(g), g, len(w), w)
	}
	for i := range g {
		if g[i] != w[i] {
			t.Fatalf("%s: got %v, want %v", label, g, w)
		}
	}
}
