package itest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/solace-advocates/advocate-directory-api/internal/adapters/httpapi"
	memadvocaterepo "github.com/solace-advocates/advocate-directory-api/internal/adapters/memory/advocaterepo"
	memclock "github.com/solace-advocates/advocate-directory-api/internal/adapters/memory/clock"
	pgadvocaterepo "github.com/solace-advocates/advocate-directory-api/internal/adapters/postgres/advocaterepo"
	postgres_testutil "github.com/solace-advocates/advocate-directory-api/internal/adapters/postgres/testutil"
	"github.com/solace-advocates/advocate-directory-api/internal/app/advocates"
	advocaterepoport "github.com/solace-advocates/advocate-directory-api/internal/ports/out/advocaterepo"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
	"github.com/solace-advocates/advocate-directory-api/internal/seed"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

// newTestServer serves the seed data set from the given backend.
func newTestServer(t *testing.T, b backend, policy search.Policy) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var repo advocaterepoport.Repository
	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		repo = pgadvocaterepo.NewRepo(pool, 5*time.Second)
	case backendMemory:
		repo = memadvocaterepo.NewRepo()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	svc := advocates.NewService(repo, clk, advocates.WithPolicy(policy))
	if _, err := svc.ImportAdvocates(context.Background(), seed.Advocates()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	handler := httpapi.NewRouter(httpapi.NewServer(svc, nil))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) get(t *testing.T, path string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, s.url(path), nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

type advocateJSON struct {
	ID                string   `json:"id"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	City              string   `json:"city"`
	Degree            string   `json:"degree"`
	Specialties       []string `json:"specialties"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	PhoneNumber       int64    `json:"phoneNumber"`
	CreatedAt         string   `json:"createdAt"`
}

type listResponse struct {
	Data []advocateJSON `json:"data"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}
