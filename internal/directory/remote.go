package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
)

// RemoteSource reads advocates from the directory HTTP API.
type RemoteSource struct {
	base   *url.URL
	client *http.Client
}

var _ Source = (*RemoteSource)(nil)

func NewRemoteSource(baseURL string, client *http.Client) (*RemoteSource, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url must be http or https, got %q", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteSource{base: u, client: client}, nil
}

type advocateResponse struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	City              string     `json:"city"`
	Degree            string     `json:"degree"`
	Specialties       []string   `json:"specialties"`
	YearsOfExperience int        `json:"yearsOfExperience"`
	PhoneNumber       int64      `json:"phoneNumber"`
	CreatedAt         *time.Time `json:"createdAt"`
}

type listResponse struct {
	Data []advocateResponse `json:"data"`
}

type policyResponse struct {
	Fields []string `json:"fields"`
}

// Fetch calls GET /api/advocates. Any non-200 response is an error.
func (s *RemoteSource) Fetch(ctx context.Context, term string) ([]domain.Advocate, error) {
	q := url.Values{}
	q.Set("searchTerm", term)

	var body listResponse
	if err := s.getJSON(ctx, "/api/advocates", q, &body); err != nil {
		return nil, err
	}
	out := make([]domain.Advocate, 0, len(body.Data))
	for _, a := range body.Data {
		d := domain.Advocate{
			ID:                domain.AdvocateID(a.ID),
			FirstName:         a.FirstName,
			LastName:          a.LastName,
			City:              a.City,
			Degree:            a.Degree,
			Specialties:       domain.CloneSpecialties(a.Specialties),
			YearsOfExperience: a.YearsOfExperience,
			PhoneNumber:       a.PhoneNumber,
		}
		if a.CreatedAt != nil {
			d.CreatedAt = a.CreatedAt.UTC()
		}
		out = append(out, d)
	}
	return out, nil
}

// Policy calls GET /api/search-policy so local filtering matches the server.
func (s *RemoteSource) Policy(ctx context.Context) (search.Policy, error) {
	var body policyResponse
	if err := s.getJSON(ctx, "/api/search-policy", nil, &body); err != nil {
		return search.Policy{}, err
	}
	return search.PolicyFromFields(body.Fields), nil
}

func (s *RemoteSource) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	u := *s.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
