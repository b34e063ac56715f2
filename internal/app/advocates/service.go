package advocates

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/solace-advocates/advocate-directory-api/internal/domain"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/metrics"
	"github.com/solace-advocates/advocate-directory-api/internal/ports/out/advocaterepo"
	clockport "github.com/solace-advocates/advocate-directory-api/internal/ports/out/clock"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
)

const tracerName = "github.com/solace-advocates/advocate-directory-api/internal/app/advocates"

type Service struct {
	repo     advocaterepo.Repository
	clk      clockport.Clock
	policy   search.Policy
	validate *validator.Validate
	tracer   trace.Tracer
	metrics  *metrics.Metrics

	newAdvocateID func() domain.AdvocateID

	// MaxTermLength bounds the search term in runes. Zero disables the check.
	MaxTermLength int
}

type Option func(*Service)

// WithPolicy sets the matching policy used for searches.
func WithPolicy(p search.Policy) Option {
	return func(s *Service) { s.policy = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer(tracerName) }
}

func NewService(repo advocaterepo.Repository, clk clockport.Clock, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		clk:      clk,
		policy:   search.DefaultPolicy(),
		validate: newValidator(),
		tracer:   otel.Tracer(tracerName),
		newAdvocateID: func() domain.AdvocateID {
			return domain.AdvocateID(uuid.NewString())
		},
		MaxTermLength: 256,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy reports the matching policy searches run under.
func (s *Service) Policy() search.Policy {
	return s.policy
}

func (s *Service) ListAdvocates(ctx context.Context) ([]domain.Advocate, error) {
	return s.SearchAdvocates(ctx, "")
}

// SearchAdvocates returns every advocate matching term under the service policy,
// in the store's natural order. An empty term returns all advocates.
func (s *Service) SearchAdvocates(ctx context.Context, term string) (out []domain.Advocate, err error) {
	ctx, span := s.tracer.Start(ctx, "advocates.Search", trace.WithAttributes(
		attribute.Bool("search.filtered", term != ""),
		attribute.Bool("search.extended", s.policy.Extended()),
	))
	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("search.results", len(out)))
		}
		span.End()
		s.metrics.ObserveSearch(term != "", time.Since(start), len(out), err)
	}()

	if s.MaxTermLength > 0 && s.validate.Var(term, fmt.Sprintf("max=%d", s.MaxTermLength)) != nil {
		return nil, validationError("invalid searchTerm", map[string]any{
			"searchTerm": fmt.Sprintf("must be at most %d characters", s.MaxTermLength),
		})
	}

	as, err := s.repo.Search(ctx, advocaterepo.Query{Term: term, Policy: s.policy})
	if err != nil {
		return nil, err
	}
	out = make([]domain.Advocate, 0, len(as))
	for _, a := range as {
		out = append(out, advocaterepo.ToDomain(a))
	}
	return out, nil
}

// ImportAdvocates validates every input before persisting any of them, then
// creates them in order. It returns how many were created; a store failure
// part way leaves the earlier records in place.
func (s *Service) ImportAdvocates(ctx context.Context, in []ImportAdvocateInput) (int, error) {
	records := make([]advocaterepo.Advocate, 0, len(in))
	now := s.clk.Now()
	for i, item := range in {
		item.FirstName = domain.NormalizeHumanName(item.FirstName)
		item.LastName = domain.NormalizeHumanName(item.LastName)
		item.City = domain.NormalizeHumanName(item.City)
		item.Degree = domain.NormalizeHumanName(item.Degree)
		item.Specialties = domain.NormalizeSpecialties(item.Specialties)

		if err := s.validate.Struct(item); err != nil {
			return 0, importValidationError(i, err)
		}
		records = append(records, advocaterepo.Advocate{
			ID:                s.newAdvocateID(),
			FirstName:         item.FirstName,
			LastName:          item.LastName,
			City:              item.City,
			Degree:            item.Degree,
			Specialties:       item.Specialties,
			YearsOfExperience: item.YearsOfExperience,
			PhoneNumber:       item.PhoneNumber,
			CreatedAt:         now,
		})
	}

	for i, r := range records {
		if err := s.repo.Create(ctx, r); err != nil {
			if errors.Is(err, advocaterepo.ErrAlreadyExists) {
				return i, &Error{
					Status:  409,
					Code:    "ADVOCATE_ALREADY_EXISTS",
					Message: "An advocate with this id already exists.",
					Details: map[string]any{"index": i},
				}
			}
			return i, fmt.Errorf("create advocate %d: %w", i, err)
		}
	}
	return len(records), nil
}

func importValidationError(index int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := map[string]any{"index": index}
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return validationError("invalid advocate", details)
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
