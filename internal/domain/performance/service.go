package performance

import (
	"context"

	"perfreview/internal/domain/review"
)

// Service hosts the review use cases. Every mutating use case validates in a fixed
// order and stops at the first failure without touching later repositories:
//
//	cycle -> phase deadline -> employee -> manager / relationship -> artifact -> artifact rule
//
// Repository errors are returned as-is.
type Service struct {
	stores     Stores
	aggregator Aggregator
	calculator Calculator
	teamFanout int
	reportsDir string
}

type Option func(*Service)

func WithAggregator(a Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

func WithCalculator(c Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.calculator = c
		}
	}
}

// WithTeamFanout bounds how many direct reports GetTeamReviews loads at once.
func WithTeamFanout(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.teamFanout = n
		}
	}
}

func WithReportsDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.reportsDir = dir
		}
	}
}

func NewService(stores Stores, opts ...Option) *Service {
	s := &Service{
		stores:     stores,
		aggregator: review.NewPeerFeedbackAggregator(),
		calculator: review.NewFinalScoreCalculator(),
		teamFanout: DefaultTeamFanout,
		reportsDir: "storage/reports",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateCycle(ctx context.Context, in CycleInput) (cycle *review.ReviewCycle, err error) {
	defer func() { recordRejection(artifactReviewCycle, err) }()

	cycle, err = review.NewReviewCycle(in.Name, in.StartDate, in.EndDate, in.Deadlines)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Cycles.Save(ctx, cycle); err != nil {
		return nil, err
	}
	return cycle, nil
}

func (s *Service) GetCycle(ctx context.Context, cycleID review.ReviewCycleID) (*review.ReviewCycle, error) {
	return s.loadCycle(ctx, cycleID)
}

func (s *Service) loadCycle(ctx context.Context, cycleID review.ReviewCycleID) (*review.ReviewCycle, error) {
	cycle, err := s.stores.Cycles.FindByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, review.ErrCycleNotFound
	}
	return cycle, nil
}

func (s *Service) loadUser(ctx context.Context, userID review.UserID, notFound error) (*review.User, error) {
	user, err := s.stores.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound
	}
	return user, nil
}

// loadDirectReport loads the employee and then the acting manager, and checks
// the manager is the employee's stored manager.
func (s *Service) loadDirectReport(ctx context.Context, managerID, employeeID review.UserID) (*review.User, error) {
	employee, err := s.loadUser(ctx, employeeID, review.ErrEmployeeNotFound)
	if err != nil {
		return nil, err
	}
	manager, err := s.stores.Users.FindByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if err := review.AuthorizeManager(employee, manager); err != nil {
		return nil, err
	}
	return employee, nil
}
