package experts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for the expert directory.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// RegisterInput is the payload for registering an expert.
type RegisterInput struct {
	Name       string
	Email      string
	Industries []string
	Categories []string
}

// Register validates and stores a new active expert.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Expert, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return Expert{}, ErrInvalidInput
	}
	expert := Expert{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Industries: cleanList(input.Industries),
		Categories: cleanList(input.Categories),
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, expert); err != nil {
		return Expert{}, err
	}
	return expert, nil
}

// Get returns an expert by ID.
func (s *Service) Get(ctx context.Context, expertID string) (Expert, error) {
	if expertID == "" {
		return Expert{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, expertID)
}

// ListActive returns all active experts.
func (s *Service) ListActive(ctx context.Context) ([]Expert, error) {
	return s.Repo.ListActive(ctx)
}

func cleanList(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
