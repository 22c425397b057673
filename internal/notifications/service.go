package notifications

import (
	"context"
	"errors"
)

// Service contains business logic for expert notifications.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// ListForExpert returns the expert's notifications newest-first.
func (s *Service) ListForExpert(ctx context.Context, expertID string) ([]Notification, error) {
	if expertID == "" {
		return nil, errors.New("expertID is required")
	}
	return s.Repo.ListByExpert(ctx, expertID)
}

// MarkViewed marks a notification viewed on behalf of the expert.
func (s *Service) MarkViewed(ctx context.Context, expertID, notificationID string) (Notification, error) {
	if err := s.authorize(ctx, expertID, notificationID); err != nil {
		return Notification{}, err
	}
	return s.Repo.MarkViewed(ctx, notificationID)
}

// Respond records the expert's accept/reject decision.
func (s *Service) Respond(ctx context.Context, expertID, notificationID string, accepted bool) (Notification, error) {
	if err := s.authorize(ctx, expertID, notificationID); err != nil {
		return Notification{}, err
	}
	return s.Repo.Respond(ctx, notificationID, accepted)
}

// authorize hides other experts' notifications behind ErrNotFound.
func (s *Service) authorize(ctx context.Context, expertID, notificationID string) error {
	if expertID == "" || notificationID == "" {
		return ErrNotFound
	}
	notification, err := s.Repo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.ExpertID != expertID {
		return ErrNotFound
	}
	return nil
}
