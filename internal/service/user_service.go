package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"point-arena/internal/domain"
)

var screenNameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,}$`)

// UserService owns the thin user-profile flows around the core.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// EnsureCreated returns the user for an authenticated subject, creating a
// blank profile on first contact.
func (s *UserService) EnsureCreated(ctx context.Context, subject string) (*domain.User, error) {
	user, err := s.users.GetBySubject(ctx, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: load user: %v", domain.ErrInternal, err)
	}

	user = domain.NewUser(subject)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: create user: %v", domain.ErrInternal, err)
	}
	return user, nil
}

type UpdateMeInput struct {
	ScreenName  string `json:"screen_name"`
	DisplayName string `json:"display_name"`
	PictureURL  string `json:"picture_url"`
}

func (s *UserService) UpdateMe(ctx context.Context, subject string, input UpdateMeInput) (*domain.User, error) {
	if !screenNameRe.MatchString(input.ScreenName) {
		return nil, fmt.Errorf("%w: screen_name does not match the policy", domain.ErrBadRequest)
	}

	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user for subject", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: load user: %v", domain.ErrInternal, err)
	}

	user.ScreenName = input.ScreenName
	user.DisplayName = input.DisplayName
	user.PictureURL = input.PictureURL

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: save user: %v", domain.ErrInternal, err)
	}
	return user, nil
}
