package service

import (
	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// Register creates a user. Duplicate usernames fail with
// domain.ErrAlreadyExists.
func (s *Service) Register(req domain.RegisterRequest) error {
	if err := s.check(req); err != nil {
		return err
	}
	if err := s.users.Register(req.Username, req.Password); err != nil {
		return err
	}
	s.logger.Info().Str("username", req.Username).Msg("user registered")
	return nil
}

// Login reports whether the credentials match a registered user.
func (s *Service) Login(req domain.LoginRequest) bool {
	return s.users.Login(req.Username, req.Password)
}
