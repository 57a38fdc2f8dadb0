package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/identity"
	"hoa-backend-go/internal/push"
)

type authService struct {
	idp     IdentityProvider
	members MemberService
	repo    db.MemberRepository
	logger  *zap.Logger
}

// NewAuthService creates an AuthService. Members returned by Login are
// presented through members so contact details are decrypted for their owner.
func NewAuthService(idp IdentityProvider, members MemberService, repo db.MemberRepository, logger *zap.Logger) AuthService {
	return &authService{idp: idp, members: members, repo: repo, logger: logger}
}

func mapIdentityErr(err error) error {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	case errors.Is(err, identity.ErrUserDisabled):
		return ErrAccountDisabled
	}
	return err
}

func (s *authService) session(ctx context.Context, sess *identity.Session) (*LoginResult, error) {
	actor := Actor{ID: sess.UserID}
	member, err := s.members.Get(ctx, actor, sess.UserID)
	if errors.Is(err, ErrMemberNotFound) {
		return nil, fmt.Errorf("%w: uid '%s'", ErrNotAMember, sess.UserID)
	}
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		IDToken:      sess.IDToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    int(sess.ExpiresIn.Seconds()),
		Member:       member,
	}, nil
}

// Login signs in with e-mail and password. Only accounts with a member
// document are admitted.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	sess, err := s.idp.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, mapIdentityErr(err)
	}
	return s.session(ctx, sess)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	sess, err := s.idp.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, mapIdentityErr(err)
	}
	return s.session(ctx, sess)
}

// RequestPasswordReset never reports whether the address is registered.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.idp.SendPasswordReset(ctx, email); err != nil {
		s.logger.Info("password reset not sent", zap.Error(err))
	}
	return nil
}

func (s *authService) RegisterPushToken(ctx context.Context, actor Actor, token string) error {
	if !push.IsExpoToken(token) {
		return ErrInvalidPushToken
	}
	if err := s.repo.AddPushToken(ctx, actor.ID, token); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrMemberNotFound, err)
		}
		return err
	}
	return nil
}
