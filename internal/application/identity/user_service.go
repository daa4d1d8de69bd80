package identity

import (
	"context"

	"github.com/clinic/backend/internal/domain/identity"
	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService provides staff account administration
type UserService struct {
	userRepo identity.UserRepository
	clock    shared.Clock
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		clock:    clock,
		logger:   logger,
	}
}

// CreateUserRequest represents a request to register a staff account
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required"`
}

// Create registers a new staff account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_USERNAME", "Username is already taken")
	}

	user, err := identity.NewUser(req.Username, req.DisplayName, req.Password, identity.Role(req.Role), s.clock.Now())
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := user.SetEmail(req.Email, s.clock.Now()); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()),
	)

	resp := toUserResponse(user)
	return &resp, nil
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ListByRole lists all active users with the given role
func (s *UserService) ListByRole(ctx context.Context, role string) ([]UserResponse, error) {
	users, err := s.userRepo.FindByRole(ctx, identity.Role(role))
	if err != nil {
		return nil, err
	}
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	return responses, nil
}

// Deactivate disables sign-in for a staff account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	user.Deactivate(s.clock.Now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("staff account deactivated",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return nil
}

func (s *UserService) findUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	return user, nil
}
