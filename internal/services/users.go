package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/globatech/sirest/internal/entity"
	"github.com/globatech/sirest/internal/errs"
	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/models"
)

type emailIndex struct {
	UserID string `json:"userId"`
}

type SignupInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
	Phone    string      `json:"phone"`
}

// UserService owns accounts: self-serve customer signup, admin-created staff,
// password checks for login, deactivation. Password hashes live in a separate
// credential record; profiles returned from here are safe to serialize.
type UserService struct {
	kv          *kvstore.Store
	users       *entity.Repo[models.UserProfile]
	credentials *entity.Repo[models.Credential]
	log         *logrus.Entry
}

func NewUserService(kv *kvstore.Store, repos *Repos, log *logrus.Logger) *UserService {
	return &UserService{
		kv:          kv,
		users:       repos.Users,
		credentials: repos.Credentials,
		log:         log.WithField("component", "users"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) emailKey(email string) string {
	return entity.Key(KindUserByEmail, normalizeEmail(email))
}

func (s *UserService) lookupEmail(ctx context.Context, email string) (string, error) {
	raw, _, err := s.kv.Get(ctx, s.emailKey(email))
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", errs.ErrNotFound
	}
	if err != nil {
		return "", errs.Storage("lookup email", err)
	}
	var idx emailIndex
	if err := json.Unmarshal(raw, &idx); err != nil {
		return "", errs.Storage("decode email index", err)
	}
	return idx.UserID, nil
}

func validateSignup(in SignupInput) error {
	verr := &errs.ValidationError{Violations: map[string]string{}}
	if normalizeEmail(in.Email) == "" || !strings.Contains(in.Email, "@") {
		verr.Violations["email"] = "invalid"
	}
	if len(in.Password) < 6 {
		verr.Violations["password"] = "too_short"
	}
	if strings.TrimSpace(in.Name) == "" {
		verr.Violations["name"] = "required"
	}
	if len(verr.Violations) > 0 {
		verr.Msg = "validation_failed"
		return verr
	}
	return nil
}

// Register creates a profile plus credential. Self-serve signups are always
// customers; staff roles require an authenticated admin (enforced by the
// handler). Returns ErrConflict when the email is already registered.
func (s *UserService) Register(ctx context.Context, in SignupInput, by string) (*models.UserProfile, error) {
	if err := validateSignup(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.Valid() {
		return nil, errs.Invalid("role", "unknown")
	}

	email := normalizeEmail(in.Email)
	if _, err := s.lookupEmail(ctx, email); err == nil {
		return nil, errs.ErrConflict
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Storage("hash password", err)
	}

	user := models.UserProfile{
		Email:  email,
		Name:   strings.TrimSpace(in.Name),
		Role:   role,
		Phone:  in.Phone,
		Active: true,
	}
	if err := s.users.Create(ctx, &user, by); err != nil {
		return nil, err
	}

	cred := models.Credential{UserID: user.ID, Email: email, PasswordHash: string(hash)}
	if err := s.credentials.CreateWithID(ctx, user.ID, &cred, by); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(emailIndex{UserID: user.ID})
	if err != nil {
		return nil, errs.Storage("encode email index", err)
	}
	if err := s.kv.Set(ctx, s.emailKey(email), raw); err != nil {
		return nil, errs.Storage("index email", err)
	}
	return &user, nil
}

// ErrBadCredentials deliberately covers both unknown email and wrong
// password so login responses never reveal which one failed.
var ErrBadCredentials = errors.New("bad credentials")

// Authenticate checks email and password and returns the active profile.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.UserProfile, error) {
	userID, err := s.lookupEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	cred, _, err := s.credentials.Get(ctx, userID)
	if err != nil {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	user, _, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, ErrBadCredentials
	}
	if !user.Active {
		return nil, ErrBadCredentials
	}
	return user, nil
}

// IsActive reports whether the user still exists and is not deactivated.
// Used as the per-request token verifier.
func (s *UserService) IsActive(ctx context.Context, userID string) bool {
	user, _, err := s.users.Get(ctx, userID)
	return err == nil && user.Active
}

func (s *UserService) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	user, _, err := s.users.Get(ctx, id)
	return user, err
}

func (s *UserService) List(ctx context.Context) ([]models.UserProfile, error) {
	return s.users.List(ctx)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < 6 {
		return errs.Invalid("newPassword", "too_short")
	}
	cred, _, err := s.credentials.Get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(current)) != nil {
		return ErrBadCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return errs.Storage("hash password", err)
	}
	_, err = s.credentials.Update(ctx, userID, userID, func(c *models.Credential) error {
		c.PasswordHash = string(hash)
		return nil
	})
	return err
}

// ProfileUpdate carries the self-serve editable fields. Nil fields are left
// untouched; email, role and active status are not editable here.
type ProfileUpdate struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.UserProfile, error) {
	return s.users.Update(ctx, userID, userID, func(u *models.UserProfile) error {
		if upd.Name != nil {
			if strings.TrimSpace(*upd.Name) == "" {
				return errs.Invalid("name", "required")
			}
			u.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Phone != nil {
			u.Phone = *upd.Phone
		}
		if upd.Avatar != nil {
			u.Avatar = *upd.Avatar
		}
		return nil
	})
}

// Deactivate disables login for a user; the profile and its history remain.
func (s *UserService) Deactivate(ctx context.Context, id, note, by string) (*models.UserProfile, error) {
	return s.users.Update(ctx, id, by, func(u *models.UserProfile) error {
		now := time.Now().UTC()
		u.Active = false
		u.DeactivationNote = note
		u.DeactivatedAt = &now
		u.DeactivatedBy = by
		return nil
	})
}

func (s *UserService) Reactivate(ctx context.Context, id, by string) (*models.UserProfile, error) {
	return s.users.Update(ctx, id, by, func(u *models.UserProfile) error {
		now := time.Now().UTC()
		u.Active = true
		u.ReactivatedAt = &now
		u.ReactivatedBy = by
		return nil
	})
}
