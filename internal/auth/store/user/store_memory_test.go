package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"prontuario/internal/auth/models"
	id "prontuario/pkg/domain"
	"prontuario/pkg/platform/sentinel"
)

type UserStoreSuite struct {
	suite.Suite
	store *InMemory
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func newUser(email string) *models.User {
	return &models.User{
		ID:           id.NewUserID(),
		Email:        email,
		DisplayName:  "Dr. Teste",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
}

func (s *UserStoreSuite) TestCreateAndFind() {
	user := newUser("medico@example.com")
	s.Require().NoError(s.store.Create(context.Background(), user))

	byEmail, err := s.store.FindByEmail(context.Background(), "medico@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)

	byID, err := s.store.FindByID(context.Background(), user.ID)
	s.Require().NoError(err)
	s.Equal(user.Email, byID.Email)
}

func (s *UserStoreSuite) TestEmailUniquenessIsCaseInsensitive() {
	s.Require().NoError(s.store.Create(context.Background(), newUser("medico@example.com")))

	err := s.store.Create(context.Background(), newUser("MEDICO@example.com"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *UserStoreSuite) TestFindByEmailIsCaseInsensitive() {
	s.Require().NoError(s.store.Create(context.Background(), newUser("medico@example.com")))

	found, err := s.store.FindByEmail(context.Background(), "Medico@Example.com")
	s.Require().NoError(err)
	s.Equal("medico@example.com", found.Email)
}

func (s *UserStoreSuite) TestMissingUserReturnsNotFound() {
	_, err := s.store.FindByEmail(context.Background(), "nobody@example.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByID(context.Background(), id.NewUserID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *UserStoreSuite) TestReturnsCopies() {
	user := newUser("medico@example.com")
	s.Require().NoError(s.store.Create(context.Background(), user))

	found, err := s.store.FindByID(context.Background(), user.ID)
	s.Require().NoError(err)
	found.DisplayName = "mutated"

	again, err := s.store.FindByID(context.Background(), user.ID)
	s.Require().NoError(err)
	s.Equal("Dr. Teste", again.DisplayName)
}
