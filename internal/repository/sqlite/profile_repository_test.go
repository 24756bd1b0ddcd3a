package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/danielvr/adaptengine/internal/repository"
	"github.com/danielvr/adaptengine/internal/repository/sqlite"
	"github.com/danielvr/adaptengine/internal/testutil"
)

type ProfileRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProfileRepository
}

func (s *ProfileRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProfileRepository(s.db)
}

func (s *ProfileRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProfileRepositorySuite) TestGetMissingReturnsNil() {
	profile, err := s.repo.Get(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Assert().Nil(profile)
}

func (s *ProfileRepositorySuite) TestEnsureIsIdempotent() {
	ctx := context.Background()

	first, err := s.repo.Ensure(ctx, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(first)
	s.Assert().Equal("A1", first.Level, "new profiles start at A1")
	s.Assert().Equal(0.0, first.AdherenceScore)

	s.Require().NoError(s.repo.IncrementAdherence(ctx, "u1", 2))

	second, err := s.repo.Ensure(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(2.0, second.AdherenceScore, "ensure must not reset an existing profile")
}

func (s *ProfileRepositorySuite) TestUpdateLevel() {
	ctx := context.Background()
	_, err := s.repo.Ensure(ctx, "u1")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.UpdateLevel(ctx, "u1", "B2"))

	profile, err := s.repo.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal("B2", profile.Level)
}

func (s *ProfileRepositorySuite) TestAdherenceAccumulates() {
	ctx := context.Background()
	_, err := s.repo.Ensure(ctx, "u1")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.IncrementAdherence(ctx, "u1", 1))
	s.Require().NoError(s.repo.IncrementAdherence(ctx, "u1", 0.5))
	s.Require().NoError(s.repo.IncrementAdherence(ctx, "u1", -1))

	profile, err := s.repo.Get(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(0.5, profile.AdherenceScore)
}

func (s *ProfileRepositorySuite) TestQueueSetSemantics() {
	ctx := context.Background()
	_, err := s.repo.Ensure(ctx, "u1")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.QueueAdd(ctx, "u1", "ref-a"))
	s.Require().NoError(s.repo.QueueAdd(ctx, "u1", "ref-b"))
	s.Require().NoError(s.repo.QueueAdd(ctx, "u1", "ref-a"), "re-adding must not error")

	refs, err := s.repo.Queue(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Len(refs, 2, "the queue is a set")

	s.Require().NoError(s.repo.QueueRemove(ctx, "u1", "ref-a"))
	refs, err = s.repo.Queue(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"ref-b"}, refs)

	s.Require().NoError(s.repo.QueueRemove(ctx, "u1", "ref-a"), "removing a missing ref is a no-op")
}

func TestProfileRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProfileRepositorySuite))
}
