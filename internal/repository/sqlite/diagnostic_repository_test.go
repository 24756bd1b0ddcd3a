package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
	"github.com/danielvr/adaptengine/internal/repository/sqlite"
	"github.com/danielvr/adaptengine/internal/testutil"
)

type DiagnosticRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.DiagnosticRepository
}

func (s *DiagnosticRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDiagnosticRepository(s.db)
}

func (s *DiagnosticRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DiagnosticRepositorySuite) createUser(id string) {
	_, err := s.db.ExecContext(context.Background(), `INSERT INTO users (id) VALUES (?)`, id)
	s.Require().NoError(err)
}

func (s *DiagnosticRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	s.createUser("u1")

	d := models.Diagnostic{
		ID:        "d1",
		UserID:    "u1",
		Status:    models.DiagnosticInProgress,
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.repo.Insert(ctx, d))

	stored, err := s.repo.Get(ctx, "u1", "d1")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Assert().Equal(models.DiagnosticInProgress, stored.Status)
	s.Assert().Nil(stored.OverallScore)
	s.Assert().Empty(stored.LevelAssigned)
	s.Assert().Nil(stored.Strengths)
}

func (s *DiagnosticRepositorySuite) TestGetMissingReturnsNil() {
	stored, err := s.repo.Get(context.Background(), "u1", "nope")
	s.Require().NoError(err)
	s.Assert().Nil(stored)
}

func (s *DiagnosticRepositorySuite) TestComplete() {
	ctx := context.Background()
	s.createUser("u1")

	d := models.Diagnostic{
		ID:        "d1",
		UserID:    "u1",
		Status:    models.DiagnosticInProgress,
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.repo.Insert(ctx, d))

	overall := 68
	completedAt := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	d.Status = models.DiagnosticCompleted
	d.GrammarScore = 50
	d.ListeningScore = 70
	d.PronunciationScore = 80
	d.OverallScore = &overall
	d.LevelAssigned = "B2"
	d.Strengths = []string{"good listening comprehension", "good pronunciation"}
	d.Weaknesses = nil
	d.CompletedAt = &completedAt

	s.Require().NoError(s.repo.Complete(ctx, d))

	stored, err := s.repo.Get(ctx, "u1", "d1")
	s.Require().NoError(err)
	s.Assert().Equal(models.DiagnosticCompleted, stored.Status)
	s.Require().NotNil(stored.OverallScore)
	s.Assert().Equal(68, *stored.OverallScore)
	s.Assert().Equal("B2", stored.LevelAssigned)
	s.Assert().Equal([]string{"good listening comprehension", "good pronunciation"}, stored.Strengths)
	s.Assert().Nil(stored.Weaknesses)
	s.Require().NotNil(stored.CompletedAt)
}

func TestDiagnosticRepositorySuite(t *testing.T) {
	suite.Run(t, new(DiagnosticRepositorySuite))
}
