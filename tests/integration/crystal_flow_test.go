package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/MRIIOT/crystal-mcp-server-public/internal/config"
	"github.com/MRIIOT/crystal-mcp-server-public/internal/crystal"
	"github.com/MRIIOT/crystal-mcp-server-public/internal/library"
	"github.com/MRIIOT/crystal-mcp-server-public/internal/matcher"
	mcpserver "github.com/MRIIOT/crystal-mcp-server-public/internal/mcp"
	"github.com/MRIIOT/crystal-mcp-server-public/pkg/types"
)

// CrystalFlowTestSuite exercises the full stack the way a serving
// process wires it: config from environment, server bootstrap, then
// document queries and crystal round-trips against the real filesystem.
type CrystalFlowTestSuite struct {
	suite.Suite
	cfg *config.Config
}

func TestCrystalFlowTestSuite(t *testing.T) {
	suite.Run(t, new(CrystalFlowTestSuite))
}

func (s *CrystalFlowTestSuite) SetupTest() {
	home := s.T().TempDir()
	s.T().Setenv(config.EnvHome, home)
	s.T().Setenv(config.EnvConfig, "")
	s.Require().NoError(os.Unsetenv(config.EnvConfig))

	cfg, err := config.Load()
	s.Require().NoError(err)
	s.cfg = cfg

	// Server construction bootstraps the directory tree.
	_, err = mcpserver.NewServer(cfg, crystal.NullScanner(), nil)
	s.Require().NoError(err)
}

func (s *CrystalFlowTestSuite) writeDoc(dir, name, content string) {
	s.T().Helper()
	path := filepath.Join(s.cfg.Home, dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0644))
}

func (s *CrystalFlowTestSuite) TestProtocolQueryFlow() {
	s.writeDoc(s.cfg.ProtocolDir, "CRYSTALLIZATION_PROTOCOL_2.0.txt", "v2.0 body")
	s.writeDoc(s.cfg.ProtocolDir, "CRYSTALLIZATION_PROTOCOL_2.1_with_compression.txt", "v2.1 body")

	lib, err := library.New(s.cfg.Home, s.cfg.ProtocolDir, matcher.SpecClass, nil)
	s.Require().NoError(err)

	result, content, err := lib.Query(context.Background(), "compression 2.1")
	s.Require().NoError(err)

	s.True(result.Matched)
	s.Equal("CRYSTALLIZATION_PROTOCOL_2.1_with_compression.txt", result.Match)
	s.Equal("v2.1 body", content)
	s.GreaterOrEqual(result.Score, matcher.Threshold)
}

func (s *CrystalFlowTestSuite) TestCodexQueryFlow() {
	s.writeDoc(s.cfg.CodexDir, "CRYSTALLIZATION_TEMPORAL_3.0.cp", "temporal body")

	lib, err := library.New(s.cfg.Home, s.cfg.CodexDir, matcher.CodexClass, nil)
	s.Require().NoError(err)

	result, content, err := lib.Query(context.Background(), "temporal 3.0")
	s.Require().NoError(err)

	s.True(result.Matched)
	s.Equal("temporal body", content)

	// A hopeless query still yields diagnostics.
	miss, _, err := lib.Query(context.Background(), "nonexistent 9.9")
	s.Require().NoError(err)
	s.False(miss.Matched)
	s.NotEmpty(miss.Suggestions)
}

func (s *CrystalFlowTestSuite) TestCrystalRoundTrip() {
	store, err := crystal.NewStore(s.cfg.Home, s.cfg.StoreDir, crystal.NullScanner(), nil)
	s.Require().NoError(err)
	ctx := context.Background()

	created, err := store.Create(ctx, crystal.CreateRequest{
		Title:   "Integration",
		Content: "integration body",
	})
	s.Require().NoError(err)

	// A second store over the same directory sees the record: the
	// filesystem is the only shared state.
	reopened, err := crystal.NewStore(s.cfg.Home, s.cfg.StoreDir, crystal.NullScanner(), nil)
	s.Require().NoError(err)

	got, err := reopened.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("integration body", got.Content)

	summaries, err := reopened.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(created.ID, summaries[0].ID)
	s.Equal("Integration", summaries[0].Title)
}

func (s *CrystalFlowTestSuite) TestNotFoundEnumerationContract() {
	store, err := crystal.NewStore(s.cfg.Home, s.cfg.StoreDir, crystal.NullScanner(), nil)
	s.Require().NoError(err)
	ctx := context.Background()

	created, err := store.Create(ctx, crystal.CreateRequest{Content: "x"})
	s.Require().NoError(err)

	_, err = store.Get(ctx, "crystal-missing")
	s.ErrorIs(err, types.ErrNotFound)

	ids, err := store.IDs(ctx)
	s.Require().NoError(err)
	s.Contains(ids, created.ID)
	s.NotContains(ids, "crystal-missing")
}
