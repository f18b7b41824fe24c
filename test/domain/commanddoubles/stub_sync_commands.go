//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// StubSyncRepositoryCommand is a stub implementation of commands.SyncRepository.
type StubSyncRepositoryCommand struct {
	ExecuteCallCount int
	ExecuteResult    commands.SyncResult
	ExecuteErr       error
	LastURL          string
}

var _ commands.SyncRepository = (*StubSyncRepositoryCommand)(nil)

func (s *StubSyncRepositoryCommand) Execute(_ context.Context, repoURL string) (commands.SyncResult, error) {
	s.ExecuteCallCount++
	s.LastURL = repoURL
	return s.ExecuteResult, s.ExecuteErr
}

// StubSyncOrganizationCommand is a stub implementation of commands.SyncOrganization.
type StubSyncOrganizationCommand struct {
	ExecuteCallCount int
	ExecuteResult    *entities.Organisation
	ExecuteErr       error
	LastSource       string
	LastName         string
}

var _ commands.SyncOrganization = (*StubSyncOrganizationCommand)(nil)

func (s *StubSyncOrganizationCommand) Execute(
	_ context.Context,
	sourceName, name string,
) (*entities.Organisation, error) {
	s.ExecuteCallCount++
	s.LastSource = sourceName
	s.LastName = name
	return s.ExecuteResult, s.ExecuteErr
}
