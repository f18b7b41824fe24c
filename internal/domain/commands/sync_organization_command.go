package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories"
)

// profileRepository is the GitHub repository holding an organisation's public profile files.
const profileRepository = ".github"

// SyncOrganization is the interface for synchronising an organisation and its repositories.
type SyncOrganization interface {
	Execute(ctx context.Context, sourceName, name string) (*entities.Organisation, error)
}

// SyncOrganizationCommand upserts an organisation, applies its opencatalogi
// file and synchronises every repository it owns.
type SyncOrganizationCommand struct {
	sources  *infraRepos.SourceRegistry
	store    repositories.ObjectRepository
	repos    *SyncRepositoryCommand
	logos    *LogoResolver
	settings *entities.Settings
}

// NewSyncOrganizationCommand creates a new SyncOrganizationCommand.
func NewSyncOrganizationCommand(
	sources *infraRepos.SourceRegistry,
	store repositories.ObjectRepository,
	repos *SyncRepositoryCommand,
	logos *LogoResolver,
	settings *entities.Settings,
) *SyncOrganizationCommand {
	return &SyncOrganizationCommand{
		sources:  sources,
		store:    store,
		repos:    repos,
		logos:    logos,
		settings: settings,
	}
}

// Execute synchronises the organisation called name on the given source.
func (it *SyncOrganizationCommand) Execute(
	ctx context.Context,
	sourceName, name string,
) (*entities.Organisation, error) {
	source, err := it.sources.Get(sourceName)
	if err != nil {
		return nil, err
	}

	upstream, err := source.GetOrganization(ctx, name)
	if err != nil {
		if entities.StatusOf(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s on %s", entities.ErrOrganisationNotFound, name, sourceName)
		}
		return nil, fmt.Errorf("failed to fetch organisation %q: %w", name, err)
	}

	organisation, err := findOrCreateByKey[entities.Organisation](ctx, it.store, upstream.Name,
		func() *entities.Organisation { return &entities.Organisation{Name: upstream.Name} },
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up organisation %q: %w", upstream.Name, err)
	}
	mergeOrganisation(organisation, upstream)

	// legal owners reconciled below look the organisation up by name
	if err = save(ctx, it.store, organisation); err != nil {
		return nil, fmt.Errorf("failed to save organisation %q: %w", organisation.Name, err)
	}

	b := newBatch(it.store, it.settings.BatchSize)

	var links softwareLinks
	if source.Name() == entities.SourceGitHub {
		links = it.applyProfile(ctx, source, organisation, b)
	}

	logger.Infof("[%s] Discovering repositories of %q...", source.Name(), name)
	repos, err := source.DiscoverRepositories(ctx, name)
	if err != nil {
		logger.Errorf("[%s] Failed to discover repositories of %q: %v", source.Name(), name, err)
	}
	logger.Infof("[%s] Found %d repositories in %q", source.Name(), len(repos), name)

	for i := range repos {
		repo := repos[i]
		result, syncErr := it.repos.sync(ctx, repo.URL, SyncOptions{Repository: &repo})
		if syncErr != nil {
			logger.Errorf("[%s] Failed to sync %s: %v", source.Name(), repo.URL, syncErr)
			b.tick(ctx)
			continue
		}

		if result.Component != nil {
			links.owns = append(links.owns, result.Component.ID)
		}
		result.Repository.Organisation = organisation.ID
		if saveErr := save(ctx, it.store, result.Repository); saveErr != nil {
			logger.Errorf("[%s] Failed to link %s to %q: %v", source.Name(), repo.URL, organisation.Name, saveErr)
		}
		b.tick(ctx)
	}

	// repository syncs may have updated the organisation through legal owners
	record, err := it.store.Get(ctx, entities.KindOrganisation, organisation.ID)
	if err == nil {
		organisation, err = load[entities.Organisation](record)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload organisation %q: %w", upstream.Name, err)
	}
	links.applyTo(organisation)
	if err = save(ctx, it.store, organisation); err != nil {
		return nil, fmt.Errorf("failed to save organisation %q: %w", organisation.Name, err)
	}
	if err = b.done(ctx); err != nil {
		return nil, fmt.Errorf("failed to flush store: %w", err)
	}
	return organisation, nil
}

// softwareLinks collects component IDs to add to an organisation once its repositories are synced.
type softwareLinks struct {
	owns     []string
	supports []string
	uses     []string
}

func (l softwareLinks) applyTo(organisation *entities.Organisation) {
	for _, id := range l.owns {
		organisation.Owns = entities.AppendUnique(organisation.Owns, id)
	}
	for _, id := range l.supports {
		organisation.Supports = entities.AppendUnique(organisation.Supports, id)
	}
	for _, id := range l.uses {
		organisation.Uses = entities.AppendUnique(organisation.Uses, id)
	}
}

// applyProfile probes the organisation's profile repository for an opencatalogi
// file, saves its fields onto the organisation and synchronises the software it
// lists. A missing or invalid file leaves the organisation as is.
func (it *SyncOrganizationCommand) applyProfile(
	ctx context.Context,
	source repositories.SourceRepository,
	organisation *entities.Organisation,
	b *batch,
) softwareLinks {
	profileURL := strings.TrimSuffix(organisation.GitHub, "/") + "/" + profileRepository
	profile, err := source.GetRepository(ctx, profileURL)
	if err != nil {
		logger.Debugf("[%s] No profile repository for %q: %v", source.Name(), organisation.Name, err)
		return softwareLinks{}
	}

	hit, err := Probe(ctx, source, profile, OpenCatalogiCandidates(profile))
	if err != nil {
		logger.Infof("[%s] No opencatalogi file for %q", source.Name(), organisation.Name)
		return softwareLinks{}
	}

	doc, err := entities.DecodeDocument(hit.File.Body, hit.File.Envelope)
	if err != nil {
		logger.Warnf("[%s] Ignoring opencatalogi file %s: %v", source.Name(), hit.File.URL, err)
		return softwareLinks{}
	}
	file, err := entities.MapOpenCatalogi(doc)
	if err != nil {
		logger.Warnf("[%s] Ignoring opencatalogi file %s: %v", source.Name(), hit.File.URL, err)
		return softwareLinks{}
	}

	file.ApplyTo(organisation)
	if file.Logo != "" {
		organisation.Logo = it.logos.Resolve(ctx, file.Logo, profile)
	}
	if err = save(ctx, it.store, organisation); err != nil {
		logger.Errorf("[%s] Failed to save profile of %q: %v", source.Name(), organisation.Name, err)
	}

	return softwareLinks{
		owns:     it.syncSoftware(ctx, file.SoftwareOwned, b),
		supports: it.syncSoftware(ctx, file.SoftwareSupported, b),
		uses:     it.syncSoftware(ctx, file.SoftwareUsed, b),
	}
}

// syncSoftware synchronises every referenced repository and returns the resulting component IDs.
func (it *SyncOrganizationCommand) syncSoftware(
	ctx context.Context,
	refs []entities.SoftwareRef,
	b *batch,
) []string {
	var list []string
	for _, ref := range refs {
		if ref.Software == "" {
			continue
		}
		result, err := it.repos.sync(ctx, ref.Software, SyncOptions{})
		b.tick(ctx)
		if err != nil {
			logger.Errorf("Failed to sync software %s: %v", ref.Software, err)
			continue
		}
		if result.Component != nil {
			list = entities.AppendUnique(list, result.Component.ID)
		}
	}
	return list
}

// mergeOrganisation copies the upstream profile onto organisation, keeping local fields
// when upstream leaves them empty.
func mergeOrganisation(organisation *entities.Organisation, upstream entities.Organisation) {
	if organisation.Type == "" || organisation.Type == entities.OrganisationTypeOrganization ||
		organisation.Type == entities.OrganisationTypeUser {
		organisation.Type = upstream.Type
	}
	if upstream.Description != "" {
		organisation.Description = upstream.Description
	}
	if upstream.Website != "" {
		organisation.Website = upstream.Website
	}
	if upstream.Email != "" {
		organisation.Email = upstream.Email
	}
	if upstream.GitHub != "" {
		organisation.GitHub = upstream.GitHub
	}
	if upstream.GitLab != "" {
		organisation.GitLab = upstream.GitLab
	}
	if upstream.Logo != nil {
		organisation.Logo = upstream.Logo
	}
}
