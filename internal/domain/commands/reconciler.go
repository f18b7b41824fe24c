package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

// Reconciler merges a decoded publiccode file into the persisted component graph.
// Every referenced object is found by its natural key before one is created, so
// repeated runs over the same content do not add rows.
type Reconciler struct {
	store repositories.ObjectRepository
	logos *LogoResolver
}

// NewReconciler creates a Reconciler.
func NewReconciler(store repositories.ObjectRepository, logos *LogoResolver) *Reconciler {
	return &Reconciler{store: store, logos: logos}
}

// Reconcile creates or updates the component of repo from publiccode, then
// links the repository to it. The repository must already hold an ID.
func (it *Reconciler) Reconcile(
	ctx context.Context,
	repo *entities.Repository,
	publiccode entities.Publiccode,
) (*entities.Component, error) {
	// keyed on the repository, not on the URL the file happened to be fetched from
	component, err := findOrCreateBySource[entities.Component](
		ctx, it.store, repo.Source, repo.URL,
		func() *entities.Component {
			return &entities.Component{Source: repo.Source, SourceID: repo.URL}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up component of %s: %w", repo.URL, err)
	}

	publiccode.ApplyTo(component)
	if component.Name == "" {
		component.Name = repo.Name
	}
	component.URL = repo.ID

	if repo.Archived {
		component.DevelopmentStatus = entities.DevelopmentStatusObsolete
	}
	if len(component.IsBasedOn) == 0 && repo.ForkedFrom != "" {
		component.IsBasedOn = []string{repo.ForkedFrom}
	}

	component.Logo = nil
	if publiccode.Logo != "" && it.logos != nil {
		component.Logo = it.logos.Resolve(ctx, publiccode.Logo, *repo)
	}

	if err = it.reconcileSuite(ctx, component, publiccode.ApplicationSuite); err != nil {
		return nil, err
	}
	if err = it.reconcileLegal(ctx, component, publiccode.Legal); err != nil {
		return nil, err
	}
	if err = it.reconcileMaintenance(ctx, component, publiccode.Maintenance); err != nil {
		return nil, err
	}

	rating := entities.ScoreComponent(*component)
	component.Rating = &rating

	if err = save(ctx, it.store, component); err != nil {
		return nil, fmt.Errorf("failed to save component %q: %w", component.Name, err)
	}

	repo.Component = component.ID
	if err = save(ctx, it.store, repo); err != nil {
		return nil, fmt.Errorf("failed to save repository %s: %w", repo.URL, err)
	}

	logger.Infof("Reconciled component %q (%s) from %s", component.Name, component.ID, repo.URL)
	return component, nil
}

func (it *Reconciler) reconcileSuite(ctx context.Context, component *entities.Component, name string) error {
	component.ApplicationSuite = ""
	if name == "" {
		return nil
	}

	application, err := findOrCreateByKey[entities.Application](ctx, it.store, name,
		func() *entities.Application { return &entities.Application{Name: name} },
	)
	if err != nil {
		return fmt.Errorf("failed to look up application %q: %w", name, err)
	}
	application.Components = entities.AppendUnique(application.Components, component.ID)
	if err = save(ctx, it.store, application); err != nil {
		return fmt.Errorf("failed to save application %q: %w", name, err)
	}

	component.ApplicationSuite = application.ID
	return nil
}

func (it *Reconciler) reconcileLegal(
	ctx context.Context,
	component *entities.Component,
	legal *entities.PubliccodeLegal,
) error {
	component.Legal = nil
	if legal == nil {
		return nil
	}

	component.Legal = &entities.Legal{
		License:     legal.License,
		AuthorsFile: legal.AuthorsFile,
	}

	if legal.RepoOwner != "" {
		owner, err := it.owner(ctx, legal.RepoOwner, component.ID)
		if err != nil {
			return err
		}
		component.Legal.RepoOwner = owner.ID
	}
	if legal.MainCopyrightOwner != "" {
		owner, err := it.owner(ctx, legal.MainCopyrightOwner, "")
		if err != nil {
			return err
		}
		component.Legal.MainCopyrightOwner = owner.ID
	}
	return nil
}

// owner finds or creates an Owner organisation. A non-empty owned ID is added to its owns list.
func (it *Reconciler) owner(ctx context.Context, name, owned string) (*entities.Organisation, error) {
	organisation, err := findOrCreateByKey[entities.Organisation](ctx, it.store, name,
		func() *entities.Organisation { return &entities.Organisation{Name: name} },
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up organisation %q: %w", name, err)
	}

	organisation.Type = entities.OrganisationTypeOwner
	organisation.Owns = entities.AppendUnique(organisation.Owns, owned)
	if err = save(ctx, it.store, organisation); err != nil {
		return nil, fmt.Errorf("failed to save organisation %q: %w", name, err)
	}
	return organisation, nil
}

func (it *Reconciler) reconcileMaintenance(
	ctx context.Context,
	component *entities.Component,
	maintenance *entities.PubliccodeMaintenance,
) error {
	component.Maintenance = nil
	if maintenance == nil {
		return nil
	}

	component.Maintenance = &entities.Maintenance{Type: maintenance.Type}

	for _, contractor := range maintenance.Contractors {
		if contractor.Name == "" || contractor.Until == "" {
			logger.Debugf("Skipping contractor %q of %q: name and until are required", contractor.Name, component.Name)
			continue
		}

		organisation, err := findOrCreateByKey[entities.Organisation](ctx, it.store, contractor.Name,
			func() *entities.Organisation { return &entities.Organisation{Name: contractor.Name} },
		)
		if err != nil {
			return fmt.Errorf("failed to look up contractor %q: %w", contractor.Name, err)
		}
		organisation.Type = entities.OrganisationTypeContractor
		organisation.Until = string(contractor.Until)
		if contractor.Email != "" {
			organisation.Email = contractor.Email
		}
		if contractor.Website != "" {
			organisation.Website = contractor.Website
		}
		organisation.Supports = entities.AppendUnique(organisation.Supports, component.ID)
		if err = save(ctx, it.store, organisation); err != nil {
			return fmt.Errorf("failed to save contractor %q: %w", contractor.Name, err)
		}

		component.Maintenance.Contractors = entities.AppendUnique(component.Maintenance.Contractors, organisation.ID)
	}

	for _, person := range maintenance.Contacts {
		if person.Name == "" {
			continue
		}

		contact, err := findOrCreateByKey[entities.Contact](ctx, it.store, person.Name,
			func() *entities.Contact { return &entities.Contact{Name: person.Name} },
		)
		if err != nil {
			return fmt.Errorf("failed to look up contact %q: %w", person.Name, err)
		}
		contact.Email = person.Email
		contact.Phone = string(person.Phone)
		contact.Affiliation = person.Affiliation
		if err = save(ctx, it.store, contact); err != nil {
			return fmt.Errorf("failed to save contact %q: %w", person.Name, err)
		}

		component.Maintenance.Contacts = entities.AppendUnique(component.Maintenance.Contacts, contact.ID)
	}

	return nil
}
