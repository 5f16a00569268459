package eln

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nanoeln/pkg/domain"
)

// AddProject appends a project. The id is generated when empty, zero
// timestamps are stamped and experimentCount starts at zero.
func (s *Store) AddProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	if err := validateProject(p); err != nil {
		return domain.Project{}, err
	}
	var created domain.Project
	err := s.mutate(ctx, "add_project", func(tx *txn) error {
		if p.ID == "" {
			p.ID = tx.newID("proj")
		} else if indexOf(tx.state.projects, p.ID, idOfProject) >= 0 {
			return duplicateID(domain.EntityProject)
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = tx.now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = tx.now
		}
		p.ExperimentCount = 0
		tx.state.projects = append(tx.state.projects, p)
		tx.touch(domain.KeyProjects)
		tx.audit("Created project", domain.EntityProject, p.ID, fmt.Sprintf("New project %q created.", p.Name))
		created = p
		return nil
	})
	if err != nil {
		return domain.Project{}, err
	}
	s.logger.Debug("project added", zap.String("id", created.ID))
	return created, nil
}

// UpdateProject applies mutate to the stored project. The id and
// experimentCount are preserved and updatedAt is refreshed.
func (s *Store) UpdateProject(ctx context.Context, id string, mutate func(*domain.Project) error) (domain.Project, error) {
	if mutate == nil {
		return domain.Project{}, nilMutator(domain.EntityProject)
	}
	var updated domain.Project
	err := s.mutate(ctx, "update_project", func(tx *txn) error {
		i := indexOf(tx.state.projects, id, idOfProject)
		if i < 0 {
			return domain.NotFoundError{Entity: domain.EntityProject, ID: id}
		}
		current := tx.state.projects[i]
		next := cloneProject(current)
		if err := mutate(&next); err != nil {
			return err
		}
		next.ID = current.ID
		next.ExperimentCount = current.ExperimentCount
		if err := validateProject(next); err != nil {
			return err
		}
		next.UpdatedAt = tx.now
		tx.state.projects[i] = next
		tx.touch(domain.KeyProjects)
		updated = next
		return nil
	})
	if err != nil {
		return domain.Project{}, err
	}
	return updated, nil
}

// DeleteProject removes a project. Its experiments are left in place.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_project", func(tx *txn) error {
		i := indexOf(tx.state.projects, id, idOfProject)
		if i < 0 {
			return domain.NotFoundError{Entity: domain.EntityProject, ID: id}
		}
		tx.state.projects = removeAt(tx.state.projects, i)
		tx.touch(domain.KeyProjects)
		return nil
	})
}
