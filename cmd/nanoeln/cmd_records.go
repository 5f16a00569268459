package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"nanoeln/pkg/domain"
)

func (c *cli) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "projects", Short: "List and manage projects"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), c.app.Store.Projects())
		},
	})

	var p domain.Project
	var status string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p.Status = domain.ProjectStatus(status)
			created, err := c.app.Store.AddProject(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	add.Flags().StringVar(&p.Name, "name", "", "project name")
	add.Flags().StringVar(&p.Description, "description", "", "project description")
	add.Flags().StringVar(&p.LeadScientist, "lead", "", "lead scientist")
	add.Flags().StringVar(&status, "status", "", "active, completed or on-hold (default active)")
	cmd.AddCommand(add)

	var newName, newDescription, newStatus string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a project's name, description or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.app.Store.UpdateProject(cmd.Context(), args[0], func(p *domain.Project) error {
				if cmd.Flags().Changed("name") {
					p.Name = newName
				}
				if cmd.Flags().Changed("description") {
					p.Description = newDescription
				}
				if cmd.Flags().Changed("status") {
					p.Status = domain.ProjectStatus(newStatus)
				}
				return nil
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		},
	}
	update.Flags().StringVar(&newName, "name", "", "new name")
	update.Flags().StringVar(&newDescription, "description", "", "new description")
	update.Flags().StringVar(&newStatus, "status", "", "new status")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project (its experiments are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Store.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted project %s\n", args[0])
			return err
		},
	})
	return cmd
}

func (c *cli) experimentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "experiments", Short: "List and manage experiments"}

	var projectFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List experiments, optionally for one project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if projectFilter != "" {
				return printJSON(cmd.OutOrStdout(), nonNilList(c.app.Store.ExperimentsByProject(projectFilter)))
			}
			return printJSON(cmd.OutOrStdout(), c.app.Store.Experiments())
		},
	}
	list.Flags().StringVar(&projectFilter, "project", "", "project id")
	cmd.AddCommand(list)

	var e domain.Experiment
	var status, notes string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an experiment under a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e.Status = domain.ExperimentStatus(status)
			if notes != "" {
				e.Notes = &notes
			}
			created, err := c.app.Store.AddExperiment(cmd.Context(), e)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	add.Flags().StringVar(&e.ProjectID, "project", "", "parent project id")
	add.Flags().StringVar(&e.Name, "name", "", "experiment name")
	add.Flags().StringVar(&e.Hypothesis, "hypothesis", "", "hypothesis under test")
	add.Flags().StringVar(&status, "status", "", "experiment status (default planning)")
	add.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.AddCommand(add)

	var newName, newHypothesis, newStatus, newNotes string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an experiment's name, hypothesis, status or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.app.Store.UpdateExperiment(cmd.Context(), args[0], func(e *domain.Experiment) error {
				if cmd.Flags().Changed("name") {
					e.Name = newName
				}
				if cmd.Flags().Changed("hypothesis") {
					e.Hypothesis = newHypothesis
				}
				if cmd.Flags().Changed("status") {
					e.Status = domain.ExperimentStatus(newStatus)
				}
				if cmd.Flags().Changed("notes") {
					e.Notes = optionalString(newNotes)
				}
				return nil
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		},
	}
	update.Flags().StringVar(&newName, "name", "", "new name")
	update.Flags().StringVar(&newHypothesis, "hypothesis", "", "new hypothesis")
	update.Flags().StringVar(&newStatus, "status", "", "new status")
	update.Flags().StringVar(&newNotes, "notes", "", "new notes (empty clears them)")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Store.DeleteExperiment(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted experiment %s\n", args[0])
			return err
		},
	})
	return cmd
}

func (c *cli) batchesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "batches", Short: "List and manage formulation batches"}

	var experimentFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List batches, optionally for one experiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if experimentFilter != "" {
				return printJSON(cmd.OutOrStdout(), nonNilList(c.app.Store.BatchesByExperiment(experimentFilter)))
			}
			return printJSON(cmd.OutOrStdout(), c.app.Store.Batches())
		},
	}
	list.Flags().StringVar(&experimentFilter, "experiment", "", "experiment id")
	cmd.AddCommand(list)

	var b domain.Batch
	var status, params, notes string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a batch under an experiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b.Status = domain.BatchStatus(status)
			if params != "" {
				if err := json.Unmarshal([]byte(params), &b.ProcessParameters); err != nil {
					return fmt.Errorf("--params: %w", err)
				}
			}
			if notes != "" {
				b.Notes = &notes
			}
			created, err := c.app.Store.AddBatch(cmd.Context(), b)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	add.Flags().StringVar(&b.ExperimentID, "experiment", "", "parent experiment id")
	add.Flags().StringVar(&b.BatchNumber, "number", "", "batch number, e.g. LNP-2024-004")
	add.Flags().StringVar(&status, "status", "", "batch status (default pending)")
	add.Flags().StringVar(&params, "params", "", "process parameters as JSON")
	add.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.AddCommand(add)

	var newNumber, newStatus, newParams, newCharacterization, newNotes string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a batch's number, status, parameters, characterization or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.app.Store.UpdateBatch(cmd.Context(), args[0], func(b *domain.Batch) error {
				if cmd.Flags().Changed("number") {
					b.BatchNumber = newNumber
				}
				if cmd.Flags().Changed("status") {
					b.Status = domain.BatchStatus(newStatus)
				}
				if cmd.Flags().Changed("params") {
					var pp domain.ProcessParameters
					if err := json.Unmarshal([]byte(newParams), &pp); err != nil {
						return fmt.Errorf("--params: %w", err)
					}
					b.ProcessParameters = pp
				}
				if cmd.Flags().Changed("characterization") {
					var cd domain.CharacterizationData
					if err := json.Unmarshal([]byte(newCharacterization), &cd); err != nil {
						return fmt.Errorf("--characterization: %w", err)
					}
					b.CharacterizationData = &cd
				}
				if cmd.Flags().Changed("notes") {
					b.Notes = optionalString(newNotes)
				}
				return nil
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		},
	}
	update.Flags().StringVar(&newNumber, "number", "", "new batch number")
	update.Flags().StringVar(&newStatus, "status", "", "pending, characterized, approved or rejected")
	update.Flags().StringVar(&newParams, "params", "", "replacement process parameters as JSON")
	update.Flags().StringVar(&newCharacterization, "characterization", "", "characterization data as JSON")
	update.Flags().StringVar(&newNotes, "notes", "", "new notes (empty clears them)")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Store.DeleteBatch(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted batch %s\n", args[0])
			return err
		},
	})
	return cmd
}

func nonNilList[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
