package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/editor"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/services"
)

// cardCmdOps binds the shared add/save/delete commands to one collection
type cardCmdOps struct {
	section models.Section
	noun    string
	rows    func(ws *services.Workspace) []cardRow
	add     func(ws *services.Workspace) string
	edit    func(ws *services.Workspace, key string, cmd *cobra.Command) error
	save    func(ws *services.Workspace, ctx context.Context, token, key string) error
	remove  func(ws *services.Workspace, ctx context.Context, token, key string) error
	revert  func(ws *services.Workspace, key string) error
	bind    func(cmd *cobra.Command)
}

type cardRow struct {
	key   string
	id    string
	state editor.RowState
	line  string
}

func (o cardCmdOps) find(ws *services.Workspace, id string) (cardRow, bool) {
	for _, r := range o.rows(ws) {
		if r.id == id {
			return r, true
		}
	}
	return cardRow{}, false
}

func (o cardCmdOps) byKey(ws *services.Workspace, key string) cardRow {
	for _, r := range o.rows(ws) {
		if r.key == key {
			return r
		}
	}
	return cardRow{}
}

// newCardsCmd lists the projects or experience collection and edits its
// rows by server id
func newCardsCmd(a *app, name string) *cobra.Command {
	var ops cardCmdOps
	switch name {
	case "projects":
		ops = projectCmdOps()
	default:
		ops = experienceCmdOps()
	}

	cmd := &cobra.Command{
		Use:   name,
		Short: "List " + name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := a.workspace()
			ws.EnsureLoaded(cmd.Context(), ops.section)
			a.flush(cmd.ErrOrStderr())

			out := cmd.OutOrStdout()
			for _, r := range ops.rows(ws) {
				fmt.Fprintf(out, "%-26s %s\n", idOrState(r.id, r.state), r.line)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a " + ops.noun + " from flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCard(cmd, a, ops, "")
		},
	}
	ops.bind(add)

	save := &cobra.Command{
		Use:   "save <id>",
		Short: "Update the flagged fields of one " + ops.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCard(cmd, a, ops, args[0])
		},
	}
	ops.bind(save)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one " + ops.noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.token()
			if err != nil {
				return err
			}
			ws := a.workspace()
			ws.EnsureLoaded(cmd.Context(), ops.section)

			r, ok := ops.find(ws, args[0])
			if !ok {
				return fmt.Errorf("no %s with id %q", ops.noun, args[0])
			}
			err = ops.remove(ws, cmd.Context(), token, r.key)
			a.flush(cmd.OutOrStdout())
			return err
		},
	}

	cmd.AddCommand(add, save, del)
	return cmd
}

// writeCard applies the command's flags to a new row (id == "") or to the
// row carrying id, then saves it. A new row that fails to save is dropped:
// without an id the CLI has no way to address it again.
func writeCard(cmd *cobra.Command, a *app, ops cardCmdOps, id string) error {
	token, err := a.token()
	if err != nil {
		return err
	}
	ws := a.workspace()
	ws.EnsureLoaded(cmd.Context(), ops.section)

	var key string
	if id == "" {
		key = ops.add(ws)
	} else {
		r, ok := ops.find(ws, id)
		if !ok {
			return fmt.Errorf("no %s with id %q", ops.noun, id)
		}
		key = r.key
	}

	if err := ops.edit(ws, key, cmd); err != nil {
		if id == "" {
			_ = ops.revert(ws, key)
		}
		return err
	}

	err = ops.save(ws, cmd.Context(), token, key)
	if err != nil && id == "" {
		_ = ops.revert(ws, key)
	}
	a.flush(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if id == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "id: %s\n", ops.byKey(ws, key).id)
	}
	return nil
}

func projectCmdOps() cardCmdOps {
	var name, description, image, tecnologies, github, live string

	return cardCmdOps{
		section: models.SectionProjects,
		noun:    "project",
		rows: func(ws *services.Workspace) []cardRow {
			var out []cardRow
			for _, r := range ws.Cards.Rows() {
				out = append(out, cardRow{
					key:   r.Key,
					id:    r.Value.ID,
					state: r.State,
					line:  fmt.Sprintf("%s  [%s]", r.Value.Name, strings.Join(r.Value.Tecnologies, ", ")),
				})
			}
			return out
		},
		add: func(ws *services.Workspace) string { return ws.Cards.Add() },
		edit: func(ws *services.Workspace, key string, cmd *cobra.Command) error {
			flags := cmd.Flags()
			return ws.Cards.Edit(key, func(card *models.ProjectCard) error {
				if flags.Changed("name") {
					card.Name = name
				}
				if flags.Changed("description") {
					card.Description = description
				}
				if flags.Changed("image") {
					card.Image = image
				}
				if flags.Changed("tecnologies") {
					card.Tecnologies = editor.SplitList(tecnologies)
				}
				if flags.Changed("github") {
					card.GithubLink = github
				}
				if flags.Changed("live") {
					card.LiveProjectLink = live
				}
				return nil
			})
		},
		save:   (*services.Workspace).SaveProject,
		remove: (*services.Workspace).DeleteProject,
		revert: func(ws *services.Workspace, key string) error { return ws.Cards.Revert(key) },
		bind: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&name, "name", "", "Project name")
			cmd.Flags().StringVar(&description, "description", "", "Description")
			cmd.Flags().StringVar(&image, "image", "", "Image URL")
			cmd.Flags().StringVar(&tecnologies, "tecnologies", "", `Comma separated technologies, e.g. "React, Node"`)
			cmd.Flags().StringVar(&github, "github", "", "GitHub link")
			cmd.Flags().StringVar(&live, "live", "", "Live project link")
		},
	}
}

func experienceCmdOps() cardCmdOps {
	var position, company, duration, location, profile string

	return cardCmdOps{
		section: models.SectionExperience,
		noun:    "experience entry",
		rows: func(ws *services.Workspace) []cardRow {
			var out []cardRow
			for _, r := range ws.Experience.Rows() {
				out = append(out, cardRow{
					key:   r.Key,
					id:    r.Value.ID,
					state: r.State,
					line:  fmt.Sprintf("%s at %s (%s)", r.Value.Position, r.Value.Company, r.Value.Duration),
				})
			}
			return out
		},
		add: func(ws *services.Workspace) string { return ws.Experience.Add() },
		edit: func(ws *services.Workspace, key string, cmd *cobra.Command) error {
			flags := cmd.Flags()
			return ws.Experience.Edit(key, func(entry *models.ExperienceEntry) error {
				if flags.Changed("position") {
					entry.Position = position
				}
				if flags.Changed("company") {
					entry.Company = company
				}
				if flags.Changed("duration") {
					entry.Duration = duration
				}
				if flags.Changed("location") {
					entry.Location = location
				}
				if flags.Changed("profile") {
					entry.JobProfile = profile
				}
				return nil
			})
		},
		save:   (*services.Workspace).SaveExperience,
		remove: (*services.Workspace).DeleteExperience,
		revert: func(ws *services.Workspace, key string) error { return ws.Experience.Revert(key) },
		bind: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&position, "position", "", "Position")
			cmd.Flags().StringVar(&company, "company", "", "Company")
			cmd.Flags().StringVar(&duration, "duration", "", "Duration, e.g. 2021 - 2023")
			cmd.Flags().StringVar(&location, "location", "", "Location")
			cmd.Flags().StringVar(&profile, "profile", "", "Job profile")
		},
	}
}

func idOrState(id string, state editor.RowState) string {
	if id == "" {
		return "(" + state.String() + ")"
	}
	return id
}
