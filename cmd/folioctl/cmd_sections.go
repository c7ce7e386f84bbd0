package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/folio-dev/folio/internal/editor"
	"github.com/folio-dev/folio/internal/models"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "show <section>",
		Short:     "Print a section as the public site sees it",
		Args:      cobra.ExactArgs(1),
		ValidArgs: sectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := models.ParseSection(args[0])
			if err != nil {
				return err
			}
			v, err := a.sections.Get(cmd.Context(), section)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", section, err)
			}
			return writeYAML(cmd.OutOrStdout(), v)
		},
	}
}

// writeYAML prints v using its JSON field names
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func sectionNames() []string {
	out := make([]string, 0, len(models.AllSections))
	for _, s := range models.AllSections {
		out = append(out, s.String())
	}
	return out
}

func newSkillsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List or edit skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := a.workspace()
			ws.EnsureLoaded(cmd.Context(), models.SectionSkills)
			a.flush(cmd.ErrOrStderr())

			out := cmd.OutOrStdout()
			draft := ws.Skills.Draft()
			fmt.Fprintf(out, "%s\n", draft.Title)
			for i, s := range draft.Skills {
				fmt.Fprintf(out, "%3d  %s\n", i, s)
			}
			return nil
		},
	}

	// save loads skills, applies edit and saves the whole list
	save := func(cmd *cobra.Command, edit func(d *models.SkillsSection) error) error {
		token, err := a.token()
		if err != nil {
			return err
		}
		ws := a.workspace()
		ws.EnsureLoaded(cmd.Context(), models.SectionSkills)
		if err := ws.Skills.Update(edit); err != nil {
			return err
		}
		err = ws.SaveSkills(cmd.Context(), token)
		a.flush(cmd.OutOrStdout())
		return err
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <skill>...",
		Short: "Append skills and save",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return save(cmd, func(d *models.SkillsSection) error {
				for _, s := range args {
					if err := editor.SetAt(&d.Skills, editor.AppendBlank(&d.Skills), s); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <index> <skill>",
		Short: "Replace the skill at index and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			return save(cmd, func(d *models.SkillsSection) error {
				return editor.SetAt(&d.Skills, i, args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <index>",
		Short: "Remove the skill at index and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			return save(cmd, func(d *models.SkillsSection) error {
				return editor.RemoveAt(&d.Skills, i)
			})
		},
	})
	return cmd
}

func newEducationCmd(a *app) *cobra.Command {
	var degree, year, college string

	cmd := &cobra.Command{
		Use:   "education",
		Short: "Update the education record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.token()
			if err != nil {
				return err
			}
			ws := a.workspace()
			ws.EnsureLoaded(cmd.Context(), models.SectionEducation)

			flags := cmd.Flags()
			if err := ws.Education.Update(func(d *models.EducationRecord) error {
				if flags.Changed("degree") {
					d.Degree = degree
				}
				if flags.Changed("year") {
					d.Year = year
				}
				if flags.Changed("college") {
					d.CollegeName = college
				}
				return nil
			}); err != nil {
				return err
			}

			err = ws.SaveEducation(cmd.Context(), token)
			a.flush(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVar(&degree, "degree", "", "Degree")
	cmd.Flags().StringVar(&year, "year", "", "Graduation year")
	cmd.Flags().StringVar(&college, "college", "", "College name")
	return cmd
}

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Set or toggle the stored theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(models.ThemeLight), string(models.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			next := a.store.Theme().Toggle()
			if len(args) == 1 {
				next = models.ParseTheme(args[0])
			}
			if err := a.store.SetTheme(next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", next)
			return nil
		},
	}
}
