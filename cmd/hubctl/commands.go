package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"personalhub/internal/board"
	"personalhub/internal/client"
	"personalhub/internal/models"
)

func newLoginCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Long: `Log in with the configured password and remember the session for
later commands. A session remembered earlier is ended first.

With --save the resolved server and password are written to the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, cancel, err := a.open(cmd, false)
			if err != nil {
				return err
			}
			defer cancel()

			cfg, err := a.resolve()
			if err != nil {
				return err
			}
			if save {
				if err := saveConfig(a.configPath, cfg); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in to %s\n", cfg.Server)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write server and password to the config file")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the remembered session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.resolve()
			if err != nil {
				return err
			}
			path := sessionPath(a.configPath)
			saved, err := loadSession(path)
			if err != nil {
				return err
			}
			if saved.Token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}

			if saved.Server == cfg.Server {
				c, err := client.New(cfg.Server)
				if err != nil {
					return err
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
				defer cancel()
				c.SetSessionToken(saved.Token)
				if err := c.Logout(ctx); err != nil {
					return err
				}
			}
			if err := removeSession(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged out of %s\n", cfg.Server)
			return nil
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "List and edit categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			cats, err := c.Categories(ctx)
			if err != nil {
				return err
			}
			return printCategories(cmd.OutOrStdout(), cats)
		},
	}, &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			cat, err := c.CreateCategory(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cat.ID)
			return nil
		},
	}, &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("category", args[0])
			if err != nil {
				return err
			}
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			_, err = c.RenameCategory(ctx, id, args[1])
			return err
		},
	}, &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a category with its tags and sites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("category", args[0])
			if err != nil {
				return err
			}
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			return c.DeleteCategory(ctx, id)
		},
	})
	return cmd
}

func newTagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "List and edit tags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [category-id]",
		Short: "List the tags of a category, or every tag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var categoryID uuid.UUID
			if len(args) == 1 {
				id, err := parseUUID("category", args[0])
				if err != nil {
					return err
				}
				categoryID = id
			}
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			var tags []models.Tag
			if categoryID != uuid.Nil {
				tags, err = c.Tags(ctx, categoryID)
			} else {
				tags, err = c.AllTags(ctx)
			}
			if err != nil {
				return err
			}
			return printTags(cmd.OutOrStdout(), tags)
		},
	}, &cobra.Command{
		Use:   "add <category-id> <name>",
		Short: "Create a tag in a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseUUID("category", args[0])
			if err != nil {
				return err
			}
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			tag, err := c.CreateTag(ctx, categoryID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag.ID)
			return nil
		},
	}, &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag; its sites stay, untagged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("tag", args[0])
			if err != nil {
				return err
			}
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			return c.DeleteTag(ctx, id)
		},
	})
	return cmd
}

func newSitesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sites",
		Aliases: []string{"site"},
		Short:   "List and edit sites",
	}

	var category, tag, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List sites",
		Long: `List sites, optionally narrowed to a category and tag.

--search matches titles case-insensitively across every category and
ignores --category and --tag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f models.SiteFilter
			for _, opt := range []struct {
				what, raw string
				dst       **uuid.UUID
			}{
				{"category", category, &f.CategoryID},
				{"tag", tag, &f.TagID},
			} {
				if opt.raw == "" {
					continue
				}
				id, err := parseUUID(opt.what, opt.raw)
				if err != nil {
					return err
				}
				*opt.dst = &id
			}

			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			var sites []models.Site
			if search != "" {
				b, err := loadBoard(ctx, c)
				if err != nil {
					return err
				}
				b.SetSearch(search)
				sites = b.DisplayedSites()
			} else if sites, err = c.Sites(ctx, f); err != nil {
				return err
			}
			return printSites(cmd.OutOrStdout(), sites)
		},
	}
	list.Flags().StringVar(&category, "category", "", "category ID")
	list.Flags().StringVar(&tag, "tag", "", "tag ID")
	list.Flags().StringVar(&search, "search", "", "title substring")

	var in struct{ category, tag, title, url, description, icon string }
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categoryID, err := parseUUID("category", in.category)
			if err != nil {
				return err
			}
			tagID, err := parseUUID("tag", in.tag)
			if err != nil {
				return err
			}
			input := client.SiteInput{
				CategoryID: categoryID,
				TagID:      &tagID,
				Title:      in.title,
				URL:        in.url,
			}
			if in.description != "" {
				input.Description = &in.description
			}
			if in.icon != "" {
				input.Icon = &in.icon
			}

			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			site, err := c.CreateSite(ctx, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), site.ID)
			return nil
		},
	}
	af := add.Flags()
	af.StringVar(&in.category, "category", "", "category ID (required)")
	af.StringVar(&in.tag, "tag", "", "tag ID (required)")
	af.StringVar(&in.title, "title", "", "title (required)")
	af.StringVar(&in.url, "url", "", "absolute http(s) URL (required)")
	af.StringVar(&in.description, "description", "", "markdown description")
	af.StringVar(&in.icon, "icon", "", "icon URL; defaults to the site's favicon")
	for _, name := range []string{"category", "tag", "title", "url"} {
		_ = add.MarkFlagRequired(name)
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUUID("site", args[0])
			if err != nil {
				return err
			}
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			return c.DeleteSite(ctx, id)
		},
	}

	cmd.AddCommand(list, add, rm)
	return cmd
}

func newReorderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <categories|tags|sites> <id>...",
		Short: "Assign positions 0..n-1 to the given IDs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := board.ParseKind(args[0])
			if err != nil {
				return err
			}
			ids := make([]uuid.UUID, 0, len(args)-1)
			for _, raw := range args[1:] {
				id, err := parseUUID(kind.String(), raw)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			switch kind {
			case board.KindCategory:
				return c.ReorderCategories(ctx, ids)
			case board.KindTag:
				return c.ReorderTags(ctx, ids)
			default:
				return c.ReorderSites(ctx, ids)
			}
		},
	}
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <categories|tags|sites> <dragged-id> <target-id>",
		Short: "Move an item to another item's place, as a drag and drop would",
		Long: `Load the board, drop the dragged item onto the target and save the
new order. Tags move within their category; sites within their category
and tag.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := board.ParseKind(args[0])
			if err != nil {
				return err
			}
			dragged, err := parseUUID(kind.String(), args[1])
			if err != nil {
				return err
			}
			target, err := parseUUID(kind.String(), args[2])
			if err != nil {
				return err
			}

			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			b, err := loadBoard(ctx, c)
			if err != nil {
				return err
			}
			if err := focus(b, kind, dragged); err != nil {
				return err
			}

			b.BeginLayoutEdit()
			if !b.Drop(board.DragPayload{Kind: kind, ID: dragged}, target) {
				b.CancelLayoutEdit()
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to move")
				return nil
			}
			if err := b.Commit(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %s %s\n", kind, dragged)
			return nil
		},
	}
}

// focus selects the category (and tag) holding id so that Commit submits
// the sibling list the item belongs to.
func focus(b *board.Board, kind board.Kind, id uuid.UUID) error {
	switch kind {
	case board.KindTag:
		for _, t := range b.Tags() {
			if t.ID == id {
				b.SelectCategory(t.CategoryID)
				return nil
			}
		}
	case board.KindSite:
		for _, s := range b.Sites() {
			if s.ID == id {
				b.SelectCategory(s.CategoryID)
				if s.TagID != nil {
					b.SelectTag(*s.TagID)
				}
				return nil
			}
		}
	default:
		return nil
	}
	return fmt.Errorf("%s %s not found", kind, id)
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print every category, tag and site as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			snap, err := c.Export(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Ask the server to upload a snapshot to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ctx, cancel, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			key, err := c.Backup(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}

func parseUUID(what, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

func printCategories(w io.Writer, cats []models.Category) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOSITION")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, position(c.Position))
	}
	return tw.Flush()
}

func printTags(w io.Writer, tags []models.Tag) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tNAME\tPOSITION")
	for _, t := range tags {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.CategoryID, t.Name, position(t.Position))
	}
	return tw.Flush()
}

func printSites(w io.Writer, sites []models.Site) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tURL\tPOSITION")
	for _, s := range sites {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Title, s.URL, position(s.Position))
	}
	return tw.Flush()
}

func position(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
