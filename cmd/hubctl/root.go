package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"personalhub/internal/client"
)

// app carries the resolved global flags for one invocation.
type app struct {
	configPath string
	server     string
	password   string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "hubctl",
		Short: "Manage a personal hub server",
		Long: `hubctl talks to a personal hub server over its JSON API.

The server URL and password come from ~/.config/hubctl/config.yaml
(keys "server" and "password") unless overridden with flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", defaultConfigPath(), "config file")
	pf.StringVar(&a.server, "server", "", "server URL (overrides config)")
	pf.StringVar(&a.password, "password", "", "shared password (overrides config)")
	pf.DurationVar(&a.timeout, "timeout", 30*time.Second, "per-command timeout")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newCategoriesCmd(a),
		newTagsCmd(a),
		newSitesCmd(a),
		newReorderCmd(a),
		newMoveCmd(a),
		newExportCmd(a),
		newBackupCmd(a),
	)
	return root
}

// resolve merges the config file with flag overrides.
func (a *app) resolve() (*fileConfig, error) {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.server != "" {
		cfg.Server = a.server
	}
	if a.password != "" {
		cfg.Password = a.password
	}
	return cfg, nil
}

// connect returns an authenticated client and a context bounded by
// --timeout. The remembered session is reused while the server accepts it;
// otherwise the client logs in and the new session is remembered.
func (a *app) connect(cmd *cobra.Command) (*client.Client, context.Context, context.CancelFunc, error) {
	return a.open(cmd, true)
}

func (a *app) open(cmd *cobra.Command, reuse bool) (*client.Client, context.Context, context.CancelFunc, error) {
	cfg, err := a.resolve()
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := client.New(cfg.Server)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)

	path := sessionPath(a.configPath)
	if saved, err := loadSession(path); err == nil && saved.Token != "" && saved.Server == cfg.Server {
		c.SetSessionToken(saved.Token)
		err := c.CheckSession(ctx)
		if err == nil && reuse {
			return c, ctx, cancel, nil
		}
		if err == nil {
			// A fresh login replaces the session rather than stacking on it.
			_ = c.Logout(ctx)
		}
	}

	if cfg.Password == "" {
		cancel()
		return nil, nil, nil, errors.New("no password: set it in the config file or pass --password")
	}
	if err := c.Login(ctx, cfg.Password); err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("login to %s: %w", cfg.Server, err)
	}
	if err := saveSession(path, &sessionFile{Server: cfg.Server, Token: c.SessionToken()}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return c, ctx, cancel, nil
}
