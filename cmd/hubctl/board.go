package main

import (
	"context"

	"personalhub/internal/board"
	"personalhub/internal/client"
)

// loadBoard fetches everything into a fresh board.
func loadBoard(ctx context.Context, c *client.Client) (*board.Board, error) {
	cats, tags, sites, err := c.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	b := board.New()
	b.Load(cats, tags, sites)
	return b, nil
}
