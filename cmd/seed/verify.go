package main

import (
	"fmt"
	"strings"

	"socialseed/internal/db"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check integrity and distribution shape of the seeded tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, a.cfg.Database, 1)
			if err != nil {
				return err
			}
			defer pool.Close()

			r, err := db.Verify(ctx, pool)
			if err != nil {
				return err
			}
			a.log.Info("verify",
				zap.Int64("categories", r.Categories),
				zap.Int64("users", r.Users),
				zap.Int64("posts", r.Posts),
				zap.Int64("likes", r.Likes),
				zap.Int64("max_post_id", r.MaxPostID),
				zap.Float64("visible_ratio", r.VisibleRatio),
				zap.Any("category_share", r.CategoryShare))

			if p := r.Problems(); len(p) > 0 {
				for _, msg := range p {
					a.log.Error("invariant violated", zap.String("problem", msg))
				}
				return fmt.Errorf("verify: %s", strings.Join(p, "; "))
			}
			return nil
		},
	}
}
