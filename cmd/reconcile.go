package cmd

import (
	"context"

	"github.com/Laisky/datagate/internal/web/files/service"
	"github.com/Laisky/datagate/library/log"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"
)

var reconcileCMD = &cobra.Command{
	Use:   "reconcile",
	Short: "reconcile",
	Long:  `recompute per-user file counters from stored file records`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		fixed, err := service.Instance.ReconcileFileCounts(ctx)
		if err != nil {
			log.Logger.Panic("reconcile file counts", zap.Error(err))
		}

		log.Logger.Info("reconcile done", zap.Int("fixed_users", fixed))
	},
}

func init() {
	rootCMD.AddCommand(reconcileCMD)
}
