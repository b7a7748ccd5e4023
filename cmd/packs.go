package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aibou-sh/aibou/internal/packs"
	"github.com/aibou-sh/aibou/internal/state"
)

var packsAssetsFlag string

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List discovered character packs and their asset coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		assets := packsAssetsFlag
		if assets == "" {
			assets = GetConfig().AssetsDir
		}
		if assets == "" {
			return fmt.Errorf("no assets directory configured; pass --assets or set assets_dir")
		}

		found, err := packs.Discover(assets)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			cmd.Println("no character packs found")
			return nil
		}

		total := len(state.All())
		for _, p := range found {
			if p.Complete() {
				cmd.Printf("%s  complete\n", p.Name)
				continue
			}
			missing := make([]string, 0, len(p.Missing))
			for _, s := range p.Missing {
				missing = append(missing, s.String())
			}
			cmd.Printf("%s  %d/%d (missing: %s)\n", p.Name, len(p.Present), total, strings.Join(missing, ", "))
		}
		return nil
	},
}

func init() {
	packsCmd.Flags().StringVar(&packsAssetsFlag, "assets", "", "directory containing character packs")
	rootCmd.AddCommand(packsCmd)
}
