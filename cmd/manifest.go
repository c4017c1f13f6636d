package cmd

import (
	"github.com/spf13/cobra"

	"photoprep/internal/config"
)

var manifestFlags commandFlags

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "List photos into a path,name,category manifest without touching the images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, config.ManifestDefaults(), func(p *config.Profile) *config.ProcessingConfig { return p.Manifest }, &manifestFlags)
		if err != nil {
			return err
		}
		return runCatalog(cmd, cfg, false)
	},
}

func init() {
	d := config.ManifestDefaults()
	f := manifestCmd.Flags()
	f.StringVarP(&manifestFlags.root, "root", "r", d.Root, "root folder to list")
	f.StringVar(&manifestFlags.manifest, "manifest", d.Manifest, "manifest CSV to write")
	f.StringVar(&manifestFlags.pathPrefix, "path-prefix", d.PathPrefix, "prefix prepended to every manifest path")
	f.BoolVar(&manifestFlags.allFiles, "all-files", false, "list every non-hidden file, not just image extensions")
	f.BoolVar(&manifestFlags.dryRun, "dry-run", false, "show the manifest rows without writing anything")

	rootCmd.AddCommand(manifestCmd)
}
