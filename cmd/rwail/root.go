package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dottail/rwail/internal/pathfilter"
	"github.com/dottail/rwail/internal/rwailerr"
	"github.com/dottail/rwail/internal/watchdir"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "rwail [regex] [path]",
	Short:   "Continuously tail every matching file in a directory",
	Long: `rwail watches a directory tree, tails every file whose path matches
a regex, and follows writes, renames, removals, and recreations as they
happen — printing a bannered stream the way multi-file tail -f does.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(2),
	RunE:          runWatch,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.Flags().IntP("lines", "n", 10, "number of lines for the initial tail (0: no initial output, just follow)")
	rootCmd.Flags().BoolP("recursive", "r", false, "watch the directory tree recursively")
	rootCmd.Flags().Bool("show-binary", false, "include files whose content is classified as binary")
	rootCmd.Flags().IntP("depth", "d", 0, "maximum recursion depth (with --recursive; 0 means unlimited)")
	rootCmd.Flags().StringP("path", "p", ".", "directory to watch")
	rootCmd.Flags().StringP("regex", "e", ".*", "regular expression matched against each path")
	rootCmd.Flags().String("color", "auto", "colorize banners: auto, never, or always")

	viper.BindPFlag("lines", rootCmd.Flags().Lookup("lines"))
	viper.BindPFlag("recursive", rootCmd.Flags().Lookup("recursive"))
	viper.BindPFlag("show-binary", rootCmd.Flags().Lookup("show-binary"))
	viper.BindPFlag("depth", rootCmd.Flags().Lookup("depth"))
	viper.BindPFlag("path", rootCmd.Flags().Lookup("path"))
	viper.BindPFlag("regex", rootCmd.Flags().Lookup("regex"))
	viper.BindPFlag("color", rootCmd.Flags().Lookup("color"))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolvePositional implements the original implementation's [regex]
// [path] positional duality (spec SUPPLEMENTED FEATURES): a named flag
// always wins; bare positional args fill in whichever of regex/path
// wasn't set by flag, in argument order.
func resolvePositional(cmd *cobra.Command, args []string, regex, path string) (string, string) {
	regexSet := cmd.Flags().Changed("regex")
	pathSet := cmd.Flags().Changed("path")

	rest := args
	if !regexSet && len(rest) > 0 {
		regex = rest[0]
		rest = rest[1:]
	}
	if !pathSet && len(rest) > 0 {
		path = rest[0]
		rest = rest[1:]
	}
	return regex, path
}

func resolveColorize(colorMode string, out *os.File) (bool, error) {
	switch colorMode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (want auto, never, or always)", colorMode)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	lines := viper.GetInt("lines")
	recursive := viper.GetBool("recursive")
	showBinary := viper.GetBool("show-binary")
	depth := viper.GetInt("depth")
	colorMode := viper.GetString("color")

	regex, path := resolvePositional(cmd, args, viper.GetString("regex"), viper.GetString("path"))

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return rwailerr.Wrap(rwailerr.ErrNotDirectory, path, nil)
	}

	colorize, err := resolveColorize(colorMode, os.Stdout)
	if err != nil {
		return err
	}

	filter, err := pathfilter.New(regex, showBinary)
	if err != nil {
		return fmt.Errorf("invalid --regex: %w", err)
	}

	out := cmd.OutOrStdout()
	d, err := watchdir.New(watchdir.Options{
		Path:       path,
		Recursive:  recursive,
		Depth:      depth,
		Lines:      lines,
		Colorize:   colorize,
		ShowBinary: showBinary,
	}, filter, out)
	if err != nil {
		return err
	}

	if err := d.Bootstrap(); err != nil {
		return err
	}
	return d.Run()
}
