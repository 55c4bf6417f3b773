// Package cmd implements the sharelink command line.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/sharelink/internal/config"
	"github.com/3leaps/sharelink/internal/observability"
)

var (
	cfgFile string
	verbose bool
)

var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "none",
	BuildDate: "unknown",
}

// SetVersionInfo records build metadata reported by the version command.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "sharelink <file>",
	Short: "Upload a file and print a shareable download link",
	Long: `Upload a local file to an S3-compatible object store (MinIO, AWS S3, ...)
and print a time-limited presigned download link.

The link is printed on stdout as plain text (default), JSON or Markdown.
Diagnostics go to stderr.

Connection settings come from the environment:
  MINIO_API_URL      API endpoint (https://host, http://host:9000 or bare host)
  MINIO_ACCESS_KEY   access key
  MINIO_SECRET_KEY   secret key
  MINIO_BUCKET       destination bucket
  MINIO_CONSOLE_URL  web console base URL (optional)

Examples:
  sharelink demo.mp4
  sharelink demo.mp4 --title "Product Demo" --markdown
  sharelink report.pdf --name q3-report --expiry 2 --json`,
	Args:              cobra.ExactArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initLogging,
	RunE:              runShare,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: <user config dir>/sharelink/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func initLogging(cmd *cobra.Command, args []string) error {
	observability.InitCLILogger(config.AppName, verbose)
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	observability.InitCLILogger(config.AppName, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	code, message, cause := describeExit(ctx, err)
	observability.CLILogger.Error(message, zap.Error(cause), zap.Int("exit_code", code))
	_ = observability.CLILogger.Sync()
	return code
}
