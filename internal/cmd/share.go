package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/sharelink/internal/config"
	"github.com/3leaps/sharelink/internal/observability"
	"github.com/3leaps/sharelink/pkg/provider"
	"github.com/3leaps/sharelink/pkg/provider/s3"
	"github.com/3leaps/sharelink/pkg/report"
	"github.com/3leaps/sharelink/pkg/share"
)

var (
	shareTitle    string
	shareName     string
	shareExpiry   int
	shareJSON     bool
	shareMarkdown bool
	shareFormat   string
	shareInsecure bool
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&shareTitle, "title", "t", "", "Title used to derive the object name")
	f.StringVarP(&shareName, "name", "n", "", "Explicit object name (takes precedence over --title)")
	f.IntVarP(&shareExpiry, "expiry", "e", share.DefaultExpiryDays, fmt.Sprintf("Link expiry in days (1-%d)", share.MaxExpiryDays))
	f.BoolVar(&shareJSON, "json", false, "Print the result as JSON")
	f.BoolVarP(&shareMarkdown, "markdown", "m", false, "Print the result as Markdown")
	f.StringVarP(&shareFormat, "format", "f", string(report.ModeText), "Output format (text|json|markdown)")
	rootCmd.MarkFlagsMutuallyExclusive("json", "markdown")

	rootCmd.PersistentFlags().BoolVarP(&shareInsecure, "insecure", "k", false, "Skip TLS certificate verification")
}

// shareStore is what the share flow needs from a storage client.
type shareStore interface {
	provider.Provider
	share.Store
}

// newStore builds the storage client. Tests replace it.
var newStore = func(ctx context.Context, storage config.StorageConfig) (shareStore, error) {
	p, err := s3.New(ctx, providerConfig(storage))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// providerConfig maps loaded settings onto the S3 provider configuration.
func providerConfig(storage config.StorageConfig) s3.Config {
	return s3.Config{
		Bucket:          storage.Bucket,
		Endpoint:        storage.APIURL,
		Region:          storage.Region,
		Profile:         storage.Profile,
		AccessKeyID:     storage.AccessKey,
		SecretAccessKey: storage.SecretKey,
		ForcePathStyle:  storage.ForcePathStyle,
		Insecure:        storage.Insecure,
		PartSize:        storage.PartSize,
	}
}

func runShare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sourcePath := args[0]

	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return classifyConfigError(err)
	}

	mode, err := resolveMode(cfg.Share.Format, shareJSON, shareMarkdown)
	if err != nil {
		if errors.Is(err, report.ErrUnsupportedMode) {
			return classifyShareError(err)
		}
		return exitError(foundry.ExitInvalidArgument, "Invalid output format", err)
	}

	req := share.Request{
		SourcePath: sourcePath,
		Title:      shareTitle,
		Name:       shareName,
		ExpiryDays: cfg.Share.ExpiryDays,
		Mode:       mode,
	}
	if err := req.Validate(); err != nil {
		return classifyShareError(err)
	}
	if err := cfg.Storage.Validate(); err != nil {
		return classifyShareError(err)
	}

	if cfg.Share.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Share.Timeout)
		defer cancel()
	}

	if cfg.Storage.Insecure {
		observability.CLILogger.Warn("TLS certificate verification disabled",
			zap.String("endpoint", cfg.Storage.APIURL))
	}

	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return classifyShareError(err)
	}
	defer func() { _ = store.Close() }()

	observability.CLILogger.Debug("Starting upload",
		zap.String("path", sourcePath),
		zap.String("bucket", cfg.Storage.Bucket),
		zap.Int("expiry_days", req.ExpiryDays),
		zap.String("format", mode.String()))

	svc := share.New(store, share.Options{
		Bucket:     cfg.Storage.Bucket,
		ConsoleURL: cfg.Storage.ConsoleURL,
	})

	result, err := svc.Share(ctx, req)
	if err != nil {
		return classifyShareError(err)
	}

	observability.CLILogger.Info(fmt.Sprintf("Uploaded: %s -> %s/%s", sourcePath, result.Bucket, result.ObjectName),
		zap.Int64("size_bytes", result.SizeBytes),
		zap.String("content_type", result.ContentType))

	if err := report.Write(cmd.OutOrStdout(), result, mode); err != nil {
		return classifyShareError(err)
	}
	return nil
}

// loadConfig resolves configuration with explicitly set flags as
// runtime overrides, then applies the configured log level.
func loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	shareOverrides := map[string]any{}
	storageOverrides := map[string]any{}

	if flagChanged(cmd, "expiry") {
		shareOverrides["expiry_days"] = shareExpiry
	}
	if flagChanged(cmd, "format") {
		shareOverrides["format"] = shareFormat
	}
	if flagChanged(cmd, "insecure") {
		storageOverrides["insecure"] = shareInsecure
	}

	cfg, err := config.LoadFile(ctx, cfgFile, map[string]any{
		"share":   shareOverrides,
		"storage": storageOverrides,
	})
	if err != nil {
		return nil, err
	}

	if !verbose {
		if err := observability.SetLevel(cfg.Logging.Level); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// resolveMode applies --json and --markdown on top of the configured format.
func resolveMode(configured report.Mode, asJSON, asMarkdown bool) (report.Mode, error) {
	switch {
	case asJSON && asMarkdown:
		return "", errors.New("--json and --markdown are mutually exclusive")
	case asJSON:
		return report.ModeJSON, nil
	case asMarkdown:
		return report.ModeMarkdown, nil
	case configured == "":
		return report.ModeText, nil
	case !configured.Valid():
		return "", &report.UnsupportedModeError{Mode: string(configured)}
	default:
		return configured, nil
	}
}
