package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/sharelink/internal/config"
	"github.com/3leaps/sharelink/internal/observability"
	"github.com/3leaps/sharelink/pkg/preflight"
	"github.com/3leaps/sharelink/pkg/provider/s3"
)

var (
	doctorProbe       bool
	doctorProbePrefix string
	doctorJSON        bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long: `Run diagnostic checks on the configuration and the object store.

Checks the environment, required settings, the endpoint and bucket access.
With --probe, also creates and deletes an empty object to confirm write access.

Examples:
  sharelink doctor            # Configuration and bucket access
  sharelink doctor --probe    # Also verify write access
  sharelink doctor --json     # Emit the preflight record as JSON`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorProbe, "probe", false, "Verify write access with a put/delete probe")
	doctorCmd.Flags().StringVar(&doctorProbePrefix, "probe-prefix", preflight.DefaultProbePrefix, "Prefix for probe objects")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Print the preflight record as JSON on stdout")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	bannerName := config.AppName + " doctor"
	observability.CLILogger.Info("=== " + bannerName + " ===")
	observability.CLILogger.Info("")
	observability.CLILogger.Info("Running diagnostic checks...")
	observability.CLILogger.Info("")

	checkNum := 1
	totalChecks := 6

	// Check 1: Environment
	observability.CLILogger.Info(fmt.Sprintf("[%d/%d] Checking environment... ✅ %s %s/%s", checkNum, totalChecks, runtime.Version(), runtime.GOOS, runtime.GOARCH),
		zap.String("go_version", runtime.Version()),
		zap.String("os", runtime.GOOS),
		zap.String("arch", runtime.GOARCH))
	checkNum++

	// Check 2: Fulmen libraries
	version := crucible.GetVersion()
	if version.Gofulmen != "" {
		observability.CLILogger.Info(fmt.Sprintf("[%d/%d] Checking Fulmen libraries... ✅ gofulmen v%s", checkNum, totalChecks, version.Gofulmen),
			zap.String("gofulmen_version", version.Gofulmen),
			zap.String("crucible_version", version.Crucible))
	} else {
		observability.CLILogger.Warn(fmt.Sprintf("[%d/%d] Checking Fulmen libraries... ⚠️  version unknown", checkNum, totalChecks))
	}
	checkNum++

	// Check 3: Configuration
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		observability.CLILogger.Error(fmt.Sprintf("[%d/%d] Checking configuration... ❌ Cannot load configuration", checkNum, totalChecks),
			zap.Error(err))
		return classifyConfigError(err)
	}
	if err := cfg.Storage.Validate(); err != nil {
		observability.CLILogger.Error(fmt.Sprintf("[%d/%d] Checking configuration... ❌ Missing settings", checkNum, totalChecks),
			zap.Error(err))
		printEnvHelp()
		return exitError(foundry.ExitInvalidArgument, "Missing configuration", err)
	}
	observability.CLILogger.Info(fmt.Sprintf("[%d/%d] Checking configuration... ✅ bucket %s", checkNum, totalChecks, cfg.Storage.Bucket),
		zap.String("bucket", cfg.Storage.Bucket),
		zap.Int("expiry_days", cfg.Share.ExpiryDays),
		zap.String("format", cfg.Share.Format.String()))
	checkNum++

	// Check 4: Endpoint
	endpoint, err := s3.NormalizeEndpoint(cfg.Storage.APIURL)
	if err != nil {
		observability.CLILogger.Error(fmt.Sprintf("[%d/%d] Checking endpoint... ❌ %v", checkNum, totalChecks, err))
		return exitError(foundry.ExitInvalidArgument, "Invalid storage configuration", err)
	}
	switch {
	case !s3.IsSecureEndpoint(endpoint):
		observability.CLILogger.Warn(fmt.Sprintf("[%d/%d] Checking endpoint... ⚠️  %s (plain HTTP)", checkNum, totalChecks, endpoint),
			zap.String("endpoint", endpoint))
	case cfg.Storage.Insecure:
		observability.CLILogger.Warn(fmt.Sprintf("[%d/%d] Checking endpoint... ⚠️  %s (TLS verification disabled)", checkNum, totalChecks, endpoint),
			zap.String("endpoint", endpoint))
	default:
		observability.CLILogger.Info(fmt.Sprintf("[%d/%d] Checking endpoint... ✅ %s", checkNum, totalChecks, endpoint),
			zap.String("endpoint", endpoint))
	}
	if cfg.Storage.ConsoleURL != "" {
		observability.CLILogger.Info("  console: " + cfg.Storage.ConsoleURL)
	}
	checkNum++

	// Check 5: Credentials
	observability.CLILogger.Info(fmt.Sprintf("[%d/%d] Checking credentials... ✅ Found credentials", checkNum, totalChecks),
		zap.String("access_key", maskAccessKey(cfg.Storage.AccessKey)))
	checkNum++

	// Check 6: Bucket access
	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		observability.CLILogger.Error(fmt.Sprintf("[%d/%d] Checking bucket access... ❌ Cannot create client", checkNum, totalChecks),
			zap.Error(err))
		return classifyShareError(err)
	}
	defer func() { _ = store.Close() }()

	spec := preflight.Spec{Mode: preflight.ModeReadSafe}
	if doctorProbe {
		spec = preflight.Spec{Mode: preflight.ModeWriteProbe, ProbePrefix: doctorProbePrefix}
	}

	rec, runErr := preflight.Run(ctx, store, spec)
	for _, res := range rec.Results {
		if res.Allowed {
			observability.CLILogger.Info(fmt.Sprintf("[%d/%d] Checking %s... ✅ %s", checkNum, totalChecks, res.Capability, res.Method))
			continue
		}
		observability.CLILogger.Error(fmt.Sprintf("[%d/%d] Checking %s... ❌ %s", checkNum, totalChecks, res.Capability, res.ErrorCode),
			zap.String("method", res.Method),
			zap.String("detail", res.Detail))
	}

	if doctorJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return exitError(foundry.ExitFileWriteError, "Failed to write output", err)
		}
	}

	observability.CLILogger.Info("")
	if runErr != nil {
		observability.CLILogger.Warn("⚠️  Some checks failed. Review the output above for details.")
		observability.CLILogger.Info("")
		observability.CLILogger.Info("=== End Diagnostics ===")
		if errors.Is(runErr, preflight.ErrUnsupported) {
			return exitError(exitFailure, "Write probe not supported", runErr)
		}
		return classifyShareError(runErr)
	}

	observability.CLILogger.Info(fmt.Sprintf("✅ All checks passed! Your %s setup is healthy.", config.AppName))
	observability.CLILogger.Info("")
	observability.CLILogger.Info("=== End Diagnostics ===")
	return nil
}

// maskAccessKey masks all but the last 4 characters of an access key.
func maskAccessKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// printEnvHelp prints the environment variables sharelink reads.
func printEnvHelp() {
	observability.CLILogger.Info("")
	observability.CLILogger.Info("To configure the object store, set:")
	observability.CLILogger.Info("  MINIO_API_URL      e.g. https://minio.example.com or http://localhost:9000")
	observability.CLILogger.Info("  MINIO_ACCESS_KEY   access key")
	observability.CLILogger.Info("  MINIO_SECRET_KEY   secret key")
	observability.CLILogger.Info("  MINIO_BUCKET       destination bucket")
	observability.CLILogger.Info("")
	observability.CLILogger.Info("Optional:")
	observability.CLILogger.Info("  MINIO_CONSOLE_URL  web console base URL, adds console links")
	observability.CLILogger.Info("  MINIO_REGION       signing region (default us-east-1)")
	observability.CLILogger.Info("")
}
