package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/results"
	"github.com/hupe1980/results/cloudevents"
	"github.com/hupe1980/results/codec"
	"github.com/hupe1980/results/compress"
	"github.com/hupe1980/results/resource"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	logger     *results.Logger
	rc         *resource.Controller
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "resultctl",
		Short: "Inspect, encode, and archive CloudEvents result envelopes",
		Long: `resultctl works with results serialized as CloudEvents JSON envelopes.
It validates and inspects envelopes, encodes new ones from flags, compresses
them, and pushes them to a local, S3, or MinIO archive.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default: ./.resultctl.yaml)")
	pf.String("source", "", "default CloudEvents source")
	pf.String("success-type", "", "default event type for successful results")
	pf.String("failure-type", "", "default event type for failed results")
	pf.String("metadata-mode", "", "metadata in data: always | errors-only")
	pf.String("payload", "", "success payload mode: auto | bare | wrapped")
	pf.String("codec", "", "value codec: go-json | json")
	pf.String("compression", "", "compression: none | lz4 | zstd | s2 | gzip")
	pf.String("log-level", "", "log level: debug | info | warn | error")
	pf.String("backend", "", "archive backend: local | memory | s3 | minio")
	pf.String("dir", "", "archive directory for the local backend")
	pf.String("bucket", "", "archive bucket for the s3 and minio backends")
	pf.String("prefix", "", "archive blob name prefix")
	pf.String("endpoint", "", "object storage endpoint")
	pf.Int("workers", 0, "archive upload concurrency")
	pf.Int64("rate-bytes", 0, "archive and input I/O limit in bytes per second (0 = unlimited)")

	for key, flag := range map[string]string{
		cfgKeySource:       "source",
		cfgKeySuccessType:  "success-type",
		cfgKeyFailureType:  "failure-type",
		cfgKeyMetadataMode: "metadata-mode",
		cfgKeyPayload:      "payload",
		cfgKeyCodec:        "codec",
		cfgKeyCompression:  "compression",
		cfgKeyLogLevel:     "log-level",
		cfgKeyBackend:      "backend",
		cfgKeyDir:          "dir",
		cfgKeyBucket:       "bucket",
		cfgKeyPrefix:       "prefix",
		cfgKeyEndpoint:     "endpoint",
		cfgKeyWorkers:      "workers",
		cfgKeyRateBytes:    "rate-bytes",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newValidateCmd(a),
		newInspectCmd(a),
		newEncodeCmd(a),
		newCompressCmd(a, false),
		newCompressCmd(a, true),
		newArchiveCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(a.v, a.configFile); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString(cfgKeyLogLevel))); err != nil {
		return usageErr("log level: %v", err)
	}
	a.logger = results.NewTextLogger(cmd.ErrOrStderr(), level)

	a.rc = resource.NewController(resource.Config{
		MaxWorkers:         a.v.GetInt64(cfgKeyWorkers),
		IOLimitBytesPerSec: a.v.GetInt64(cfgKeyRateBytes),
	})
	return nil
}

func (a *app) newReader() (*cloudevents.Reader, error) {
	payload, err := cloudevents.ParsePayloadMode(a.v.GetString(cfgKeyPayload))
	if err != nil {
		return nil, err
	}
	c, err := a.valueCodec()
	if err != nil {
		return nil, err
	}

	opts := []cloudevents.ReadOption{
		cloudevents.WithSuccessPayload(payload),
		cloudevents.WithReadCodec(c),
		cloudevents.WithReadLogger(a.logger),
	}
	if ft := a.v.GetString(cfgKeyFailureType); ft != "" {
		opts = append(opts, cloudevents.WithFailureTypePredicate(func(eventType string) bool {
			return eventType == ft
		}))
	}
	return cloudevents.NewReader(opts...), nil
}

func (a *app) newWriter() (*cloudevents.Writer, error) {
	mode, err := cloudevents.ParseMetadataMode(a.v.GetString(cfgKeyMetadataMode))
	if err != nil {
		return nil, err
	}
	c, err := a.valueCodec()
	if err != nil {
		return nil, err
	}

	return cloudevents.NewWriter(
		cloudevents.WithDefaultSource(a.v.GetString(cfgKeySource)),
		cloudevents.WithDefaultTypes(a.v.GetString(cfgKeySuccessType), a.v.GetString(cfgKeyFailureType)),
		cloudevents.WithMetadataMode(mode),
		cloudevents.WithWriteCodec(c),
		cloudevents.WithWriteLogger(a.logger),
	), nil
}

func (a *app) valueCodec() (codec.Codec, error) {
	name := a.v.GetString(cfgKeyCodec)
	c, ok := codec.ByName(name)
	if !ok {
		return nil, usageErr("unknown codec %q", name)
	}
	return c, nil
}

func (a *app) compression(override string) (compress.Codec, error) {
	name := override
	if name == "" {
		name = a.v.GetString(cfgKeyCompression)
	}
	t, err := compress.ParseType(name)
	if err != nil {
		return nil, err
	}
	return compress.For(t)
}

// readInput reads a whole file, or stdin for "-", subject to the I/O limit.
func (a *app) readInput(ctx context.Context, cmd *cobra.Command, path string) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(resource.NewRateLimitedReader(ctx, r, a.rc))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
