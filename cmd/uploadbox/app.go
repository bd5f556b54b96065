package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/uploadbox/internal/config"
	"github.com/vango-dev/uploadbox/internal/errors"
	"github.com/vango-dev/uploadbox/internal/preview"
	"github.com/vango-dev/uploadbox/pkg/apiclient"
	"github.com/vango-dev/uploadbox/pkg/saver"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	apiBaseURL string
}

// loadConfig reads the config file, overlays UPLOADBOX_* variables and
// then flags, and validates the result.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return nil, errors.New("C002").Wrap(err)
		}
		cfg, err = config.Load(wd)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.apiBaseURL != "" {
		cfg.Server.APIBaseURL = strings.TrimRight(g.apiBaseURL, "/")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newAPIClient builds the host API client. The http.Client owns the
// per-call timeout.
func newAPIClient(cfg *config.Config) (*apiclient.Client, error) {
	if cfg.Server.APIBaseURL == "" {
		return nil, errors.New("N003")
	}
	hc := &http.Client{Timeout: cfg.Timeout()}
	return apiclient.New(cfg.Server.APIBaseURL,
		apiclient.WithHTTPClient(hc),
		apiclient.WithHeader("User-Agent", "uploadbox/"+version),
	), nil
}

// newSaver returns the Saver for target. s3:// URLs go to AWS, or to the
// S3-compatible server named by s3cfg.Endpoint; anything else is a local
// directory.
func newSaver(ctx context.Context, target string, s3cfg config.S3Config) (uploadbox.Saver, error) {
	if !saver.IsS3URL(target) {
		s, err := saver.NewDiskSaver(target)
		if err != nil {
			return nil, errors.New("S001").Wrap(err)
		}
		return s, nil
	}

	bucket, prefix, err := saver.ParseS3URL(target)
	if err != nil {
		return nil, errors.New("U002").Wrap(err).
			WithSuggestion("Use s3://bucket or s3://bucket/prefix")
	}

	if s3cfg.Endpoint != "" {
		client, err := saver.NewMinioClient(s3cfg.Endpoint, s3cfg.AccessKey, s3cfg.SecretKey)
		if err != nil {
			return nil, errors.New("S002").Wrap(err).
				WithSuggestion("Set UPLOADBOX_S3_ACCESS_KEY and UPLOADBOX_S3_SECRET_KEY")
		}
		return saver.NewMinioSaver(client, bucket, prefix), nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if s3cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s3cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("S002").Wrap(err)
	}
	return saver.NewS3Saver(s3.NewFromConfig(awsCfg), bucket, prefix), nil
}

// newMetrics creates the box collectors on a fresh registry together
// with the Go runtime and process collectors. Both results are nil when
// metrics are disabled.
func newMetrics(cfg *config.Config) (*uploadbox.Metrics, *prometheus.Registry) {
	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := uploadbox.NewMetrics(
		uploadbox.WithNamespace(cfg.Metrics.Namespace),
		uploadbox.WithRegistry(reg),
	)
	return m, reg
}

// readFileList decodes a JSON array of server files from path, or from
// stdin when path is "-".
func readFileList(path string, stdin io.Reader) ([]uploadbox.UploadedFile, error) {
	if path == "" {
		return nil, nil
	}
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.New("U002").Wrap(err).
				WithDetail("Cannot open file list " + path)
		}
		defer f.Close()
		r = f
	}
	files, err := preview.DecodeServerFiles(r)
	if err != nil {
		return nil, errors.New("U002").Wrap(err).
			WithDetail("The file list must be a JSON array of server files")
	}
	return files, nil
}
