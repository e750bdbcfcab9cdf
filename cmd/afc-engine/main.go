// Command afc-engine is the thin CLI wrapper spec.md §6 describes: it
// decodes a JSON inquiry and a JSON run configuration, drives one
// engine.Manager run, and writes a structured JSON response plus a
// `percent\nmessage` progress file, exiting 0 on success and non-zero
// otherwise (spec.md: "Exit codes (CLI wrapper, thin)").
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/afc6ghz/engine/afcio"
	"github.com/afc6ghz/engine/engine"
	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/raster"
	"github.com/afc6ghz/engine/terrain"
)

var (
	inquiryPath  string
	configPath   string
	responsePath string
	progressPath string
)

func init() {
	runCommand.Flags().StringVarP(&inquiryPath, "inquiry", "i", "", "path to the JSON inquiry document (required)")
	runCommand.Flags().StringVarP(&configPath, "config", "c", "", "path to the JSON run configuration (required)")
	runCommand.Flags().StringVarP(&responsePath, "out", "o", "response.json", "path to write the JSON response document")
	runCommand.Flags().StringVarP(&progressPath, "progress", "p", "progress.txt", "path to write percent/message progress lines")
	_ = runCommand.MarkFlagRequired("inquiry")
	_ = runCommand.MarkFlagRequired("config")
}

func main() {
	if err := runCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var runCommand = &cobra.Command{
	Use:   "afc-engine --inquiry inquiry.json --config config.json",
	Short: "run one AFC availability analysis and write a response document",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := execute(cmd.Context())
		if err := writeResponse(responsePath, resp); err != nil {
			return fmt.Errorf("afc-engine: write response: %w", err)
		}
		if resp.ResponseCode != afcio.ResponseSuccess {
			return fmt.Errorf("afc-engine: %s: %s", resp.ResponseCode, resp.ResponseMessage)
		}
		return nil
	},
}

// execute runs the whole request/response cycle, always producing a
// Response (success or otherwise) rather than returning raw errors, so a
// malformed inquiry and a run-time analysis failure both reach the
// caller through the one documented channel: the response document.
func execute(ctx context.Context) afcio.Response {
	report := progressReporter(progressPath)
	report(0, "loading request")

	var runCfg runConfig
	if err := readJSON(configPath, &runCfg); err != nil {
		return afcio.ErrorResponse("", fmt.Errorf("afc-engine: read config: %w", err))
	}
	var inquiry afcio.Inquiry
	if err := readJSON(inquiryPath, &inquiry); err != nil {
		return afcio.ErrorResponse("", fmt.Errorf("afc-engine: read inquiry: %w", err))
	}

	if err := afcio.ValidateInquiry(inquiry, runCfg.SupportedVersions); err != nil {
		return afcio.ErrorResponse(inquiry.RequestID, err)
	}
	report(10, "request validated")

	region, err := afcio.ToRegion(inquiry.Location)
	if err != nil {
		return afcio.ErrorResponse(inquiry.RequestID, &afcio.RequestError{Code: afcio.ResponseInvalidValue, Detail: err.Error()})
	}
	channels, err := afcio.ExpandChannels(inquiry.InquiredChannels)
	if err != nil {
		return afcio.ErrorResponse(inquiry.RequestID, &afcio.RequestError{Code: afcio.ResponseUnsupportedSpectrum, Detail: err.Error()})
	}
	ranges := afcio.ToFreqRanges(inquiry.InquiredFrequencyRanges)

	logger := log.New(os.Stderr, "afc-engine: ", log.LstdFlags)
	manager := engine.NewManager(logger)
	if err := manager.Configure(runCfg.Engine.toEngineConfig()); err != nil {
		return afcio.ErrorResponse(inquiry.RequestID, err)
	}
	report(20, "loading databases")

	store, registry, err := loadDatabases(ctx, runCfg)
	if err != nil {
		return afcio.ErrorResponse(inquiry.RequestID, fmt.Errorf("afc-engine: load databases: %w", err))
	}
	if err := manager.LoadDatabases(store, registry); err != nil {
		return afcio.ErrorResponse(inquiry.RequestID, err)
	}
	report(40, "running analysis")

	result, err := manager.PointAnalysis(region, channels, ranges)
	if err != nil {
		return afcio.ErrorResponse(inquiry.RequestID, err)
	}
	report(100, "analysis complete")

	return afcio.BuildResponse(inquiry.RequestID, result)
}

// progressReporter returns a function that overwrites path with one
// percent/message update per call, matching afcio.ProgressWriter's
// contract that the caller truncates the file on every report rather
// than appending a growing log. An empty path reports to stderr instead.
func progressReporter(path string) func(percent int, message string) {
	return func(percent int, message string) {
		if path == "" {
			_ = afcio.NewProgressWriter(os.Stderr).Report(percent, message)
			return
		}
		f, err := os.Create(path)
		if err != nil {
			return
		}
		_ = afcio.NewProgressWriter(f).Report(percent, message)
		f.Close()
	}
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

func writeResponse(path string, resp afcio.Response) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// loadDatabases builds the FS/RAS store and raster registry runCfg
// describes, the concrete, file-backed databases spec.md §4.J's
// DatabasesLoaded state expects to already be in hand.
func loadDatabases(ctx context.Context, cfg runConfig) (*fsstore.Store, *raster.Registry, error) {
	store := fsstore.NewStore()
	registry := raster.NewRegistry()

	handles := raster.NewHandleCache(cfg.maxOpenHandlesOrDefault())
	cache := raster.NewTileCache(handles, cfg.tileCountOrDefault(), cfg.tileSizeOrDefault())

	for _, ds := range cfg.DataSources {
		src, err := ds.build(ctx, cache)
		if err != nil {
			return nil, nil, fmt.Errorf("data source %q: %w", ds.Kind, err)
		}
		registry.Register(ds.sourceKind(), src)
	}

	if cfg.FSDatabasePath != "" {
		loader, err := fsstore.OpenSQLiteLoader(cfg.FSDatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open FS database %q: %w", cfg.FSDatabasePath, err)
		}
		defer loader.Close()

		resolver := terrain.NewResolver(registry)
		bounds := cfg.WindowBounds.toBBox()
		if err := loader.LoadWindow(store, resolver, bounds, cfg.StartMHz, cfg.StopMHz); err != nil {
			return nil, nil, fmt.Errorf("load FS window: %w", err)
		}
	}

	return store, registry, nil
}
