package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	api "github.com/weak-head/icon-convert/api/v1"
	"github.com/weak-head/icon-convert/internal/config"
	"github.com/weak-head/icon-convert/internal/logger"
	"github.com/weak-head/icon-convert/internal/metrics"
	"github.com/weak-head/icon-convert/internal/processor"
	"github.com/weak-head/icon-convert/internal/sleeper"
	"github.com/weak-head/icon-convert/internal/storage"
	"github.com/weak-head/icon-convert/internal/stream"
)

const (
	version = "dev"

	// The source and the destination are fixed,
	// relative to the working directory.
	resourcesBucket   = "resources"
	sourceObject      = "icon.jpg"
	destinationObject = "icon.png"

	statusConverted = "Converted successfully"

	// maxBackoff caps the sleep between event write attempts.
	maxBackoff = 5 * time.Second
)

type cli struct {
	workDir string

	cfg *config.Config
	log logger.Log
}

func (c *cli) initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.workDir)
	if err != nil {
		return err
	}

	log, err := logger.NewWithOutput(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	c.cfg = cfg
	c.log = log.WithField(logger.FieldPackage, "main")
	return nil
}

// run converts the image and prints the outcome.
// A failed conversion is reported, not returned.
func (c *cli) run(cmd *cobra.Command, args []string) error {
	printStatus(cmd.OutOrStdout(), c.convert(cmd.Context()))
	return nil
}

func (c *cli) convert(ctx context.Context) error {
	store, err := storage.New(c.cfg.Storage, c.workDir, c.log)
	if err != nil {
		return err
	}

	converter, err := processor.NewConverter(c.cfg.Converter)
	if err != nil {
		return err
	}

	reporter, err := metrics.NewReporter(metrics.ServiceInfo{Engine: c.cfg.Metrics.Engine})
	if err != nil {
		return err
	}

	publisher, closePublisher := c.newPublisher()
	defer closePublisher()

	p, err := processor.NewProcessor(converter, store, reporter, publisher, c.log)
	if err != nil {
		return err
	}

	_, convErr := p.Process(ctx, c.location(sourceObject), c.location(destinationObject))

	if err := reporter.Push(ctx, c.cfg.Metrics); err != nil {
		c.log.Error(err, "Failed to push the metrics.")
	}

	return convErr
}

// newPublisher creates the kafka publisher if events are configured.
// The conversion goes on without events if the writer cannot be created.
func (c *cli) newPublisher() (processor.Publisher, func()) {
	nop := func() {}
	if !c.cfg.Events.Enabled() {
		return stream.NewNopPublisher(), nop
	}

	writer, err := stream.NewWriter(c.cfg.Events)
	if err != nil {
		c.log.Error(err, "Failed to create the kafka writer, conversion events are disabled.")
		return stream.NewNopPublisher(), nop
	}
	closeWriter := func() {
		if err := writer.Close(); err != nil {
			c.log.Error(err, "Failed to close the kafka writer.")
		}
	}

	s, err := sleeper.NewExponentialSleeper(c.cfg.Events.Backoff, maxBackoff)
	if err != nil {
		c.log.Error(err, "Failed to create the sleeper, conversion events are disabled.")
		closeWriter()
		return stream.NewNopPublisher(), nop
	}

	publisher, err := stream.NewPublisher(writer, s, c.cfg.Events.Retries, c.log)
	if err != nil {
		c.log.Error(err, "Failed to create the publisher, conversion events are disabled.")
		closeWriter()
		return stream.NewNopPublisher(), nop
	}

	return publisher, closeWriter
}

func (c *cli) location(objectName string) *api.Location {
	kind := api.Location_FS
	if c.cfg.Storage.Kind == storage.KindMinio {
		kind = api.Location_MINIO
	}

	return &api.Location{
		Kind:       kind,
		Bucket:     resourcesBucket,
		ObjectName: objectName,
	}
}

// printStatus writes the single status line of the run.
func printStatus(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, statusConverted)
}

func newCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "icon-convert",
		Short: "Convert resources/icon.jpg to resources/icon.png",
		Long: `Converts the image at resources/icon.jpg to PNG, writes it to resources/icon.png
and removes the original once the PNG is in place.`,
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE:       c.initConfig,
		RunE:          c.run,
	}
}

// execute runs the command. Every failure is reported on the
// command output, the process exit status is never affected.
func execute(cmd *cobra.Command) {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		printStatus(cmd.OutOrStdout(), err)
	}
}

func main() {
	execute(newCommand(&cli{workDir: "."}))
}
