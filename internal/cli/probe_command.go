package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"basso.audio/internal/audio"
	"basso.audio/internal/tracking"
	"basso.audio/pkg/bass"
)

// streamInfo collects the attribute snapshot printed by the probe command
type streamInfo struct {
	Source            string  `json:"source"`
	Format            string  `json:"format"`
	SampleRate        float32 `json:"sample_rate"`
	BitRate           float32 `json:"bit_rate_kbps"`
	Volume            float32 `json:"volume"`
	Pan               float32 `json:"pan"`
	BufferingLength   float32 `json:"buffering_length_seconds"`
	ResumeBufferLevel float32 `json:"resume_buffer_level_percent"`
	Granularity       float32 `json:"processing_granularity"`
	SRCQuality        float32 `json:"sample_rate_conversion_quality"`
	PlaybackBuffering float32 `json:"playback_buffering"`
	PlaybackRamping   float32 `json:"playback_ramping"`
}

func newProbeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe SOURCE",
		Short: "Inspect a file or URL without playing it",
		Long:  "Open a stream and print its attributes without starting playback.",
		Args:  cobra.ExactArgs(1),
		RunE:  runProbeE,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runProbeE(cmd *cobra.Command, args []string) error {
	cli := cliFromContext(cmd.Context())
	if cli == nil {
		return fmt.Errorf("CLI instance not found in context")
	}

	cfg, err := loadAndValidateConfig(cmd, cli)
	if err != nil {
		return err
	}
	setupLogging(cfg, cmd.ErrOrStderr())

	source := args[0]

	eng, err := cli.engineFactory.CreateEngine(cfg.Engine, cfg.LibraryPath)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	stream, err := openStream(eng, source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer stream.Close()

	info := collectStreamInfo(source, stream)
	info.Format = detectFormat(source)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stream info: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source:              %s\n", info.Source)
	fmt.Fprintf(out, "Format:              %s\n", info.Format)
	fmt.Fprintf(out, "Sample rate:         %.0f Hz\n", info.SampleRate)
	fmt.Fprintf(out, "Bit rate:            %.1f kbps\n", info.BitRate)
	fmt.Fprintf(out, "Volume:              %.2f\n", info.Volume)
	fmt.Fprintf(out, "Pan:                 %.2f\n", info.Pan)
	fmt.Fprintf(out, "Buffering length:    %.2f s\n", info.BufferingLength)
	fmt.Fprintf(out, "Resume buffer level: %.0f%%\n", info.ResumeBufferLevel)
	fmt.Fprintf(out, "Granularity:         %.0f\n", info.Granularity)

	return nil
}

// detectFormat names the audio format of a local source via the decoder
// registry's content detection. URLs and unreadable files fall back to
// extension-only detection.
func detectFormat(source string) string {
	registry := audio.NewDefaultRegistry()

	if tracking.KindForSource(source) == tracking.KindFile {
		if f, err := os.Open(source); err == nil {
			decoder, _ := registry.DetectFormatFromReader(source, f)
			f.Close()
			if decoder != nil {
				return decoder.FormatName()
			}
		}
	}

	if decoder := registry.DetectFormat(source); decoder != nil {
		return decoder.FormatName()
	}
	return "unknown"
}

func collectStreamInfo(source string, stream *bass.Stream) *streamInfo {
	return &streamInfo{
		Source:            source,
		SampleRate:        stream.GetSampleRate(),
		BitRate:           stream.GetBitRate(),
		Volume:            stream.GetVolume(),
		Pan:               stream.GetPanningPosition(),
		BufferingLength:   stream.GetBufferingLength(),
		ResumeBufferLevel: stream.GetResumeBufferLevel(),
		Granularity:       stream.GetProcessingGranularity(),
		SRCQuality:        stream.GetSampleRateConversionQuality(),
		PlaybackBuffering: stream.GetPlaybackBufferingSwitch(),
		PlaybackRamping:   stream.GetPlaybackRampingSwitch(),
	}
}
