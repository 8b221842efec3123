package commands

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/openai/openai-go"
	"github.com/spf13/cobra"

	"github.com/praven80/doctalk/cmd/doctalk/internal/config"
	"github.com/praven80/doctalk/pkg/bedrock"
	"github.com/praven80/doctalk/pkg/cli"
	"github.com/praven80/doctalk/pkg/doctalk"
	"github.com/praven80/doctalk/pkg/extract"
	"github.com/praven80/doctalk/pkg/imagegen"
	"github.com/praven80/doctalk/pkg/media"
	"github.com/praven80/doctalk/pkg/script"
	"github.com/praven80/doctalk/pkg/speech"
	"github.com/praven80/doctalk/pkg/storage"
)

var (
	genSource string
	genMedia  string
	genPrompt string
	genImages int
)

var generateCmd = &cobra.Command{
	Use:   "generate <file-or-url>",
	Short: "Curate a DocTalk episode from a document, article URL, or script",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genSource, "source", "", "episode source: doc, url, or script (default inferred from the argument)")
	generateCmd.Flags().StringVar(&genMedia, "media", "audio", "media type: audio or video")
	generateCmd.Flags().StringVarP(&genPrompt, "prompt", "p", "", "optional prompt to customize and curate the episode")
	generateCmd.Flags().IntVar(&genImages, "images", 1, "slideshow image count for video episodes")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	arg := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	source, err := resolveSource(genSource, arg)
	if err != nil {
		return err
	}
	mediaMode := doctalk.Media(genMedia)
	if mediaMode != doctalk.MediaAudio && mediaMode != doctalk.MediaVideo {
		return fmt.Errorf("invalid media type %q (want audio or video)", genMedia)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}

	var bedrockOpts []bedrock.Option
	if cfg.ScriptModel != "" {
		bedrockOpts = append(bedrockOpts, bedrock.WithScriptModel(cfg.ScriptModel))
	}
	if cfg.ImageModel != "" {
		bedrockOpts = append(bedrockOpts, bedrock.WithImageModel(cfg.ImageModel))
	}
	br := bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrockOpts...)

	synth, err := newSynthesizer(cfg, awsCfg)
	if err != nil {
		return err
	}

	session := doctalk.NewSession(source, mediaMode)
	store, err := storage.NewLocal(filepath.Join(cfg.WorkDir, session.ID))
	if err != nil {
		return err
	}

	opts := []doctalk.PipelineOption{
		doctalk.WithVoices(configuredVoices(cfg)),
	}
	if cfg.Publish.S3Bucket != "" {
		prefix := path.Join(cfg.Publish.S3Prefix, session.ID)
		opts = append(opts, doctalk.WithPublisher(
			storage.NewS3(s3.NewFromConfig(awsCfg), cfg.Publish.S3Bucket, prefix)))
	}

	pipeline := doctalk.NewPipeline(br.Script, imagegen.NewDriver(br.Image), synth, store, media.New(), opts...)

	req, err := buildRequest(ctx, session, source, arg)
	if err != nil {
		return err
	}

	cli.PrintInfo("Curating the DocTalk episode (run %s)...", session.ID)
	ep, err := pipeline.Run(ctx, req)
	if err != nil {
		return err
	}

	printEpisode(store, ep)
	return nil
}

// resolveSource infers the source type from the argument when the
// --source flag is not given: URLs by scheme, everything else as a
// document.
func resolveSource(flag, arg string) (doctalk.Source, error) {
	switch flag {
	case "doc":
		return doctalk.SourceDocument, nil
	case "url":
		return doctalk.SourceURL, nil
	case "script":
		return doctalk.SourceScript, nil
	case "":
		if isURL(arg) {
			return doctalk.SourceURL, nil
		}
		return doctalk.SourceDocument, nil
	default:
		return "", fmt.Errorf("invalid source %q (want doc, url, or script)", flag)
	}
}

func isURL(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}

func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func newSynthesizer(cfg *config.Config, awsCfg aws.Config) (speech.Synthesizer, error) {
	switch cfg.Speech.Backend {
	case "", "polly":
		return speech.NewPollySynthesizer(polly.NewFromConfig(awsCfg)), nil

	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			key = cfg.Speech.OpenAIAPIKey
		}
		if key == "" {
			return nil, fmt.Errorf("openai speech backend requires OPENAI_API_KEY or speech.openai_api_key")
		}
		var opts []speech.OpenAIOption
		if cfg.Speech.OpenAIModel != "" {
			opts = append(opts, speech.WithOpenAIModel(openai.SpeechModel(cfg.Speech.OpenAIModel)))
		}
		return speech.NewOpenAISynthesizer(key, opts...), nil

	default:
		return nil, fmt.Errorf("unknown speech backend %q (want polly or openai)", cfg.Speech.Backend)
	}
}

func configuredVoices(cfg *config.Config) *script.VoiceMap {
	voiceA, voiceB := script.VoiceHostA, script.VoiceHostB
	if cfg.Speech.VoiceA != "" {
		voiceA = script.VoiceID(cfg.Speech.VoiceA)
	}
	if cfg.Speech.VoiceB != "" {
		voiceB = script.VoiceID(cfg.Speech.VoiceB)
	}
	return script.NewVoiceMap(voiceA, voiceB)
}

// buildRequest reads and extracts the source material.
func buildRequest(ctx context.Context, session *doctalk.Session, source doctalk.Source, arg string) (*doctalk.Request, error) {
	req := &doctalk.Request{
		Session:    session,
		UserPrompt: genPrompt,
		Images:     genImages,
	}

	switch source {
	case doctalk.SourceDocument:
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		doc, err := extract.ReadDocument(filepath.Base(arg), data)
		if err != nil {
			return nil, err
		}
		req.Document = doc

	case doctalk.SourceURL:
		art, err := extract.NewFetcher().Fetch(ctx, arg)
		if err != nil {
			return nil, err
		}
		req.URL = arg
		req.Article = art

	case doctalk.SourceScript:
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		req.Script = string(data)
	}
	return req, nil
}

func printEpisode(store *storage.Local, ep *doctalk.Episode) {
	rows := []cli.Row{
		{Label: "Title", Value: ep.Title},
		{Label: "Utterances", Value: fmt.Sprintf("%d (%d synthesized)", len(ep.Utterances), ep.Clips)},
		{Label: "Audio", Value: store.Path(ep.Audio.Path)},
		{Label: "Duration", Value: (time.Duration(ep.Audio.Duration * float64(time.Second))).Round(time.Second).String()},
	}
	for _, img := range ep.Images {
		value := store.Path(img.Path)
		if img.Fallback {
			value += " (fallback)"
		}
		rows = append(rows, cli.Row{Label: "Image", Value: value})
	}
	if ep.VideoPath != "" {
		rows = append(rows, cli.Row{Label: "Video", Value: store.Path(ep.VideoPath)})
	}

	fmt.Println(cli.Summary(cli.NewStyles(cli.DefaultTheme), "DocTalk Episode", rows))

	if ep.VideoErr != nil {
		cli.PrintWarning("video rendering failed, audio preserved: %v", ep.VideoErr)
	}
	cli.PrintSuccess("episode ready in %s", store.Root())
}
