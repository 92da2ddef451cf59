package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phambaophuc/image-captioning/internal/app"
	"github.com/phambaophuc/image-captioning/internal/config"
	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderCaption    string
	renderFontSize   int
	renderTextColor  string
	renderMargin     int
	renderFontFamily string
	renderOutline    bool
	renderFormat     string
	renderQuality    int
	renderOutput     string
)

var renderCmd = &cobra.Command{
	Use:   "render <image>",
	Short: "Caption a local image",
	Long: `Caption a local image file and write the result.

Flags that are not given keep the configured defaults (CAPTION_CONFIG).

Examples:
  captioner render photo.jpg --caption "Hello world"
  captioner render photo.jpg -c "Hello" --format png -o out.png
  captioner render photo.jpg -c "Hello" --font-size 40 --outline=false`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderCaption, "caption", "c", "", "caption text")
	renderCmd.Flags().IntVar(&renderFontSize, "font-size", models.DefaultFontSize, "font size in pixels")
	renderCmd.Flags().StringVar(&renderTextColor, "text-color", models.DefaultTextColor, "fill colour (hex or CSS name)")
	renderCmd.Flags().IntVar(&renderMargin, "margin", models.DefaultMargin, "margin in pixels")
	renderCmd.Flags().StringVar(&renderFontFamily, "font-family", models.DefaultFontFamily, "font family list")
	renderCmd.Flags().BoolVar(&renderOutline, "outline", models.DefaultOutline, "draw a black outline behind the text")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", string(models.DefaultFormat), "output format (webp, jpeg, png)")
	renderCmd.Flags().IntVarP(&renderQuality, "quality", "q", models.DefaultQuality, "encoder quality (1-100)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output path (default: captioned.<ext> next to the input)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	src, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	service, err := app.NewCaptioner(cfg, zap.NewNop())
	if err != nil {
		return err
	}

	opts := renderOptions(cmd, service.Defaults())
	result, err := service.Caption(cmd.Context(), src, opts)
	if err != nil {
		return fmt.Errorf("failed to caption %s: %w", inputPath, err)
	}

	outputPath := renderOutput
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(inputPath), result.Format.Filename())
	}
	if err := os.WriteFile(outputPath, result.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Captioned %dx%d image (%d lines): %s\n",
		result.Dimensions.Width, result.Dimensions.Height, result.Lines, outputPath)
	return nil
}

// renderOptions starts from the configured defaults and applies only the
// flags the user set.
func renderOptions(cmd *cobra.Command, defaults models.CaptionOptions) models.CaptionOptions {
	opts := defaults
	opts.Caption = renderCaption

	flags := cmd.Flags()
	if flags.Changed("font-size") {
		opts.FontSize = renderFontSize
	}
	if flags.Changed("text-color") {
		opts.TextColor = renderTextColor
	}
	if flags.Changed("margin") {
		opts.Margin = renderMargin
	}
	if flags.Changed("font-family") {
		opts.FontFamily = renderFontFamily
	}
	if flags.Changed("outline") {
		outline := renderOutline
		opts.Outline = &outline
	}
	if flags.Changed("format") {
		opts.Output = models.ParseOutputFormat(renderFormat)
	}
	if flags.Changed("quality") {
		opts.Quality = renderQuality
	}
	return opts
}
