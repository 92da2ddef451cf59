package cli

import (
	"fmt"

	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/phambaophuc/image-captioning/internal/services/caption"
	"github.com/spf13/cobra"
)

var (
	wrapWidth    int
	wrapHeight   int
	wrapFontSize int
	wrapMargin   int
	wrapOutline  bool
	wrapSVG      bool
)

var wrapCmd = &cobra.Command{
	Use:   "wrap <text>",
	Short: "Print the wrapped lines for a caption",
	Long: `Print how a caption wraps and where it is placed on an image of the
given size. With --svg the overlay markup is printed as well.

Examples:
  captioner wrap "Hello world" --width 1000 --height 800
  captioner wrap "a long caption" --width 320 --font-size 30 --svg`,
	Args: cobra.ExactArgs(1),
	RunE: runWrap,
}

func init() {
	wrapCmd.Flags().IntVar(&wrapWidth, "width", 1000, "image width in pixels")
	wrapCmd.Flags().IntVar(&wrapHeight, "height", 800, "image height in pixels")
	wrapCmd.Flags().IntVar(&wrapFontSize, "font-size", models.DefaultFontSize, "font size in pixels")
	wrapCmd.Flags().IntVar(&wrapMargin, "margin", models.DefaultMargin, "margin in pixels")
	wrapCmd.Flags().BoolVar(&wrapOutline, "outline", models.DefaultOutline, "include the outline stroke")
	wrapCmd.Flags().BoolVar(&wrapSVG, "svg", false, "print the overlay SVG")

	rootCmd.AddCommand(wrapCmd)
}

func runWrap(cmd *cobra.Command, args []string) error {
	if wrapWidth <= 0 || wrapHeight <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", wrapWidth, wrapHeight)
	}
	if wrapFontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %d", wrapFontSize)
	}

	style := caption.OverlayStyle{
		FontSize:   wrapFontSize,
		TextColor:  models.DefaultTextColor,
		Margin:     wrapMargin,
		FontFamily: models.DefaultFontFamily,
		Outline:    wrapOutline,
	}
	layout := caption.ComputeLayout(wrapWidth, wrapHeight, args[0], style)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "max width: %dpx, max chars: %d, line height: %dpx, first baseline: %d\n",
		layout.MaxWidth, layout.MaxChars, layout.LineHeight, layout.FirstBaseline)
	for i, line := range layout.Lines {
		fmt.Fprintf(out, "%3d | %s\n", i+1, line)
	}

	if wrapSVG {
		fmt.Fprintln(out, string(caption.BuildOverlay(wrapWidth, wrapHeight, args[0], style)))
	}
	return nil
}
