package cli

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "captioner" {
		t.Errorf("expected Use 'captioner', got '%s'", rootCmd.Use)
	}

	subcommands := []string{"serve", "render", "wrap", "version"}
	for _, name := range subcommands {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
}

func TestRenderCommandFlags(t *testing.T) {
	if renderCmd.Use != "render <image>" {
		t.Errorf("expected Use 'render <image>', got '%s'", renderCmd.Use)
	}

	flags := []string{"caption", "font-size", "text-color", "margin", "font-family", "outline", "format", "quality", "output"}
	for _, flag := range flags {
		if renderCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestWrapCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"wrap", "Hello world", "--width", "1000", "--height", "800", "--svg"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("wrap failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"max chars: 53", "first baseline: 784", "  1 | Hello world", "<svg"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestWrapCommandRejectsBadSize(t *testing.T) {
	rootCmd.SetArgs([]string{"wrap", "Hello", "--width", "0", "--svg=false"})
	defer rootCmd.SetArgs(nil)
	rootCmd.SetErr(&bytes.Buffer{})
	defer rootCmd.SetErr(nil)

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for zero width")
	}
	wrapWidth = 1000
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.png")

	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{B: 200, A: 255})
		}
	}
	f, err := os.Create(input)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	rootCmd.SetErr(&bytes.Buffer{})
	defer rootCmd.SetErr(nil)
	rootCmd.SetArgs([]string{"render", input, "--caption", "Hello", "--format", "png"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	output := filepath.Join(dir, "captioned.png")
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 120 || cfg.Height != 80 {
		t.Errorf("output size = %dx%d, want 120x80", cfg.Width, cfg.Height)
	}
}

func TestRenderCommandMissingFile(t *testing.T) {
	rootCmd.SetErr(&bytes.Buffer{})
	defer rootCmd.SetErr(nil)
	rootCmd.SetArgs([]string{"render", filepath.Join(t.TempDir(), "missing.png"), "--caption", "Hello"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for missing input")
	}
}
