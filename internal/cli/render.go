// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// render.go - One-shot rendering to the terminal, HTML, JSON or Markdown.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/export"
	"github.com/jeranaias/rigrun-md/internal/extract"
	"github.com/jeranaias/rigrun-md/internal/image"
	"github.com/jeranaias/rigrun-md/internal/model"
	"github.com/jeranaias/rigrun-md/internal/ui/components"
	"github.com/jeranaias/rigrun-md/internal/ui/styles"
	"github.com/jeranaias/rigrun-md/internal/util"
)

// FormatTerminal renders for the terminal; the other names are exporters.
const FormatTerminal = "terminal"

// renderFlags are shared by render, watch and repl.
type renderFlags struct {
	format      string
	width       int
	expand      bool
	noImages    bool
	noReasoning bool
	baseURL     string
	probe       bool
	headerStyle string
	imagePolicy string
	output      string
	messageFmt  string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.format, "format", "f", FormatTerminal, "output format: terminal, html, json, markdown")
	fl.IntVarP(&f.width, "width", "w", 0, "wrap width (default: terminal width)")
	fl.BoolVar(&f.expand, "expand", false, "show reasoning expanded")
	fl.BoolVar(&f.noImages, "no-images", false, "omit the image gallery")
	fl.BoolVar(&f.noReasoning, "no-reasoning", false, "drop reasoning sections")
	fl.StringVar(&f.baseURL, "base-url", "", "prefix for relative image URLs")
	fl.BoolVar(&f.probe, "probe", false, "check image URLs over HTTP")
	fl.StringVar(&f.headerStyle, "header-style", "", "code header: none, language, language+copy")
	fl.StringVar(&f.imagePolicy, "image-policy", "", "scan for image URLs in: content, prose")
	fl.StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	fl.StringVar(&f.messageFmt, "input-format", "", "stdin encoding: text, json, yaml")
}

// options maps config plus flags onto pipeline options.
func (f *renderFlags) options(app *App) (document.Options, error) {
	opts := app.Config.ToOptions()
	if f.noImages {
		opts.ImageGallery = false
	}
	if f.noReasoning {
		opts.ShowReasoningSections = false
	}
	if f.baseURL != "" {
		opts.BaseURL = f.baseURL
	}
	if f.headerStyle != "" {
		hs, err := document.ParseHeaderStyle(f.headerStyle)
		if err != nil {
			return opts, err
		}
		opts.HeaderStyle = hs
	}
	if f.imagePolicy != "" {
		opts.ImagePolicy = extract.ParseImagePolicy(f.imagePolicy)
	}
	return opts, nil
}

func newRenderCommand(app *App) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a message once",
		Long: `Render a message once and print it.

With no file, or "-", the message is read from stdin.`,
		Example: `  rigrun-md render reply.md
  rigrun-md render reply.json --format html -o reply.html
  cat reply.md | rigrun-md render --expand`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMessage(app, args, flags.messageFmt)
			if err != nil {
				return err
			}
			return renderOnce(cmd.Context(), app, flags, msg)
		},
	}
	flags.register(cmd)
	return cmd
}

// readMessage reads the message named by args, or stdin.
func readMessage(app *App, args []string, format string) (*model.Message, error) {
	if len(args) == 1 && args[0] != "-" {
		return model.LoadMessage(args[0])
	}
	f := model.FormatText
	if format != "" {
		f = model.Format(strings.ToLower(format))
	}
	return model.DecodeMessage(app.Stdin, f)
}

// renderOnce renders msg and writes it to the output target.
func renderOnce(ctx context.Context, app *App, flags *renderFlags, msg *model.Message) error {
	out, err := renderMessage(ctx, app, flags, msg)
	if err != nil {
		return err
	}
	if flags.output != "" {
		if err := util.AtomicWriteFile(flags.output, []byte(out), 0644); err != nil {
			return fmt.Errorf("write %s: %w", flags.output, err)
		}
		app.Logger.Info("wrote output", zap.String("path", flags.output), zap.String("format", flags.format))
		return nil
	}
	_, err = io.WriteString(app.Stdout, out)
	return err
}

// renderMessage runs the pipeline and formats the result.
func renderMessage(ctx context.Context, app *App, flags *renderFlags, msg *model.Message) (string, error) {
	opts, err := flags.options(app)
	if err != nil {
		return "", err
	}
	doc := document.New(opts).WithLogger(app.Logger).Render(msg)

	if flags.probe || app.Config.Images.Probe {
		prober := image.NewHTTPProber(app.Config.ProbeTimeout())
		doc.SetImages(image.Load(ctx, doc.Images, prober, app.Config.Images.Concurrency, app.Logger))
	}

	format := strings.ToLower(flags.format)
	if format == "" || format == FormatTerminal {
		return renderTerminal(app, flags, doc), nil
	}

	exp, err := export.New(format, exportOptions(app, flags))
	if err != nil {
		return "", err
	}
	data, err := exp.Export(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// renderTerminal draws doc with lipgloss and glamour.
func renderTerminal(app *App, flags *renderFlags, doc *document.Document) string {
	profile := applyColorProfile()
	theme := styles.NewTheme(app.Config.UI.Theme)
	theme.ColorProfile = profile

	view := components.NewMessageView(doc, theme, app.Labels())
	view.SetWidth(resolveWidth(flags.width, app.Config.Render.WordWrap))
	view.LineNumbers = app.Config.Code.LineNumbers
	view.SetExpanded(flags.expand)
	if !ColorsEnabled() {
		view.SetGlamourStyle("notty")
	}
	return view.View() + "\n"
}

func exportOptions(app *App, flags *renderFlags) *export.Options {
	opts := export.DefaultOptions()
	opts.Labels = app.Labels()
	opts.ExpandReasoning = flags.expand
	if app.Config.UI.Theme == "light" {
		opts.Theme = "light"
	}
	return opts
}
