package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/application/usecases"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/felixgeelhaar/snapguard/pkg/exitcode"
	"github.com/felixgeelhaar/snapguard/pkg/pathutil"
)

var (
	renderURL      string
	renderHTMLFile string
	renderSelector string
	renderWidth    int
	renderHeight   int
	renderTestFile string
	renderName     string
	renderModes    modeFlags

	// newRenderer is replaced in tests.
	newRenderer func(cmd *cobra.Command) ports.Renderer
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a page in headless Chrome and check it",
	Long: `Render a URL or an HTML file in headless Chrome, capture the viewport
or one element, and resolve the capture against its stored snapshot.

A local Chrome is downloaded and launched on first use unless
render.remote_url in the config points at a running one.

Examples:
  snapguard render --url http://localhost:6006/iframe.html?id=button --test-file button_test.go --name primary
  snapguard render --html-file card.html --selector "#card" --test-file card_test.go --name card`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderURL, "url", "", "page to render")
	renderCmd.Flags().StringVar(&renderHTMLFile, "html-file", "", "HTML document to render")
	renderCmd.Flags().StringVar(&renderSelector, "selector", "", "capture only this element")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "viewport width (default: render.width)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "viewport height (default: render.height)")
	renderCmd.Flags().StringVar(&renderTestFile, "test-file", "", "test file owning the snapshot (required)")
	renderCmd.Flags().StringVar(&renderName, "name", "", "snapshot name (required)")
	renderModes.register(renderCmd)
	_ = renderCmd.MarkFlagRequired("test-file")
	_ = renderCmd.MarkFlagRequired("name")
	renderCmd.MarkFlagsMutuallyExclusive("url", "html-file")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderURL == "" && renderHTMLFile == "" {
		return fmt.Errorf("one of --url or --html-file is required")
	}

	req := ports.RenderRequest{
		URL:      renderURL,
		Selector: renderSelector,
		Width:    renderWidth,
		Height:   renderHeight,
	}
	if renderHTMLFile != "" {
		path, err := pathutil.ValidatePath(renderHTMLFile)
		if err != nil {
			return fmt.Errorf("invalid HTML path: %w", err)
		}
		html, err := os.ReadFile(path) // #nosec G304 - path is validated above
		if err != nil {
			return fmt.Errorf("failed to read HTML file: %w", err)
		}
		req.HTML = string(html)
	}

	comps, writer, err := setup(cmd, renderModes.modes())
	if err != nil {
		return err
	}
	defer func() { _ = writer.Flush() }()

	var renderer ports.Renderer
	if newRenderer != nil {
		renderer = newRenderer(cmd)
	} else {
		renderer = comps.Renderer()
	}
	defer func() { _ = renderer.Close() }()

	out, err := comps.Check(writer, renderer).Execute(cmdContext(cmd), usecases.CheckSnapshotInput{
		Identity: snapshot.NewIdentity(renderTestFile, renderName),
		Modes:    comps.Config.Modes,
		Render:   &req,
	})
	if err != nil {
		_ = writer.WriteError(err)
		return &exitError{code: exitcode.Error}
	}

	return resultsError([]snapshot.Result{out.Result})
}
