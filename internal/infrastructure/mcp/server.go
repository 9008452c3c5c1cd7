package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/application/usecases"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/bootstrap"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/config"
	"github.com/felixgeelhaar/snapguard/pkg/pathutil"
)

// Server wraps the MCP server with snapshot tools.
type Server struct {
	mcpServer  *mcp.Server
	config     *config.Config
	components *bootstrap.Components
	renderer   ports.Renderer
}

// NewServer creates a snapguard MCP server. renderer may be nil, in which
// case snapshot_check only accepts image files and base64 PNG data.
func NewServer(cfg *config.Config, renderer ports.Renderer, version string) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if version == "" {
		version = "dev"
	}
	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "snapguard",
		Version: version,
		Capabilities: mcp.Capabilities{
			Tools:     true,
			Resources: true,
		},
	})

	s := &Server{
		mcpServer:  srv,
		config:     cfg,
		components: bootstrap.New(cfg, nil),
		renderer:   renderer,
	}

	s.registerTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server with stdio transport.
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// ServeHTTP starts the MCP server with HTTP transport.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr,
		mcp.WithReadTimeout(60*time.Second),
		mcp.WithWriteTimeout(60*time.Second),
	)
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("snapshot_check").
		Description("Resolve an image against its stored snapshot. Records missing baselines, reports mismatches and honors record/debug/delete modes.").
		Handler(s.handleCheck)

	s.mcpServer.Tool("snapshot_list").
		Description("List stored snapshots and failed variants under a directory.").
		Handler(s.handleList)

	s.mcpServer.Tool("snapshot_delete").
		Description("Delete one snapshot by identity, or every matching snapshot under a directory.").
		Handler(s.handleDelete)

	s.mcpServer.Tool("snapshot_diff").
		Description("Compose the saved/new/overlay triage image for a snapshot and its failed variant.").
		Handler(s.handleDiff)
}

func (s *Server) registerResources() {
	s.mcpServer.Resource("snapguard://config").
		Name("Configuration").
		Description("Current snapguard configuration.").
		MimeType("application/json").
		Handler(s.handleConfigResource)

	s.mcpServer.Resource("snapguard://snapshots").
		Name("Snapshots").
		Description("Snapshots stored under the working directory.").
		MimeType("application/json").
		Handler(s.handleSnapshotsResource)
}

// CheckInput defines the input for snapshot_check.
type CheckInput struct {
	TestFile   string `json:"test_file" jsonschema:"description=Source file of the test owning the snapshot"`
	Name       string `json:"name" jsonschema:"description=Snapshot name"`
	Image      string `json:"image,omitempty" jsonschema:"description=Path to a PNG to check"`
	PNGBase64  string `json:"png_base64,omitempty" jsonschema:"description=Base64 encoded PNG to check"`
	URL        string `json:"url,omitempty" jsonschema:"description=Page to render and check"`
	HTML       string `json:"html,omitempty" jsonschema:"description=HTML document to render and check"`
	Selector   string `json:"selector,omitempty" jsonschema:"description=Element to capture when rendering"`
	Record     bool   `json:"record,omitempty" jsonschema:"description=Overwrite the stored snapshot"`
	Debug      bool   `json:"debug,omitempty" jsonschema:"description=Re-record and verify the write"`
	Delete     bool   `json:"delete,omitempty" jsonschema:"description=Delete the stored snapshot"`
	SaveFailed bool   `json:"save_failed,omitempty" jsonschema:"description=Save the new image next to a mismatching snapshot"`
}

func (in CheckInput) modes() snapshot.Modes {
	return snapshot.Modes{
		RecordNew:         in.Record,
		Debug:             in.Debug,
		DeleteExisting:    in.Delete,
		SaveFailedVariant: in.SaveFailed,
	}
}

// CheckResult represents the outcome of snapshot_check.
type CheckResult struct {
	Kind       string `json:"kind"`
	Passed     bool   `json:"passed"`
	Message    string `json:"message"`
	Snapshot   string `json:"snapshot"`
	Path       string `json:"path"`
	FailedPath string `json:"failed_path,omitempty"`
	DiffPath   string `json:"diff_path,omitempty"`
	Modes      string `json:"modes"`
}

func (s *Server) handleCheck(ctx context.Context, input CheckInput) (*CheckResult, error) {
	if input.TestFile == "" {
		return nil, fmt.Errorf("test_file is required")
	}

	check := usecases.CheckSnapshotInput{
		Identity: snapshot.NewIdentity(input.TestFile, input.Name),
		Modes:    s.config.Modes.Merge(input.modes()),
	}

	switch {
	case input.Image != "":
		path, err := pathutil.ValidatePath(input.Image)
		if err != nil {
			return nil, fmt.Errorf("invalid image path: %w", err)
		}
		data, err := os.ReadFile(path) // #nosec G304 - path is validated above
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		check.Data = data
	case input.PNGBase64 != "":
		data, err := base64.StdEncoding.DecodeString(input.PNGBase64)
		if err != nil {
			return nil, fmt.Errorf("invalid png_base64: %w", err)
		}
		check.Data = data
	case input.URL != "" || input.HTML != "":
		check.Render = &ports.RenderRequest{URL: input.URL, HTML: input.HTML, Selector: input.Selector}
	default:
		return nil, fmt.Errorf("one of image, png_base64, url or html is required")
	}

	out, err := s.components.Check(nil, s.renderer).Execute(ctx, check)
	if err != nil {
		return nil, err
	}

	r := out.Result
	return &CheckResult{
		Kind:       r.Kind.String(),
		Passed:     r.Passed(),
		Message:    r.Message,
		Snapshot:   r.Identity.String(),
		Path:       r.Path,
		FailedPath: r.FailedPath,
		DiffPath:   out.DiffPath,
		Modes:      r.Modes.String(),
	}, nil
}

// ListInput defines the input for snapshot_list.
type ListInput struct {
	Root       string `json:"root,omitempty" jsonschema:"description=Directory to search (default: current directory)"`
	Match      string `json:"match,omitempty" jsonschema:"description=Doublestar pattern relative to root"`
	FailedOnly bool   `json:"failed_only,omitempty" jsonschema:"description=Only list failed variants"`
}

// ListResult represents the result of snapshot_list.
type ListResult struct {
	TotalCount  int              `json:"total_count"`
	ShownCount  int              `json:"shown_count"`
	FailedCount int              `json:"failed_count"`
	Truncated   bool             `json:"truncated"`
	Entries     []snapshot.Entry `json:"entries"`
}

func (s *Server) handleList(_ context.Context, input ListInput) (*ListResult, error) {
	out, err := s.components.List(nil).Execute(usecases.ListSnapshotsInput{
		Root:       input.Root,
		Match:      input.Match,
		FailedOnly: input.FailedOnly,
	})
	if err != nil {
		return nil, err
	}
	return s.listResult(out.Entries), nil
}

// listResult caps the listing at mcp.max_entries.
func (s *Server) listResult(entries []snapshot.Entry) *ListResult {
	result := &ListResult{
		TotalCount:  len(entries),
		FailedCount: snapshot.CountFailed(entries),
		Entries:     entries,
	}
	if limit := s.config.MCP.MaxEntries; limit > 0 && len(entries) > limit {
		result.Entries = entries[:limit]
		result.Truncated = true
	}
	if result.Entries == nil {
		result.Entries = []snapshot.Entry{}
	}
	result.ShownCount = len(result.Entries)
	return result
}

// DeleteInput defines the input for snapshot_delete. TestFile and Name
// select one snapshot; otherwise Root selects a bulk deletion.
type DeleteInput struct {
	TestFile   string `json:"test_file,omitempty" jsonschema:"description=Source file of the test owning the snapshot"`
	Name       string `json:"name,omitempty" jsonschema:"description=Snapshot name"`
	Root       string `json:"root,omitempty" jsonschema:"description=Directory for bulk deletion"`
	Match      string `json:"match,omitempty" jsonschema:"description=Doublestar pattern relative to root"`
	FailedOnly bool   `json:"failed_only,omitempty" jsonschema:"description=Only delete failed variants"`
	DryRun     bool   `json:"dry_run,omitempty" jsonschema:"description=Report without deleting"`
}

// DeleteResult represents the result of snapshot_delete.
type DeleteResult struct {
	Removed []string `json:"removed"`
	Count   int      `json:"count"`
	DryRun  bool     `json:"dry_run"`
}

func (s *Server) handleDelete(_ context.Context, input DeleteInput) (*DeleteResult, error) {
	if input.TestFile != "" || input.Name != "" {
		return s.deleteOne(input)
	}
	if input.Root == "" {
		return nil, fmt.Errorf("either test_file and name, or root is required")
	}

	out, err := s.components.Clean(nil).Execute(usecases.CleanSnapshotsInput{
		Root:       input.Root,
		Match:      input.Match,
		FailedOnly: input.FailedOnly,
		DryRun:     input.DryRun,
	})
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{Removed: []string{}, DryRun: out.DryRun}
	for _, e := range out.Removed {
		result.Removed = append(result.Removed, e.Path)
	}
	result.Count = len(result.Removed)
	return result, nil
}

func (s *Server) deleteOne(input DeleteInput) (*DeleteResult, error) {
	id := snapshot.NewIdentity(input.TestFile, input.Name)
	if err := id.Validate(); err != nil {
		return nil, err
	}

	store := s.components.Store
	result := &DeleteResult{Removed: []string{}, DryRun: input.DryRun}
	for _, path := range []string{store.PathFor(id), store.FailedPathFor(id)} {
		if _, err := os.Stat(path); err == nil {
			result.Removed = append(result.Removed, path)
		}
	}
	result.Count = len(result.Removed)

	if !input.DryRun {
		if err := store.Delete(id); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// DiffInput defines the input for snapshot_diff.
type DiffInput struct {
	TestFile string `json:"test_file" jsonschema:"description=Source file of the test owning the snapshot"`
	Name     string `json:"name" jsonschema:"description=Snapshot name"`
	Output   string `json:"output,omitempty" jsonschema:"description=Where to write the composite PNG (default: diff artifacts dir)"`
}

// DiffResult represents the result of snapshot_diff.
type DiffResult struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleDiff(_ context.Context, input DiffInput) (*DiffResult, error) {
	id := snapshot.NewIdentity(input.TestFile, input.Name)
	if err := id.Validate(); err != nil {
		return nil, err
	}

	output := input.Output
	if output == "" {
		output = usecases.DiffPathFor(s.config.Diff.ArtifactsDir, id)
	}
	if _, err := pathutil.ValidatePath(output); err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}

	out, err := s.components.Diff.Execute(usecases.ComposeDiffInput{Identity: id, Output: output})
	if err != nil {
		return nil, err
	}

	bounds := out.Composite.Bounds()
	return &DiffResult{Path: out.Path, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

func (s *Server) handleConfigResource(_ context.Context, uri string, _ map[string]string) (*mcp.ResourceContent, error) {
	jsonBytes, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(jsonBytes),
	}, nil
}

func (s *Server) handleSnapshotsResource(ctx context.Context, uri string, _ map[string]string) (*mcp.ResourceContent, error) {
	result, err := s.handleList(ctx, ListInput{Root: "."})
	if err != nil {
		result = s.listResult(nil)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshots: %w", err)
	}

	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(jsonBytes),
	}, nil
}
