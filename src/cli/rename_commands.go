package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"rename-gateway/src/config"
	"rename-gateway/src/internal/common"
	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
	"rename-gateway/src/server/index"
	"rename-gateway/src/server/rename"
	"rename-gateway/src/server/syntax"
	"rename-gateway/src/utils"
	"rename-gateway/src/utils/lspconv"
)

// engine bundles everything a command needs to run a rename.
type engine struct {
	cfg          *config.Config
	index        *index.MemoryIndex
	documents    *documents.Manager
	orchestrator *rename.Orchestrator
}

func loadCLIConfig() (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.GetDefaultConfig()
	}
	if cfg.WorkspaceRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.WorkspaceRoot = wd
		}
	}
	if indexPath != "" {
		cfg.IndexPath = indexPath
	}
	return cfg, nil
}

func buildEngine() (*engine, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, err
	}

	idx := index.NewMemoryIndex()
	if cfg.IndexPath != "" {
		if err := idx.LoadFromFile(cfg.IndexPath); err != nil {
			common.CLILogger.Warn("symbol index unavailable (%v), renames degrade to single-file", err)
		}
	}

	docs := documents.NewManager()
	anchors := syntax.NewTreeAnchorResolver(cfg)
	classifier := syntax.NewLexicalClassifier()
	native := syntax.NewSyntacticProvider(anchors, classifier)
	foreign := rename.NewIndexProvider(idx, classifier)
	resolver := rename.NewNameResolver(idx, rename.SnakeCaseTranslator{}, types.Language(cfg.NativeLanguage))

	orchestrator := rename.NewOrchestrator(cfg, idx, docs, resolver, anchors, native, foreign)
	if workers > 0 {
		orchestrator.SetWorkers(workers)
	}
	return &engine{cfg: cfg, index: idx, documents: docs, orchestrator: orchestrator}, nil
}

// parsePosition parses the 1-based "line:col" argument into an internal
// 0-based position.
func parsePosition(arg string) (types.Position, error) {
	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 {
		return types.Position{}, fmt.Errorf("position must be <line>:<col>, got %q", arg)
	}
	line, err := strconv.Atoi(parts[0])
	if err != nil || line < 1 {
		return types.Position{}, fmt.Errorf("invalid line in %q", arg)
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil || col < 1 {
		return types.Position{}, fmt.Errorf("invalid column in %q", arg)
	}
	return types.Position{Line: int32(line - 1), Column: int32(col - 1)}, nil
}

func fileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return utils.FilePathToURI(abs), nil
}

func runRenameCmd(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}
	pos, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	uri, err := fileURI(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	result, err := eng.orchestrator.Rename(ctx, rename.Request{URI: uri, Position: pos, NewName: args[2]})
	if err != nil {
		return err
	}
	if result.LocalOnly {
		common.CLILogger.Info("workspace information unavailable, renamed within %s only", args[0])
	}

	switch {
	case formatJSON:
		return printWorkspaceEditJSON(ctx, eng, result.Edits)
	case writeFiles:
		return applyWorkspaceEdits(ctx, eng, result.Edits)
	default:
		return printWorkspaceDiff(ctx, eng, result.Edits)
	}
}

func runPreviewCmd(cmd *cobra.Command, args []string) error {
	writeFiles = false
	formatJSON = false
	return runRenameCmd(cmd, args)
}

func runPrepareCmd(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}
	pos, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	uri, err := fileURI(args[0])
	if err != nil {
		return err
	}

	result, err := eng.orchestrator.PrepareRename(context.Background(), uri, pos)
	if err != nil {
		return err
	}
	fmt.Printf("%s %d:%d-%d:%d  %s\n", args[0],
		result.Range.Start.Line+1, result.Range.Start.Column+1,
		result.Range.End.Line+1, result.Range.End.Column+1,
		result.Placeholder)
	return nil
}

func runIndexStatsCmd(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}
	if eng.cfg.IndexPath == "" {
		return fmt.Errorf("no symbol index configured (set index_path or pass --index)")
	}
	docs, occurrences, symbols := eng.index.Stats()
	fmt.Printf("Index: %s\n", eng.cfg.IndexPath)
	fmt.Printf("  Documents:   %d\n", docs)
	fmt.Printf("  Occurrences: %d\n", occurrences)
	fmt.Printf("  Symbols:     %d\n", symbols)
	return nil
}

// printWorkspaceEditJSON emits the LSP WorkspaceEdit, converting internal
// byte columns to UTF-16 at the protocol boundary.
func printWorkspaceEditJSON(ctx context.Context, eng *engine, edits types.WorkspaceEdits) error {
	lineText := func(uriStr string, line int32) string {
		snap, err := eng.documents.Snapshot(ctx, uriStr)
		if err != nil {
			return ""
		}
		return snap.LineText(line)
	}
	payload, err := json.MarshalIndent(lspconv.ToWorkspaceEdit(edits, lineText), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}

func applyWorkspaceEdits(ctx context.Context, eng *engine, edits types.WorkspaceEdits) error {
	for uriStr, fileEdits := range edits {
		snap, err := eng.documents.Snapshot(ctx, uriStr)
		if err != nil {
			return fmt.Errorf("loading %s: %w", uriStr, err)
		}
		updated := rename.ApplyEdits(snap, fileEdits)
		path := utils.URIToFilePath(uriStr)
		if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("%s: %d edits applied\n", path, len(fileEdits))
	}
	return nil
}

// printWorkspaceDiff shows each file's edits as a colorized diff.
func printWorkspaceDiff(ctx context.Context, eng *engine, edits types.WorkspaceEdits) error {
	uris := make([]string, 0, len(edits))
	for uriStr := range edits {
		uris = append(uris, uriStr)
	}
	sort.Strings(uris)

	dmp := diffmatchpatch.New()
	for _, uriStr := range uris {
		snap, err := eng.documents.Snapshot(ctx, uriStr)
		if err != nil {
			common.CLILogger.Warn("cannot preview %s: %v", uriStr, err)
			continue
		}
		updated := rename.ApplyEdits(snap, edits[uriStr])
		diffs := dmp.DiffMain(snap.Text, updated, false)
		diffs = dmp.DiffCleanupSemantic(diffs)
		fmt.Printf("--- %s\n", utils.URIToFilePath(uriStr))
		fmt.Print(dmp.DiffPrettyText(diffs))
		fmt.Println()
	}
	return nil
}
