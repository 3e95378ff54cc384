package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/RushuiGuan/reflection"
)

// Context represents the global context for commands
type Context struct {
	Verbose bool
}

// GetCmd resolves property paths against a JSON or YAML document
type GetCmd struct {
	File       string   `help:"Document to resolve paths against" short:"f" required:""`
	YAML       bool     `help:"Parse the document as YAML regardless of extension"`
	IgnoreCase bool     `help:"Match member names case-insensitively"`
	Type       bool     `help:"Show the resolved type alongside the value" short:"t"`
	Paths      []string `arg:"" help:"Property paths to resolve"`
}

// Run executes the get command
func (cmd *GetCmd) Run(ctx *Context) error {
	doc, err := loadDocument(cmd.File, cmd.YAML)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Loaded document from %s", cmd.File)
	}

	var opts []*reflection.Options
	if cmd.IgnoreCase {
		opts = append(opts, reflection.IgnoreCase())
	}

	failed := 0
	for _, path := range cmd.Paths {
		result, err := reflection.Resolve(doc, path, opts...)
		if err != nil {
			color.Red("%s: %v", path, err)
			failed++
			continue
		}
		if cmd.Type {
			color.Green("%s = %v (%s)", path, result.Value, result.Type)
		} else {
			color.Green("%s = %v", path, result.Value)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d paths failed to resolve", failed, len(cmd.Paths))
	}

	return nil
}

// KeysCmd lists every resolvable leaf path in a document
type KeysCmd struct {
	File     string `help:"Document to flatten" short:"f" required:""`
	YAML     bool   `help:"Parse the document as YAML regardless of extension"`
	MaxDepth int    `help:"Maximum traversal depth" default:"0"`
	Values   bool   `help:"Show leaf values alongside the paths"`
}

// Run executes the keys command
func (cmd *KeysCmd) Run(ctx *Context) error {
	doc, err := loadDocument(cmd.File, cmd.YAML)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Loaded document from %s", cmd.File)
	}

	leaves, err := reflection.FlattenWithOptions(doc, &reflection.FlattenOptions{
		MaxDepth: cmd.MaxDepth,
	})
	if err != nil {
		return fmt.Errorf("failed to flatten document: %w", err)
	}

	paths := make([]string, 0, len(leaves))
	for path := range leaves {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if cmd.Values {
			fmt.Printf("%s = %v\n", path, leaves[path])
		} else {
			fmt.Println(path)
		}
	}

	if ctx.Verbose {
		color.Blue("%d leaf paths", len(paths))
	}

	return nil
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("pathq v0.1.0")
	return nil
}

// loadDocument reads and decodes a JSON or YAML document into a generic
// object graph that the resolver can walk.
func loadDocument(file string, forceYAML bool) (any, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	var doc any
	ext := filepath.Ext(file)
	if forceYAML || ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s as YAML: %w", file, err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s as JSON: %w", file, err)
		}
	}

	return doc, nil
}

// CLI represents the command-line interface
var CLI struct {
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Get     GetCmd     `cmd:"" help:"Resolve property paths against a document"`
	Keys    KeysCmd    `cmd:"" help:"List every resolvable leaf path in a document"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{
		Verbose: CLI.Verbose,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
