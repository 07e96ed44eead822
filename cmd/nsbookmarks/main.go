package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/progeja/nsbookmarks/internal/bookmarks"
	"github.com/progeja/nsbookmarks/internal/config"
	"github.com/progeja/nsbookmarks/internal/encode"
	"github.com/progeja/nsbookmarks/internal/output"
	"github.com/progeja/nsbookmarks/internal/parser"
	"github.com/progeja/nsbookmarks/internal/store"
	"github.com/progeja/nsbookmarks/internal/ui"
)

var version = "0.1.0"

var (
	cfgFile  string
	logger   = slog.New(slog.NewTextHandler(os.Stderr, nil))
	outputFs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "nsbookmarks [file]",
	Short: "Browse and convert Netscape bookmark exports",
	Long: `Reads the bookmarks.html files written by browsers and bookmark managers.

Without a subcommand the links are shown in an interactive browser;
the selected URL is printed, copied or opened.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runBrowse,
	SilenceUsage: true,
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a bookmarks file and write it as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Draw the folder tree of a bookmarks file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Parse a bookmarks file and store it in the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the documents stored in the database",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Write a stored document as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(parseCmd, treeCmd, importCmd, listCmd, showCmd, deleteCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.config/nsbookmarks/nsbookmarks.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail on unbalanced folders and dangling parents")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path")

	rootCmd.Flags().StringP("output", "o", "", "Output mode: print, copy, open")
	rootCmd.Flags().StringP("query", "q", "", "Initial search query")
	rootCmd.Flags().Bool("print", false, "Print URL (shorthand for -o print)")
	rootCmd.Flags().Bool("copy", false, "Copy URL (shorthand for -o copy)")
	rootCmd.Flags().Bool("open", false, "Open URL (shorthand for -o open)")

	for _, c := range []*cobra.Command{parseCmd, showCmd} {
		c.Flags().Bool("tree", false, "Group nodes into folders")
		c.Flags().StringP("format", "f", "", "Output format: json, yaml")
		c.Flags().Bool("indent", false, "Indent JSON output")
		c.Flags().String("out", "", "Write to a file instead of stdout")
	}

	treeCmd.Flags().Bool("links", true, "Include links")
	treeCmd.Flags().Int("depth", 0, "Folder levels to expand (0 = all)")

	bindFlags()
}

func bindFlags() {
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
}

func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}

	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newLoader() *bookmarks.Loader {
	return bookmarks.NewLoader(
		parser.WithStrict(config.GetStrict()),
		parser.WithLogger(logger),
	)
}

// ============================================================================
// Browse
// ============================================================================

func runBrowse(cmd *cobra.Command, args []string) error {
	path := config.GetPath()
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no bookmarks file given (pass a file or set 'path' in the config)")
	}

	// Handle output mode flags
	if p, _ := cmd.Flags().GetBool("print"); p {
		config.SetOutput("print")
	} else if c, _ := cmd.Flags().GetBool("copy"); c {
		config.SetOutput("copy")
	} else if o, _ := cmd.Flags().GetBool("open"); o {
		config.SetOutput("open")
	}

	mode, err := output.ParseMode(config.GetOutput())
	if err != nil {
		return err
	}

	doc, err := newLoader().FileToDocument(path, true)
	if err != nil {
		return err
	}
	logger.Debug("loaded bookmarks", "path", path, "nodes", parser.Count(doc.List))

	query, _ := cmd.Flags().GetString("query")
	return ui.Browse(doc, output.NewEmitter(config.GetBrowser()), mode, query)
}

// ============================================================================
// Parse / Show
// ============================================================================

// encodeFlags reads the encoding flags, falling back to the config
func encodeFlags(cmd *cobra.Command) (format encode.Format, asTree, indent bool, err error) {
	name := config.GetFormat()
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		name = f
	}
	if format, err = encode.ParseFormat(name); err != nil {
		return "", false, false, err
	}

	asTree = config.GetTree()
	if cmd.Flags().Changed("tree") {
		asTree, _ = cmd.Flags().GetBool("tree")
	}
	indent = config.GetIndent()
	if cmd.Flags().Changed("indent") {
		indent, _ = cmd.Flags().GetBool("indent")
	}
	return format, asTree, indent, nil
}

// writeDocument encodes doc to --out or stdout
func writeDocument(cmd *cobra.Command, doc *parser.Document, format encode.Format, indent bool) error {
	// Encode first so a failed document never truncates an existing file
	data, err := encode.Marshal(doc, format, indent)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		logger.Debug("writing document", "path", out, "format", format)
		if err := afero.WriteFile(outputFs, out, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	format, asTree, indent, err := encodeFlags(cmd)
	if err != nil {
		return err
	}

	doc, err := newLoader().FileToDocument(args[0], asTree)
	if err != nil {
		return err
	}
	return writeDocument(cmd, doc, format, indent)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	format, asTree, indent, err := encodeFlags(cmd)
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.LoadDocument(cmd.Context(), id, asTree)
	if err != nil {
		return err
	}
	return writeDocument(cmd, doc, format, indent)
}

// ============================================================================
// Tree
// ============================================================================

func runTree(cmd *cobra.Command, args []string) error {
	links, _ := cmd.Flags().GetBool("links")
	depth, _ := cmd.Flags().GetInt("depth")
	if depth < 0 {
		return fmt.Errorf("invalid depth: %d", depth)
	}

	doc, err := newLoader().FileToDocument(args[0], true)
	if err != nil {
		return err
	}

	ui.RefreshStyles()
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderTree(doc, ui.TreeOptions{Links: links, Depth: depth}))
	return nil
}

// ============================================================================
// Database
// ============================================================================

func openStore(ctx context.Context) (*store.Store, error) {
	path := config.GetDB()
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	logger.Debug("opening database", "path", path)
	return store.Open(ctx, path)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid document id: %s", arg)
	}
	return id, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	doc, err := newLoader().FileToDocument(args[0], false)
	if err != nil {
		return err
	}

	source := args[0]
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.SaveDocument(cmd.Context(), source, doc)
	if err != nil {
		return err
	}

	folders, links := 0, 0
	for _, n := range doc.List {
		if n.IsHead() {
			folders++
		} else {
			links++
		}
	}
	logger.Info("imported bookmarks", "id", id, "source", source, "folders", folders, "links", links)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := s.Documents(cmd.Context())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents stored")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "FOLDERS", "LINKS", "IMPORTED", "SOURCE")
	for _, d := range docs {
		t.Row(
			strconv.FormatInt(d.ID, 10),
			d.Title,
			strconv.Itoa(d.Folders),
			strconv.Itoa(d.Links),
			d.ImportedAt.Local().Format("2006-01-02 15:04"),
			d.Source,
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteDocument(cmd.Context(), id); err != nil {
		return err
	}
	logger.Info("deleted document", "id", id)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
