package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"gopkg.in/yaml.v3"

	"github.com/tabnorm/tabnorm/pkg/config"
	"github.com/tabnorm/tabnorm/pkg/ingest"
	"github.com/tabnorm/tabnorm/pkg/models"
	"github.com/tabnorm/tabnorm/pkg/render"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
)

type fileProcessor struct {
	logger   *log.Logger
	cfg      *config.Config
	ingestor *ingest.Ingestor
	filters  *filters
	dump     bool
}

func newFileProcessor(logger *log.Logger, cfg *config.Config, filters *filters, dump bool) *fileProcessor {
	return &fileProcessor{
		logger:   logger,
		cfg:      cfg,
		ingestor: ingest.New(logger),
		filters:  filters,
		dump:     dump,
	}
}

func (p *fileProcessor) processDirectory(dir string, opts ingest.Options) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := p.processFile(path, opts); err != nil {
			p.reportFailure(path, err)
		}
	}
	return nil
}

func (p *fileProcessor) processFile(path string, opts ingest.Options) error {
	result, err := p.ingestor.ProcessFile(path, opts)
	if err != nil {
		return err
	}

	if p.dump {
		pp.Println(result)
	}

	for _, sk := range result.Skipped {
		fmt.Println(skipStyle.Render(fmt.Sprintf("- %s record %d: expected %d columns, got %d",
			path, sk.Line, sk.Want, sk.Got)))
	}

	output := render.CSV(result.Fields, result.Rows, p.filters.toFilterFunc())
	if p.cfg.Output != "" {
		outPath := p.outputPath(path)
		if err := os.WriteFile(outPath, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Println(okStyle.Render(fmt.Sprintf("+ %s: %d rows -> %s", path, len(result.Rows), outPath)))
		return nil
	}

	fmt.Print(string(output))
	fmt.Println(okStyle.Render(fmt.Sprintf("+ %s: %d rows, %d skipped", path, len(result.Rows), len(result.Skipped))))
	return nil
}

func (p *fileProcessor) reportFailure(path string, err error) {
	p.logger.Error("failed to process file", "file", path, "error", err)
	fmt.Println(failStyle.Render(fmt.Sprintf("! %s: %v", path, err)))
}

func (p *fileProcessor) outputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	return filepath.Join(p.cfg.Output, strings.TrimSuffix(base, ext)+"-normalized.csv")
}

// loadMapping reads an explicit column mapping from a YAML file of the form
// {0: transaction_date, 1: amount, ...}.
func loadMapping(path string) (models.ColumnMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var raw map[int]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse mapping yaml: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("mapping file %s is empty", path)
	}

	mapping := make(models.ColumnMapping, len(raw))
	for i, name := range raw {
		mapping[i] = models.Field(name)
	}
	return mapping, nil
}
