// Command pagerank ranks the vertices of an adjacency-list graph file.
//
// Each input line holds a source docid followed by the docids it links to;
// lines starting with # are ignored. Results are printed as
// "rank<TAB>docid<TAB>score", best first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/cluso-pagerank/pkg/config"
	"github.com/dd0wney/cluso-pagerank/pkg/docno"
	"github.com/dd0wney/cluso-pagerank/pkg/loader"
	"github.com/dd0wney/cluso-pagerank/pkg/logging"
	"github.com/dd0wney/cluso-pagerank/pkg/metrics"
	"github.com/dd0wney/cluso-pagerank/pkg/pagerank"
	"github.com/dd0wney/cluso-pagerank/pkg/passfile"
)

type options struct {
	configPath  string
	graphPath   string
	outPath     string
	mappingPath string
	top         int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML run configuration (defaults apply when empty)")
	flag.StringVar(&opts.graphPath, "graph", "", "Adjacency-list graph file")
	flag.StringVar(&opts.outPath, "out", "", "Write the final Complete records to this pass file")
	flag.StringVar(&opts.mappingPath, "mapping", "", "Write the docid/docno mapping to this file")
	flag.IntVar(&opts.top, "top", -1, "Number of ranked vertices to print (overrides config)")
	flag.Parse()

	logger := logging.DefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger, os.Stdout); err != nil {
		logger.Error("pagerank failed", logging.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger logging.Logger, stdout io.Writer) error {
	if opts.graphPath == "" {
		return errors.New("-graph is required")
	}

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if cfg.LogLevel != "" {
		logger.SetLevel(logging.ParseLevel(cfg.LogLevel))
	}
	if opts.top >= 0 {
		cfg.Top = opts.top
	}

	timer := logging.StartTimer(logger, "load graph", logging.Path(opts.graphPath))
	graph, err := loader.LoadFile(opts.graphPath)
	if err != nil {
		timer.EndError(err)
		return err
	}
	timer.End(logging.Count(len(graph.Nodes)), logging.Int("edges", graph.Edges))

	if opts.mappingPath != "" {
		if err := writeMapping(opts.mappingPath, graph.Mapping); err != nil {
			return err
		}
	}

	runner, err := pagerank.NewRunner(cfg, logger, metrics.DefaultRegistry())
	if err != nil {
		return err
	}
	result, err := runner.Run(ctx, graph.Nodes)
	if err != nil {
		return err
	}

	if opts.outPath != "" {
		if err := writeNodes(opts.outPath, cfg.Compression, result); err != nil {
			return err
		}
		logger.Info("wrote final pass", logging.Path(opts.outPath), logging.Count(len(result.Nodes)))
	}

	for i, rn := range result.Top(cfg.Top) {
		docid, ok := graph.Mapping.Docid(int32(rn.ID))
		if !ok {
			return fmt.Errorf("vertex %d has no docid", rn.ID)
		}
		if _, err := fmt.Fprintf(stdout, "%d\t%d\t%.6g\n", i+1, docid, rn.Score); err != nil {
			return err
		}
	}
	return nil
}

func writeMapping(path string, m *docno.Mapping) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mapping file: %w", err)
	}
	if _, err := m.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write mapping: %w", err)
	}
	return f.Close()
}

func writeNodes(path, compression string, result *pagerank.Result) error {
	c, err := passfile.ParseCompression(compression)
	if err != nil {
		return err
	}
	w, err := passfile.CreateFile(path, c)
	if err != nil {
		return err
	}
	for _, n := range result.Nodes {
		if err := w.Write(n); err != nil {
			_ = w.Close()
			return err
		}
	}
	return w.Close()
}
