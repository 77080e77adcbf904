package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/kwmap/pkg/kwmap/internalerr"
	"github.com/cognicore/kwmap/pkg/kwmap/metrics"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Column names expected in cluster CSV files.
const (
	ColumnKeyword    = "keyword"
	ColumnVolume     = "Semrush_Search Volume"
	ColumnDifficulty = "Semrush_Keyword Difficulty"
	ColumnCPC        = "Semrush_CPC (USD)"
)

var requiredColumns = []string{ColumnKeyword, ColumnVolume, ColumnDifficulty, ColumnCPC}

// metadataKeys are the "# key: value" lines heading every cluster file, in
// file order.
var metadataKeys = []string{
	"centroid_keywords",
	"tfidf_keywords",
	"cluster_size",
	"keyword_diversity_samples_in_cluster",
}

// BuildOptions configures BuildFromDirectory.
type BuildOptions struct {
	// Workers bounds concurrent file parsing. Zero means GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

// BuildFromDirectory assembles a document from a directory laid out as
// root/<pillar>/<parent>[/<subtopic>]/<cluster>.csv. Unreadable cluster files
// are logged and skipped; structural metrics are aggregated from keywords.
func BuildFromDirectory(ctx context.Context, root string, opts BuildOptions) (Document, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	files, err := collectCSVFiles(root)
	if err != nil {
		return Document{}, err
	}
	if len(files) == 0 {
		return Document{}, fmt.Errorf("no CSV files found in %s: %w", root, internalerr.ErrInvalidInput)
	}

	clusters, err := parseClusterFiles(ctx, files, opts.Workers, log)
	if err != nil {
		return Document{}, err
	}

	stats := &Statistics{TotalFiles: len(files)}
	for _, c := range clusters {
		if len(c.Keywords) > 0 {
			stats.ProcessedFiles++
		} else {
			stats.ErrorFiles++
		}
	}
	stats.SuccessRate = fmt.Sprintf("%.2f%%", float64(stats.ProcessedFiles)/float64(len(files))*100)

	tree, variations, err := assemble(root, clusters)
	if err != nil {
		return Document{}, err
	}
	stats.StructureVariations = variations

	log.Info("built taxonomy from cluster directory",
		zap.String("root", root),
		zap.Int("files", stats.TotalFiles),
		zap.Int("processed", stats.ProcessedFiles),
		zap.Int("errors", stats.ErrorFiles),
		zap.Int("pillars", len(tree)),
	)

	return Document{
		Data:       RawFromTree(metrics.Refresh(tree)),
		Statistics: stats,
	}, nil
}

func collectCSVFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func parseClusterFiles(ctx context.Context, files []string, workers int, log *zap.Logger) (map[string]*taxonomy.Node, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex
	clusters := make(map[string]*taxonomy.Node, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			node, err := ReadClusterFile(path)
			if err != nil {
				log.Warn("skipping cluster file", zap.String("path", path), zap.Error(err))
				node = &taxonomy.Node{
					Name:     clusterName(path),
					Type:     taxonomy.Cluster,
					Metadata: &taxonomy.Metadata{},
				}
			}
			mu.Lock()
			clusters[path] = node
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clusters, nil
}

// ReadClusterFile parses one cluster CSV file into a cluster node with its
// keywords sorted case-insensitively.
func ReadClusterFile(path string) (*taxonomy.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	node, err := ReadCluster(f, clusterName(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}

// ReadCluster parses cluster CSV content.
func ReadCluster(r io.Reader, name string) (*taxonomy.Node, error) {
	br := bufio.NewReader(r)

	meta := make(map[string]string, len(metadataKeys))
	for _, key := range metadataKeys {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, fmt.Errorf("read metadata %s: %w", key, internalerr.ErrInvalidInput)
		}
		value, ok := metadataValue(line, key)
		if !ok {
			return nil, fmt.Errorf("metadata line for %s missing: %w", key, internalerr.ErrInvalidInput)
		}
		meta[key] = value
	}
	size, err := strconv.Atoi(meta["cluster_size"])
	if err != nil {
		return nil, fmt.Errorf("cluster_size %q: %w", meta["cluster_size"], internalerr.ErrInvalidInput)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns %v: %w", missing, internalerr.ErrInvalidInput)
	}

	var keywords []taxonomy.Keyword
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		word := strings.TrimSpace(field(row, cols[ColumnKeyword]))
		if word == "" {
			continue
		}
		kd, hasKD := parseCell(field(row, cols[ColumnDifficulty]))
		cpc, hasCPC := parseCell(field(row, cols[ColumnCPC]))
		keywords = append(keywords, taxonomy.Keyword{
			Keyword:           word,
			SearchVolume:      int(parseLenient(field(row, cols[ColumnVolume]))),
			KeywordDifficulty: kd,
			CPC:               cpc,
			NoKD:              !hasKD,
			NoCPC:             !hasCPC,
		})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return strings.ToLower(keywords[i].Keyword) < strings.ToLower(keywords[j].Keyword)
	})

	return &taxonomy.Node{
		Name: name,
		Type: taxonomy.Cluster,
		Metadata: &taxonomy.Metadata{
			CentroidKeywords: meta["centroid_keywords"],
			TfidfKeywords:    meta["tfidf_keywords"],
			ClusterSize:      size,
			DiversitySamples: meta["keyword_diversity_samples_in_cluster"],
		},
		Keywords: keywords,
	}, nil
}

func metadataValue(line, key string) (string, bool) {
	line = strings.TrimSpace(line)
	prefix := "# " + key + ":"
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseCell reads an optional numeric cell. Blank or unparsable cells are
// absent.
func parseCell(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return nonNegative(v), true
}

func clusterName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".csv")
}

// assemble walks the directory levels and attaches parsed clusters. Parents
// containing directories gain a subtopic level; CSV files directly under such
// a parent are ignored.
func assemble(root string, clusters map[string]*taxonomy.Node) ([]*taxonomy.Node, []string, error) {
	pillarDirs, err := subdirs(root)
	if err != nil {
		return nil, nil, err
	}

	variations := make(map[string]struct{})
	var tree []*taxonomy.Node
	for _, pillarName := range pillarDirs {
		pillarPath := filepath.Join(root, pillarName)
		pillar := &taxonomy.Node{Name: pillarName, Type: taxonomy.Pillar}

		parentDirs, err := subdirs(pillarPath)
		if err != nil {
			return nil, nil, err
		}
		for _, parentName := range parentDirs {
			parentPath := filepath.Join(pillarPath, parentName)
			parent := &taxonomy.Node{Name: parentName, Type: taxonomy.Parent}

			subtopicDirs, err := subdirs(parentPath)
			if err != nil {
				return nil, nil, err
			}
			variation := pillarName + " -> " + parentName
			if len(subtopicDirs) > 0 {
				variation += " -> [Subtopics]"
				for _, subName := range subtopicDirs {
					subPath := filepath.Join(parentPath, subName)
					sub := &taxonomy.Node{Name: subName, Type: taxonomy.Subtopic}
					sub.Children, err = clustersIn(subPath, clusters)
					if err != nil {
						return nil, nil, err
					}
					if len(sub.Children) > 0 {
						parent.Children = append(parent.Children, sub)
					}
				}
			} else {
				parent.Children, err = clustersIn(parentPath, clusters)
				if err != nil {
					return nil, nil, err
				}
			}
			variations[variation] = struct{}{}

			if len(parent.Children) > 0 {
				pillar.Children = append(pillar.Children, parent)
			}
		}
		if len(pillar.Children) > 0 {
			tree = append(tree, pillar)
		}
	}

	sorted := make([]string, 0, len(variations))
	for v := range variations {
		sorted = append(sorted, v)
	}
	sort.Strings(sorted)
	return tree, sorted, nil
}

// subdirs lists non-hidden subdirectories sorted by name.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func clustersIn(dir string, clusters map[string]*taxonomy.Node) ([]*taxonomy.Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []*taxonomy.Node
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		c, ok := clusters[filepath.Join(dir, e.Name())]
		if !ok || len(c.Keywords) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
