// Package driver orchestrates whole-file checking: it loads sources, runs
// the front end and the body lowering per file, and merges diagnostics
// deterministically. Files are processed in parallel; one lowering never is.
package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"candy/internal/ast"
	"candy/internal/diag"
	"candy/internal/parser"
	"candy/internal/queries"
	"candy/internal/source"
)

// Options configures a check run.
type Options struct {
	// Jobs caps the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds each file's bag.
	MaxDiagnostics int
	// Cache, when set, lets unchanged files skip re-checking.
	Cache *DiskCache
	// Events receives progress notifications; may be nil.
	Events chan<- Event
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	AstFile ast.FileID
	Bag     *diag.Bag
	Engine  *queries.Engine
	// FromCache is set when the result was replayed from the disk cache.
	FromCache bool
}

// ListFiles returns the sorted *.candy files under each path (files are
// taken as-is, directories are walked).
func ListFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := filepath.Glob(p)
		if err != nil {
			return nil, err
		}
		for _, match := range info {
			err := filepath.WalkDir(match, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.HasSuffix(path, ".candy") {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// CheckPaths checks every *.candy file reachable from paths. Results come
// back in path order regardless of scheduling.
func CheckPaths(ctx context.Context, paths []string, opts Options) (*source.FileSet, []FileResult, error) {
	files, err := ListFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Load sequentially: the FileSet is not safe for concurrent writes.
	ids := make([]source.FileID, len(files))
	loadErr := make([]error, len(files))
	for i, path := range files {
		ids[i], loadErr[i] = fileSet.Load(path)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = 100
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = checkOne(path, ids[i], loadErr[i], fileSet, maxDiags, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, nil, err
	}
	return fileSet, results, nil
}

func checkOne(path string, id source.FileID, loadErr error, fileSet *source.FileSet, maxDiags int, opts Options) FileResult {
	emit(opts.Events, Event{Path: path, Stage: StageLoad})
	bag := diag.NewBag(maxDiags)
	res := FileResult{Path: path, FileID: id, Bag: bag}
	if loadErr != nil {
		bag.Add(diag.NewError(diag.UnknownCode, source.Span{File: id}, loadErr.Error()))
		emit(opts.Events, Event{Path: path, Stage: StageDone, Failed: true})
		return res
	}
	file := fileSet.Get(id)

	// Cache hit: replay the recorded diagnostics without re-checking.
	if opts.Cache != nil {
		if payload, ok := opts.Cache.Get(file.Hash); ok {
			replayDiagnostics(bag, payload, id)
			res.FromCache = true
			emit(opts.Events, Event{Path: path, Stage: StageDone, Failed: bag.HasErrors()})
			return res
		}
	}

	emit(opts.Events, Event{Path: path, Stage: StageParse})
	builder := ast.NewBuilder(256)
	astFile := parser.ParseFile(file, builder, bag)
	res.AstFile = astFile

	emit(opts.Events, Event{Path: path, Stage: StageLower})
	engine := queries.NewEngine(fileSet, builder)
	engine.BindFile(astFile)
	res.Engine = engine
	for _, fn := range engine.Functions() {
		engine.LowerBody(fn)
		bag.AddAll(engine.Diagnostics(fn))
	}
	bag.Sort()

	if opts.Cache != nil {
		opts.Cache.Put(file.Hash, payloadFromBag(path, file.Hash, bag))
	}
	emit(opts.Events, Event{Path: path, Stage: StageDone, Failed: bag.HasErrors()})
	return res
}

func emit(ch chan<- Event, ev Event) {
	if ch != nil {
		ch <- ev
	}
}
