// Package pipeline wires the extraction stages end to end: rasterization,
// recognition, the text cache, tokenization, the classification session and
// the vocabulary store. A rerun on an unchanged document and page range hits
// the cache and the ignore lists, so the whole pipeline is idempotent and
// resumable.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/japaniel/pdf2words/pkg/config"
	"github.com/japaniel/pdf2words/pkg/document"
	"github.com/japaniel/pdf2words/pkg/raster"
	"github.com/japaniel/pdf2words/pkg/recognize"
	"github.com/japaniel/pdf2words/pkg/session"
	"github.com/japaniel/pdf2words/pkg/store"
	"github.com/japaniel/pdf2words/pkg/textcache"
	"github.com/japaniel/pdf2words/pkg/wordlist"
	"github.com/japaniel/pdf2words/pkg/words"
)

// Rasterizer is the page-rendering collaborator. raster.Rasterizer implements
// it; tests substitute their own.
type Rasterizer interface {
	PageCount(ctx context.Context) (int, error)
	RenderPage(ctx context.Context, page int) ([]byte, error)
}

// Deps carries the pipeline's collaborators. Decider is required; nil
// Rasterizer and Engine fall back to the poppler and Tesseract defaults.
type Deps struct {
	Rasterizer Rasterizer
	Engine     recognize.Engine
	Decider    session.Decider
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
}

// Summary is the end-of-run report.
type Summary struct {
	Document  string
	PageRange string

	CacheHit       bool
	PagesProcessed int
	// PagesSkipped lists requested pages beyond the document's page count.
	PagesSkipped []int
	// PagesFailed lists pages whose recognition failed; they contributed
	// empty text and the run continued.
	PagesFailed []int

	Candidates int
	NewKnown   int
	NewUnknown int
	Pending    int
	Stopped    bool

	WordListPath string
}

// Clean reports whether the run completed without skipped or failed pages.
func (s Summary) Clean() bool {
	return len(s.PagesSkipped) == 0 && len(s.PagesFailed) == 0
}

// Run executes one extraction run. Fatal errors (unreadable source, busy or
// corrupt store) are returned alongside the partial summary; page-level
// problems only mark the summary as not clean.
func Run(ctx context.Context, cfg config.Config, deps Deps) (Summary, error) {
	doc := document.New(cfg.PDF)
	summary := Summary{Document: doc.ID()}

	pageRange, err := document.ParsePageRange(cfg.Pages)
	if err != nil {
		return summary, err
	}
	summary.PageRange = pageRange.String()

	logger := deps.Logger

	st, err := store.Open(cfg.DataDir, doc.ID())
	if err != nil {
		return summary, err
	}
	defer st.Close()
	st.Logger = logger

	var reference *wordlist.List
	if cfg.WordList != "" {
		reference, err = wordlist.Load(cfg.WordList)
		if err != nil {
			return summary, fmt.Errorf("load reference word list: %w", err)
		}
		logf(logger, "reference word list loaded (%d words)", reference.Len())
	}

	cache := textcache.New(cfg.DataDir)
	cache.Logger = logger
	key := textcache.Key{DocumentID: doc.ID(), PageRange: pageRange.String()}

	blob, hit, err := cache.GetOrCompute(key, func() ([]textcache.PageText, error) {
		return recognizeDocument(ctx, cfg, deps, pageRange, &summary)
	})
	if err != nil {
		return summary, err
	}
	summary.CacheHit = hit
	if hit {
		summary.PagesProcessed = len(blob.Pages())
	}

	ignore, err := resolvedWords(st)
	if err != nil {
		return summary, err
	}

	tokenizer := &words.Tokenizer{Reference: reference}
	candidates := tokenizer.Extract(blob.Pages(), ignore)
	summary.Candidates = len(candidates)
	logf(logger, "%d new candidate words to classify", len(candidates))

	sess := session.NewSession(st, deps.Decider)
	sess.Logger = logger
	outcome, err := sess.Run(ctx, candidates)
	summary.NewKnown = outcome.Known
	summary.NewUnknown = outcome.Unknown
	summary.Pending = outcome.Pending
	summary.Stopped = outcome.Stopped
	if err != nil {
		return summary, err
	}

	path, err := st.ExportWordList()
	if err != nil {
		return summary, err
	}
	summary.WordListPath = path
	return summary, nil
}

// resolvedWords gathers every word a previous run already settled: the known
// set, this book's recorded unknowns, and other books' word lists.
func resolvedWords(st *store.Store) (map[string]struct{}, error) {
	known, err := st.KnownWords()
	if err != nil {
		return nil, err
	}
	recorded, err := st.RecordWords()
	if err != nil {
		return nil, err
	}
	other, err := st.OtherBookWords()
	if err != nil {
		return nil, err
	}

	ignore := make(map[string]struct{}, known.Len()+len(recorded)+len(other))
	for w := range known.Words() {
		ignore[w] = struct{}{}
	}
	for w := range recorded {
		ignore[w] = struct{}{}
	}
	for w := range other {
		ignore[w] = struct{}{}
	}
	return ignore, nil
}

// recognizeDocument renders and recognizes every requested page, in parallel
// when cfg.Workers allows, and returns per-page texts in ascending page
// order. Recognition failures contribute empty text and are noted in the
// summary; render failures abort (the source itself is unreadable).
func recognizeDocument(ctx context.Context, cfg config.Config, deps Deps, pageRange document.PageRange, summary *Summary) ([]textcache.PageText, error) {
	ras := deps.Rasterizer
	if ras == nil {
		r := raster.New(cfg.PDF, cfg.DPI)
		r.Logger = deps.Logger
		ras = r
	}
	engine := deps.Engine
	if engine == nil {
		engine = recognize.NewTesseract()
	}

	total, err := ras.PageCount(ctx)
	if err != nil {
		return nil, err
	}
	pages, outOfRange := pageRange.Pages(total)
	for _, page := range outOfRange {
		logf(deps.Logger, "skipping page %d: %v (document has %d pages)", page, raster.ErrPageOutOfRange, total)
	}
	summary.PagesSkipped = outOfRange

	var (
		mu       sync.Mutex
		results  = make(map[int]string, len(pages))
		failed   []int
		fatalErr error
	)

	pool := newWorkerPool(cfg.Workers)
	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool.start(poolCtx)

	for _, page := range pages {
		page := page
		err := pool.submit(poolCtx, func(jobCtx context.Context) error {
			logf(deps.Logger, "extracting text from page %d", page)
			img, err := ras.RenderPage(jobCtx, page)
			if err != nil {
				mu.Lock()
				if fatalErr == nil {
					fatalErr = err
				}
				mu.Unlock()
				cancel()
				return err
			}
			res, err := engine.Recognize(jobCtx, recognize.Input{
				Page:      page,
				Image:     img,
				Languages: cfg.Languages,
				DPI:       cfg.DPI,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logf(deps.Logger, "recognition failed on page %d: %v (page contributes no text)", page, err)
				failed = append(failed, page)
				results[page] = ""
				return err
			}
			results[page] = res.Text
			return nil
		})
		if err != nil {
			break
		}
	}
	pool.close()

	if fatalErr != nil {
		return nil, fatalErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Ints(failed)
	summary.PagesFailed = failed
	summary.PagesProcessed = len(pages)

	// Reassemble in ascending page order regardless of worker completion
	// order.
	texts := make([]textcache.PageText, 0, len(pages))
	for _, page := range pages {
		texts = append(texts, textcache.PageText{Page: page, Text: results[page]})
	}
	return texts, nil
}

func logf(l *log.Logger, format string, args ...interface{}) {
	if l != nil {
		l.Printf(format, args...)
	}
}
