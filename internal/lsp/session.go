package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/bep/debounce"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sparvlang/sparv/internal/core"
	"github.com/sparvlang/sparv/internal/lsp/defines"
	"github.com/sparvlang/sparv/internal/lsp/jsonrpc"
	"github.com/tidwall/tinylru"
)

const PARSE_CACHE_SIZE = 64

var (
	ErrDocumentNotOpen = errors.New("document is not open")
)

// sessionState holds the documents opened by a client, the content of documents lives in an in-memory filesystem.
type sessionState struct {
	rpcSession *jsonrpc.Session
	documents  billy.Filesystem

	lock        sync.Mutex
	versions    map[defines.DocumentUri]int
	debouncers  map[defines.DocumentUri]func(func())
	analyses    map[defines.DocumentUri]*core.AnalysisData
	initialized bool
	shutdown    bool

	//parse results keyed by URI and version
	parseCache tinylru.LRU
}

func newSessionState(rpcSession *jsonrpc.Session) *sessionState {
	state := &sessionState{
		rpcSession: rpcSession,
		documents:  memfs.New(),
		versions:   map[defines.DocumentUri]int{},
		debouncers: map[defines.DocumentUri]func(func()){},
		analyses:   map[defines.DocumentUri]*core.AnalysisData{},
	}
	state.parseCache.Resize(PARSE_CACHE_SIZE)
	return state
}

func (s *sessionState) setDocument(uri defines.DocumentUri, version int, text string) error {
	path, err := getFilePath(uri)
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := util.WriteFile(s.documents, path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("failed to update the state of document %s: %w", uri, err)
	}
	s.versions[uri] = version
	s.parseCache.Delete(parseCacheKey(uri, version))
	return nil
}

func (s *sessionState) getDocument(uri defines.DocumentUri) (text string, version int, err error) {
	path, err := getFilePath(uri)
	if err != nil {
		return "", 0, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	content, err := util.ReadFile(s.documents, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", 0, fmt.Errorf("%w: %s", ErrDocumentNotOpen, uri)
		}
		return "", 0, err
	}
	return string(content), s.versions[uri], nil
}

func (s *sessionState) removeDocument(uri defines.DocumentUri) error {
	path, err := getFilePath(uri)
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.versions, uri)
	delete(s.debouncers, uri)
	delete(s.analyses, uri)
	return s.documents.Remove(path)
}

// parse returns the parse result of the current version of a document, results are cached.
func (s *sessionState) parse(uri defines.DocumentUri) (*core.ParseResult, string, int, error) {
	text, version, err := s.getDocument(uri)
	if err != nil {
		return nil, "", 0, err
	}

	key := parseCacheKey(uri, version)
	if cached, ok := s.parseCache.Get(key); ok {
		return cached.(*core.ParseResult), text, version, nil
	}

	result := core.Parse(text)
	s.parseCache.Set(key, result)

	if result.Analysis != nil {
		s.lock.Lock()
		s.analyses[uri] = result.Analysis
		s.lock.Unlock()
	}

	return result, text, version, nil
}

// lastAnalysis returns the analysis data of the last version of the document that could be parsed.
func (s *sessionState) lastAnalysis(uri defines.DocumentUri) *core.AnalysisData {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.analyses[uri]
}

func parseCacheKey(uri defines.DocumentUri, version int) string {
	return fmt.Sprintf("%s#%d", uri, version)
}

func (s *sessionState) debouncer(uri defines.DocumentUri, create func() func(func())) func(func()) {
	s.lock.Lock()
	defer s.lock.Unlock()

	debounced, ok := s.debouncers[uri]
	if !ok {
		debounced = create()
		s.debouncers[uri] = debounced
	}
	return debounced
}

func newDebouncer(opts Options) func() func(func()) {
	return func() func(func()) {
		return debounce.New(opts.Debounce)
	}
}

func getFilePath(uri defines.DocumentUri) (string, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return "", fmt.Errorf("invalid document URI %q: %w", uri, err)
	}

	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return "", fmt.Errorf("invalid document URI %q: empty path", uri)
	}
	return filepath.Join("/", path), nil
}
