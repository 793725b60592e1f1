// Package testserver runs the full HTTP and MCP stack against scripted
// gateways for functional tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/v2c/internal/app"
	"github.com/rpggio/v2c/internal/config"
	"github.com/rpggio/v2c/internal/mcp"
	"github.com/rpggio/v2c/internal/transport"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type TestServer struct {
	Server     *httptest.Server
	App        *app.App
	AI         *FakeAI
	Speech     *FakeSpeech
	Translator *FakeTranslator
}

type options struct {
	sqlite   bool
	maxBytes int64
}

// Option customises New.
type Option func(*options)

// WithSQLite backs the server with a shared-cache in-memory SQLite database
// instead of the memory store.
func WithSQLite() Option {
	return func(o *options) { o.sqlite = true }
}

// WithMaxUploadBytes sets the request body limit.
func WithMaxUploadBytes(n int64) Option {
	return func(o *options) { o.maxBytes = n }
}

func New(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	dbPath := app.MemoryDB
	if o.sqlite {
		dbPath = fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	}

	ai := &FakeAI{}
	sp := &FakeSpeech{}
	tr := &FakeTranslator{}

	a, err := app.New(dbPath, app.Gateways{AI: ai, Translator: tr, Speech: sp}, nil)
	require.NoError(t, err)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.Projects,
			History:  a.History,
			Code:     a.Code,
		},
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	defaults := config.Default()
	router := transport.NewServer(transport.Services{
		Projects: a.Projects,
		History:  a.History,
		Code:     a.Code,
	}, transport.Options{
		MaxUploadBytes:       o.maxBytes,
		VoiceLanguages:       defaults.Languages.Voice,
		ProgrammingLanguages: defaults.Languages.Programming,
		MCPHandler:           mcpHandler,
	})

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:     server,
		App:        a,
		AI:         ai,
		Speech:     sp,
		Translator: tr,
	}

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return ts
}

// FakeAI answers every prompt with the configured reply or error. Prompts are
// recorded in order.
type FakeAI struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *FakeAI) SetReply(reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply, f.err = reply, nil
}

func (f *FakeAI) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *FakeAI) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func (f *FakeAI) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// FakeSpeech returns a fixed transcript.
type FakeSpeech struct {
	mu           sync.Mutex
	transcript   string
	err          error
	lastLanguage string
}

func (f *FakeSpeech) SetTranscript(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transcript, f.err = text, nil
}

func (f *FakeSpeech) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *FakeSpeech) LastLanguage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLanguage
}

func (f *FakeSpeech) Transcribe(_ context.Context, _ []byte, languageCode string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLanguage = languageCode
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

// FakeTranslator treats all text as English until SetSource is called. After
// that every text is detected as the given tag and translates to one string.
type FakeTranslator struct {
	mu          sync.Mutex
	source      language.Tag
	translation string
}

func (f *FakeTranslator) SetSource(tag language.Tag, translation string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.source, f.translation = tag, translation
}

func (f *FakeTranslator) Detect(context.Context, string) (language.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.source == language.Und {
		return language.English, nil
	}
	return f.source, nil
}

func (f *FakeTranslator) Translate(context.Context, string, language.Tag) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.translation, nil
}
