package testutil

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	di "github.com/Stannieman/DI"
)

// Common test errors
var (
	ErrConstructor = errors.New("constructor error")
	ErrHandler     = errors.New("handler error")
)

// Logger is a test logger interface
type Logger interface {
	Log(msg string)
	Lines() []string
}

// MemoryLogger implements Logger in memory
type MemoryLogger struct {
	mu    sync.Mutex
	lines []string
}

// NewMemoryLogger creates a new MemoryLogger
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *MemoryLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// DiscardLogger is a second Logger implementation
type DiscardLogger struct{}

func (DiscardLogger) Log(string)      {}
func (DiscardLogger) Lines() []string { return nil }

// Store is a test key-value store
type Store interface {
	Get(key string) (string, bool)
}

// MemoryStore implements Store
type MemoryStore struct {
	ID     string
	Logger Logger
	data   map[string]string
}

// NewMemoryStore creates a MemoryStore depending on a Logger
func NewMemoryStore(logger Logger) *MemoryStore {
	return &MemoryStore{
		ID:     uuid.NewString(),
		Logger: logger,
		data:   map[string]string{},
	}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Sink receives reports
type Sink interface {
	Name() string
}

// FileSink is a default constructible Sink
type FileSink struct {
	Path string
}

func (s *FileSink) Name() string { return "file" }

// QueueSink is a second Sink
type QueueSink struct {
	Queue string
}

func (s *QueueSink) Name() string { return "queue" }

// NewQueueSink creates a QueueSink
func NewQueueSink() *QueueSink {
	return &QueueSink{Queue: "reports"}
}

// Reporter has constructor dependencies and an injectable Logger field
type Reporter struct {
	Store  Store
	Sinks  []Sink
	Logger Logger

	Ctor string
}

// NewReporter creates a Reporter from a Store
func NewReporter(store Store) *Reporter {
	return &Reporter{Store: store, Ctor: "store"}
}

// NewReporterWithSinks creates a Reporter from a Store and every Sink
func NewReporterWithSinks(store Store, sinks []Sink) *Reporter {
	return &Reporter{Store: store, Sinks: sinks, Ctor: "store+sinks"}
}

// ReporterParams is a parameter object for NewReporterFromParams
type ReporterParams struct {
	di.In

	Store   Store
	Primary Sink   `name:"primary"`
	Skipped Logger `inject:"-"`
}

// NewReporterFromParams creates a Reporter from a parameter object
func NewReporterFromParams(p ReporterParams) *Reporter {
	r := &Reporter{Store: p.Store, Logger: p.Skipped, Ctor: "params"}
	if p.Primary != nil {
		r.Sinks = []Sink{p.Primary}
	}
	return r
}

// Service is a dependency-free service with a unique ID
type Service struct {
	ID string
}

// NewService creates a new Service
func NewService() *Service {
	return &Service{ID: uuid.NewString()}
}

// NewFailingService always fails
func NewFailingService() (*Service, error) {
	return nil, ErrConstructor
}

// A depends on B
type A struct {
	B *B
}

// NewA creates an A from a B
func NewA(b *B) *A {
	return &A{B: b}
}

// B has no dependencies
type B struct{}

// Chicken and Egg depend on each other
type Chicken struct {
	Egg *Egg
}

// Egg depends on Chicken
type Egg struct {
	Chicken *Chicken
}

// NewChicken creates a Chicken from an Egg
func NewChicken(e *Egg) *Chicken {
	return &Chicken{Egg: e}
}

// NewEgg creates an Egg from a Chicken
func NewEgg(c *Chicken) *Egg {
	return &Egg{Chicken: c}
}

// ActivationRecorder records activated instances
type ActivationRecorder struct {
	mu        sync.Mutex
	instances []any
}

// Record is a di.ActivationObserver
func (r *ActivationRecorder) Record(_ di.Resolver, instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = append(r.instances, instance)
}

// Instances returns the recorded instances in activation order
func (r *ActivationRecorder) Instances() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.instances...)
}

// Count returns the number of recorded activations
func (r *ActivationRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}
