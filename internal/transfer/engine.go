// Package transfer moves robot records in and out of the repository as a
// versioned JSON envelope. Imports always create new records through the
// repository and classify every input element as imported, duplicate or
// failed. Only a malformed envelope rejects a batch as a whole.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"robot-registry/internal/model"
	"robot-registry/internal/repository"
)

const missingFields = "missing required fields"

// Repository is the subset of the robot repository the engine relies on.
type Repository interface {
	Create(ctx context.Context, in model.RobotInput) (*model.Robot, error)
	GetAll(ctx context.Context, includeArchived bool) ([]model.Robot, error)
}

// InputCheck normalizes and checks a record before it is created.
type InputCheck func(model.RobotInput) (model.RobotInput, error)

// ImportError describes one input element that could not be imported.
type ImportError struct {
	Index int    `json:"index"`
	Robot any    `json:"robot"`
	Error string `json:"error"`
}

// ImportResult aggregates the outcome of an import batch. Errors is never nil.
type ImportResult struct {
	Success    int           `json:"success"`
	Errors     []ImportError `json:"errors"`
	Duplicates int           `json:"duplicates"`
}

type outcome int

const (
	imported outcome = iota
	duplicate
	failed
)

// with returns a copy of r extended by one record outcome.
func (r ImportResult) with(o outcome, ie ImportError) ImportResult {
	switch o {
	case imported:
		r.Success++
	case duplicate:
		r.Duplicates++
	default:
		r.Errors = append(slices.Clip(r.Errors), ie)
	}
	return r
}

// Engine exports and imports envelopes.
type Engine struct {
	repo  Repository
	check InputCheck
	now   func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithInputCheck runs check on every imported record before creation. A
// record failing the check is an error even when its name is taken.
func WithInputCheck(check InputCheck) Option {
	return func(e *Engine) { e.check = check }
}

// WithClock replaces the clock used for the export date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine on top of repo.
func New(repo Repository, opts ...Option) *Engine {
	e := &Engine{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export builds an envelope from every active record, plus the archived
// ones when includeArchived is set.
func (e *Engine) Export(ctx context.Context, includeArchived bool) (*Envelope, error) {
	robots, err := e.repo.GetAll(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	if robots == nil {
		robots = []model.Robot{}
	}
	return &Envelope{
		Robots:     robots,
		ExportDate: e.now().UTC().Format(ExportDateLayout),
		Version:    Version,
		Count:      len(robots),
	}, nil
}

// ExportFile writes the export envelope to path.
func (e *Engine) ExportFile(ctx context.Context, path string, includeArchived bool) (*Envelope, error) {
	env, err := e.Export(ctx, includeArchived)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := env.WriteTo(&buf); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write export file: %w", err)
	}
	logrus.WithFields(logrus.Fields{"path": path, "count": env.Count}).Info("Export written")
	return env, nil
}

// Import validates data and creates every record it holds, in order.
// A *FormatError is returned when the envelope itself is malformed.
func (e *Engine) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	records, errs := checkEnvelope(data)
	if errs != nil {
		return nil, &FormatError{Violations: messages(errs), err: errs}
	}

	result := ImportResult{Errors: []ImportError{}}
	for i, rec := range records {
		o, ie := e.importOne(ctx, i+1, rec)
		result = result.with(o, ie)
	}

	logrus.WithFields(logrus.Fields{
		"success":    result.Success,
		"duplicates": result.Duplicates,
		"errors":     len(result.Errors),
	}).Info("Import finished")
	return &result, nil
}

// ImportReader reads a whole envelope from r and imports it.
func (e *Engine) ImportReader(ctx context.Context, r io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import data: %w", err)
	}
	return e.Import(ctx, data)
}

// ImportFile imports the envelope stored at path.
func (e *Engine) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return e.Import(ctx, data)
}

func (e *Engine) importOne(ctx context.Context, pos int, rec any) (outcome, ImportError) {
	fail := func(msg string) (outcome, ImportError) {
		return failed, ImportError{Index: pos, Robot: rec, Error: msg}
	}

	in, msg := toInput(rec)
	if msg != "" {
		return fail(msg)
	}
	if e.check != nil {
		checked, err := e.check(in)
		if err != nil {
			return fail(err.Error())
		}
		in = checked
	}

	if _, err := e.repo.Create(ctx, in); err != nil {
		if repository.IsCode(err, repository.CodeDuplicateName) {
			return duplicate, ImportError{}
		}
		return fail(err.Error())
	}
	return imported, ImportError{}
}

// toInput keeps the creatable fields of a raw record. Identity, timestamps
// and the archived flag are dropped so that every import yields a new record.
func toInput(rec any) (model.RobotInput, string) {
	fields, _ := rec.(map[string]any)
	for _, key := range []string{"name", "label", "year", "type"} {
		if !truthy(fields[key]) {
			return model.RobotInput{}, missingFields
		}
	}

	name, _ := fields["name"].(string)
	label, ok := fields["label"].(string)
	if !ok {
		return model.RobotInput{}, "label must be a string"
	}
	kind, ok := fields["type"].(string)
	if !ok {
		return model.RobotInput{}, "type must be a string"
	}
	year, _ := fields["year"].(float64)
	if year != math.Trunc(year) || year > math.MaxInt32 || year < math.MinInt32 {
		return model.RobotInput{}, "year must be an integer"
	}

	return model.RobotInput{
		Name:  name,
		Label: label,
		Year:  int(year),
		Type:  model.RobotType(kind),
	}, ""
}
