// Package repository owns every robot record: creation with name
// uniqueness, partial updates, archive/restore, hard deletion, filtered
// listings and aggregate statistics. It is the only component that talks to
// the record store.
//
// Name uniqueness is checked before each write and is not enforced by the
// schema. Callers are expected to issue one operation at a time; two
// concurrent creates with the same name can both pass the check.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"robot-registry/internal/model"
	"robot-registry/internal/store"
)

const selectRobot = `SELECT id, name, label, year, type, created_at, updated_at, archived FROM robots`

var sortColumns = map[model.SortField]string{
	model.SortByName:      "name",
	model.SortByYear:      "year",
	model.SortByCreatedAt: "created_at",
	model.SortByUpdatedAt: "updated_at",
}

// Repository is the gateway to the robots table.
type Repository struct {
	store store.Store
	now   func() time.Time
	newID func() string
}

// Option customizes a Repository.
type Option func(*Repository)

// WithClock replaces the wall clock used for created_at / updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator replaces the uuid generator used for new records.
func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// New creates a Repository on top of s. The caller owns s and closes it.
func New(s store.Store, opts ...Option) *Repository {
	r := &Repository{
		store: s,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) nowMillis() int64 {
	return r.now().UnixMilli()
}

// fail logs the storage failure and reclassifies it under code.
func (r *Repository) fail(code Code, op string, err error, message string) *Error {
	logrus.WithFields(logrus.Fields{"op": op, "code": code}).WithError(err).Error(message)
	return &Error{Code: code, Message: message, Err: err}
}

// Create inserts a new robot. The input is expected to be validated already.
func (r *Repository) Create(ctx context.Context, in model.RobotInput) (*model.Robot, error) {
	existing, err := r.GetByName(ctx, in.Name)
	if err != nil {
		return nil, r.fail(CodeCreate, "create", err, "failed to create robot")
	}
	if existing != nil {
		return nil, newError(CodeDuplicateName, "a robot named %q already exists", in.Name)
	}

	now := r.nowMillis()
	robot := &model.Robot{
		ID:        r.newID(),
		Name:      in.Name,
		Label:     in.Label,
		Year:      in.Year,
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
		Archived:  false,
	}

	_, err = r.store.Exec(ctx,
		`INSERT INTO robots (id, name, label, year, type, created_at, updated_at, archived) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		robot.ID, robot.Name, robot.Label, robot.Year, string(robot.Type), robot.CreatedAt, robot.UpdatedAt, robot.Archived)
	if err != nil {
		return nil, r.fail(CodeCreate, "create", err, "failed to create robot")
	}
	return robot, nil
}

// GetByID returns the robot with the given id, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id string) (*model.Robot, error) {
	return r.getOne(ctx, "get_by_id", selectRobot+` WHERE id = ?`, id)
}

// GetByName returns the robot whose name matches exactly, archived or not.
func (r *Repository) GetByName(ctx context.Context, name string) (*model.Robot, error) {
	return r.getOne(ctx, "get_by_name", selectRobot+` WHERE name = ?`, name)
}

func (r *Repository) getOne(ctx context.Context, op, query string, arg any) (*model.Robot, error) {
	var robot model.Robot
	found, err := r.store.First(ctx, &robot, query, arg)
	if err != nil {
		return nil, r.fail(CodeGet, op, err, "failed to retrieve robot")
	}
	if !found {
		return nil, nil
	}
	return &robot, nil
}

// Update applies the supplied fields of upd and refreshes updated_at.
func (r *Repository) Update(ctx context.Context, id string, upd model.RobotUpdate) (*model.Robot, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, r.fail(CodeUpdate, "update", err, "failed to update robot")
	}
	if existing == nil {
		return nil, newError(CodeNotFound, "robot %s not found", id)
	}

	if upd.Name != nil && *upd.Name != existing.Name {
		other, err := r.GetByName(ctx, *upd.Name)
		if err != nil {
			return nil, r.fail(CodeUpdate, "update", err, "failed to update robot")
		}
		if other != nil {
			return nil, newError(CodeDuplicateName, "a robot named %q already exists", *upd.Name)
		}
	}

	updated := *existing
	var (
		sets []string
		args []any
	)
	if upd.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *upd.Name)
		updated.Name = *upd.Name
	}
	if upd.Label != nil {
		sets, args = append(sets, "label = ?"), append(args, *upd.Label)
		updated.Label = *upd.Label
	}
	if upd.Year != nil {
		sets, args = append(sets, "year = ?"), append(args, *upd.Year)
		updated.Year = *upd.Year
	}
	if upd.Type != nil {
		sets, args = append(sets, "type = ?"), append(args, string(*upd.Type))
		updated.Type = *upd.Type
	}
	updated.UpdatedAt = r.touch(existing)
	sets, args = append(sets, "updated_at = ?"), append(args, updated.UpdatedAt)
	args = append(args, id)

	affected, err := r.store.Exec(ctx, `UPDATE robots SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, r.fail(CodeUpdate, "update", err, "failed to update robot")
	}
	if affected == 0 {
		return nil, newError(CodeNotFound, "robot %s not found", id)
	}
	return &updated, nil
}

// touch returns the next updated_at for robot, never earlier than created_at.
func (r *Repository) touch(robot *model.Robot) int64 {
	return max(r.nowMillis(), robot.CreatedAt)
}

// Archive soft-deletes a robot. Archiving an archived robot succeeds.
func (r *Repository) Archive(ctx context.Context, id string) error {
	return r.setArchived(ctx, id, true, CodeDelete, "archive")
}

// Restore brings an archived robot back. Restoring an active robot succeeds.
func (r *Repository) Restore(ctx context.Context, id string) error {
	return r.setArchived(ctx, id, false, CodeRestore, "restore")
}

func (r *Repository) setArchived(ctx context.Context, id string, archived bool, code Code, op string) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return r.fail(code, op, err, fmt.Sprintf("failed to %s robot", op))
	}
	if existing == nil {
		return newError(CodeNotFound, "robot %s not found", id)
	}

	affected, err := r.store.Exec(ctx,
		`UPDATE robots SET archived = ?, updated_at = ? WHERE id = ?`, archived, r.touch(existing), id)
	if err != nil {
		return r.fail(code, op, err, fmt.Sprintf("failed to %s robot", op))
	}
	if affected == 0 {
		return newError(CodeNotFound, "robot %s not found", id)
	}
	return nil
}

// HardDelete removes a robot irrevocably, freeing its name.
func (r *Repository) HardDelete(ctx context.Context, id string) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return r.fail(CodeDelete, "hard_delete", err, "failed to delete robot")
	}
	if existing == nil {
		return newError(CodeNotFound, "robot %s not found", id)
	}

	if _, err := r.store.Exec(ctx, `DELETE FROM robots WHERE id = ?`, id); err != nil {
		return r.fail(CodeDelete, "hard_delete", err, "failed to delete robot")
	}
	return nil
}

// PurgeArchived removes every archived robot and returns how many were removed.
func (r *Repository) PurgeArchived(ctx context.Context) (int64, error) {
	removed, err := r.store.Exec(ctx, `DELETE FROM robots WHERE archived = ?`, true)
	if err != nil {
		return 0, r.fail(CodePermanentDelete, "purge_archived", err, "failed to permanently delete archived robots")
	}
	logrus.WithField("removed", removed).Info("purged archived robots")
	return removed, nil
}

type countRow struct {
	Count int64
}

func normalize(opts model.ListOptions) model.ListOptions {
	if _, ok := sortColumns[opts.Sort]; !ok {
		opts.Sort = model.SortByName
	}
	if opts.Order != model.OrderDesc {
		opts.Order = model.OrderAsc
	}
	if opts.Limit <= 0 {
		opts.Limit = model.DefaultLimit
	}
	if opts.Limit > model.MaxLimit {
		opts.Limit = model.MaxLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	opts.Q = strings.TrimSpace(opts.Q)
	return opts
}

// List returns one page of robots matching opts. Total counts every match
// before pagination.
func (r *Repository) List(ctx context.Context, opts model.ListOptions) (*model.Page, error) {
	opts = normalize(opts)

	var (
		where []string
		args  []any
	)
	if opts.Q != "" {
		term := "%" + opts.Q + "%"
		where, args = append(where, "(name LIKE ? OR label LIKE ?)"), append(args, term, term)
	}
	if !opts.IncludeArchived {
		where, args = append(where, "archived = ?"), append(args, false)
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var count countRow
	if _, err := r.store.First(ctx, &count, `SELECT COUNT(*) AS count FROM robots`+whereClause, args...); err != nil {
		return nil, r.fail(CodeList, "list", err, "failed to list robots")
	}

	orderBy := fmt.Sprintf(" ORDER BY %s %s, id ASC", sortColumns[opts.Sort], strings.ToUpper(string(opts.Order)))
	robots := []model.Robot{}
	pageArgs := append(append([]any{}, args...), opts.Limit, opts.Offset)
	if err := r.store.All(ctx, &robots, selectRobot+whereClause+orderBy+` LIMIT ? OFFSET ?`, pageArgs...); err != nil {
		return nil, r.fail(CodeList, "list", err, "failed to list robots")
	}

	return &model.Page{
		Data:    robots,
		Total:   count.Count,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: int64(opts.Offset+opts.Limit) < count.Count,
	}, nil
}

// GetAll returns every robot sorted by name, optionally including archived ones.
func (r *Repository) GetAll(ctx context.Context, includeArchived bool) ([]model.Robot, error) {
	query := selectRobot
	var args []any
	if !includeArchived {
		query += ` WHERE archived = ?`
		args = append(args, false)
	}
	query += ` ORDER BY name ASC`

	robots := []model.Robot{}
	if err := r.store.All(ctx, &robots, query, args...); err != nil {
		return nil, r.fail(CodeGetAll, "get_all", err, "failed to retrieve all robots")
	}
	return robots, nil
}

type typeCount struct {
	Type  string
	Count int64
}

// GetStats counts all, active and archived robots, and active robots per type.
func (r *Repository) GetStats(ctx context.Context) (*model.Stats, error) {
	var total, active, archived countRow
	counts := []struct {
		dest  *countRow
		query string
		args  []any
	}{
		{&total, `SELECT COUNT(*) AS count FROM robots`, nil},
		{&active, `SELECT COUNT(*) AS count FROM robots WHERE archived = ?`, []any{false}},
		{&archived, `SELECT COUNT(*) AS count FROM robots WHERE archived = ?`, []any{true}},
	}
	for _, c := range counts {
		if _, err := r.store.First(ctx, c.dest, c.query, c.args...); err != nil {
			return nil, r.fail(CodeStats, "stats", err, "failed to compute robot statistics")
		}
	}

	var rows []typeCount
	if err := r.store.All(ctx, &rows,
		`SELECT type, COUNT(*) AS count FROM robots WHERE archived = ? GROUP BY type`, false); err != nil {
		return nil, r.fail(CodeStats, "stats", err, "failed to compute robot statistics")
	}

	byType := make(map[model.RobotType]int64, len(rows))
	for _, row := range rows {
		byType[model.RobotType(row.Type)] = row.Count
	}

	return &model.Stats{
		Total:    total.Count,
		Active:   active.Count,
		Archived: archived.Count,
		ByType:   byType,
	}, nil
}
