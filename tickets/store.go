package tickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"opportunity-radar/logging"
	"opportunity-radar/metrics"
	"opportunity-radar/models"
	"opportunity-radar/random"
)

var (
	ErrInvalidStatus     = errors.New("invalid ticket status")
	ErrInvalidActionType = errors.New("invalid action type")
	ErrInvalidDueDate    = errors.New("invalid due date, expected YYYY-MM-DD")
	ErrAlreadyConverted  = errors.New("ticket already exists for this action")
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTicket holds the caller-supplied fields of a ticket. Status defaults
// to todo and an omitted action type to monitoring.
type NewTicket struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Scores are clamped to 0..100.
	models.Scores
	ActionType     models.ActionType   `json:"actionType"`
	Tags           []string            `json:"tags"`
	DueDate        *string             `json:"dueDate"`
	Status         models.TicketStatus `json:"status"`
	SourceActionID *string             `json:"sourceActionId,omitempty"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title           *string              `json:"title"`
	Description     *string              `json:"description"`
	PriorityScore   *int                 `json:"priorityScore"`
	ImpactScore     *int                 `json:"impactScore"`
	RiskScore       *int                 `json:"riskScore"`
	RelevanceScore  *int                 `json:"relevanceScore"`
	DifficultyScore *int                 `json:"difficultyScore"`
	CostScore       *int                 `json:"costScore"`
	ActionType      *models.ActionType   `json:"actionType"`
	Tags            *[]string            `json:"tags"`
	DueDate         NullableDate         `json:"dueDate"`
	Status          *models.TicketStatus `json:"status"`
}

// NullableDate distinguishes an absent dueDate from an explicit null,
// which clears the date.
type NullableDate struct {
	Set   bool
	Value *string
}

func (d *NullableDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if string(data) == "null" {
		d.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	d.Value = &s
	return nil
}

// ClearDueDate and DueDateOn build the two explicit NullableDate values.
func ClearDueDate() NullableDate { return NullableDate{Set: true} }

func DueDateOn(date string) NullableDate { return NullableDate{Set: true, Value: &date} }

type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Collector
	Rand    random.Source
	Now     func() time.Time
}

// Store owns the tickets of one process. Every operation runs in its own
// transaction; concurrent writers are serialized by the single connection.
type Store struct {
	db      *gorm.DB
	logger  logging.Logger
	metrics *metrics.Collector
	rand    random.Source
	now     func() time.Time
}

func NewStore(db *gorm.DB, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = logging.NewDiscard()
	}
	if opts.Rand == nil {
		opts.Rand = random.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		db:      db,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		rand:    opts.Rand,
		now:     opts.Now,
	}
}

func (s *Store) Create(ctx context.Context, in NewTicket) (models.Ticket, error) {
	t, err := s.build(in)
	if err != nil {
		return models.Ticket{}, err
	}
	if err := s.insert(ctx, &t, nil); err != nil {
		return models.Ticket{}, err
	}
	s.metrics.ObserveTicketOp("create")
	return t, nil
}

func (s *Store) build(in NewTicket) (models.Ticket, error) {
	status := in.Status
	if status == "" {
		status = models.StatusTodo
	}
	if _, ok := models.ParseTicketStatus(string(status)); !ok {
		return models.Ticket{}, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}
	actionType := in.ActionType
	if actionType == "" {
		actionType = models.ActionMonitoring
	}
	if _, ok := models.ParseActionType(string(actionType)); !ok {
		return models.Ticket{}, fmt.Errorf("%w: %q", ErrInvalidActionType, in.ActionType)
	}
	due, err := normalizeDueDate(in.DueDate)
	if err != nil {
		return models.Ticket{}, err
	}

	now := s.now().UTC()
	return models.Ticket{
		Title:          in.Title,
		Description:    in.Description,
		Scores:         clampScores(in.Scores),
		ActionType:     actionType,
		Tags:           nonNilTags(in.Tags),
		DueDate:        due,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
		SourceActionID: in.SourceActionID,
	}, nil
}

// insert assigns a fresh id and stores t. guard runs first in the same
// transaction and aborts the insert when it fails.
func (s *Store) insert(ctx context.Context, t *models.Ticket, guard func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}
		id, err := s.freshID(tx, t.CreatedAt)
		if err != nil {
			return err
		}
		t.ID = id
		return tx.Create(t).Error
	})
	if errors.Is(err, ErrAlreadyConverted) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	s.logger.WithFields(logging.Fields{"ticket_id": t.ID, "status": t.Status}).Debug("Ticket created")
	return nil
}

// Convert creates a todo ticket from action. Callers check HasSourceAction
// first; Convert itself does not prevent duplicates.
func (s *Store) Convert(ctx context.Context, action models.PrioritizedAction) (models.Ticket, error) {
	t, err := s.build(fromAction(action))
	if err != nil {
		return models.Ticket{}, err
	}
	if err := s.insert(ctx, &t, nil); err != nil {
		return models.Ticket{}, err
	}
	s.metrics.ObserveTicketOp("convert")
	return t, nil
}

// ConvertOnce is Convert with the duplicate check and the insert in one
// transaction. It returns ErrAlreadyConverted when a ticket for the action
// exists.
func (s *Store) ConvertOnce(ctx context.Context, action models.PrioritizedAction) (models.Ticket, error) {
	t, err := s.build(fromAction(action))
	if err != nil {
		return models.Ticket{}, err
	}
	err = s.insert(ctx, &t, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Ticket{}).Where("source_action_id = ?", action.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyConverted
		}
		return nil
	})
	if err != nil {
		return models.Ticket{}, err
	}
	s.metrics.ObserveTicketOp("convert")
	return t, nil
}

func fromAction(action models.PrioritizedAction) NewTicket {
	sourceID := action.ID
	return NewTicket{
		Title:          action.Title,
		Description:    action.Explanation,
		Scores:         action.Scores,
		ActionType:     action.ActionType,
		Tags:           []string{string(action.ActionType)},
		Status:         models.StatusTodo,
		SourceActionID: &sourceID,
	}
}

func (s *Store) HasSourceAction(ctx context.Context, actionID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("source_action_id = ?", actionID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up source action: %w", err)
	}
	return n > 0, nil
}

// Update merges patch into the ticket and refreshes updatedAt. An unknown
// id is a no-op reported through found.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (models.Ticket, bool, error) {
	if patch.Status != nil {
		if _, ok := models.ParseTicketStatus(string(*patch.Status)); !ok {
			return models.Ticket{}, false, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
		}
	}
	if patch.ActionType != nil {
		if _, ok := models.ParseActionType(string(*patch.ActionType)); !ok {
			return models.Ticket{}, false, fmt.Errorf("%w: %q", ErrInvalidActionType, *patch.ActionType)
		}
	}
	var due *string
	if patch.DueDate.Set {
		d, err := normalizeDueDate(patch.DueDate.Value)
		if err != nil {
			return models.Ticket{}, false, err
		}
		due = d
	}

	var (
		t     models.Ticket
		found bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&t, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		applyPatch(&t, patch)
		if patch.DueDate.Set {
			t.DueDate = due
		}
		t.UpdatedAt = s.touch(t.UpdatedAt)
		return tx.Save(&t).Error
	})
	if err != nil {
		return models.Ticket{}, false, fmt.Errorf("failed to update ticket %s: %w", id, err)
	}
	if !found {
		return models.Ticket{}, false, nil
	}

	s.metrics.ObserveTicketOp("update")
	return t, true, nil
}

// Move changes only the status of a ticket.
func (s *Store) Move(ctx context.Context, id string, status models.TicketStatus) (models.Ticket, bool, error) {
	t, found, err := s.Update(ctx, id, Patch{Status: &status})
	if err == nil && found {
		s.metrics.ObserveTicketOp("move")
	}
	return t, found, err
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Ticket{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete ticket %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	s.metrics.ObserveTicketOp("delete")
	s.logger.WithField("ticket_id", id).Debug("Ticket deleted")
	return true, nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Ticket, bool, error) {
	var t models.Ticket
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Ticket{}, false, nil
	}
	if err != nil {
		return models.Ticket{}, false, fmt.Errorf("failed to get ticket %s: %w", id, err)
	}
	return t, true, nil
}

// List returns every ticket in creation order.
func (s *Store) List(ctx context.Context) ([]models.Ticket, error) {
	return s.find(ctx, s.db.WithContext(ctx))
}

func (s *Store) ListByStatus(ctx context.Context, status models.TicketStatus) ([]models.Ticket, error) {
	if _, ok := models.ParseTicketStatus(string(status)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.find(ctx, s.db.WithContext(ctx).Where("status = ?", status))
}

// Board groups tickets into the three workflow columns, highest priority
// first within a column.
func (s *Store) Board(ctx context.Context) ([]models.TicketColumn, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	columns := make([]models.TicketColumn, 0, len(models.TicketStatuses()))
	for _, status := range models.TicketStatuses() {
		col := models.TicketColumn{ID: status, Title: status.Label(), Tickets: []models.Ticket{}}
		for _, t := range all {
			if t.Status == status {
				col.Tickets = append(col.Tickets, t)
			}
		}
		sort.SliceStable(col.Tickets, func(i, j int) bool {
			return col.Tickets[i].PriorityScore > col.Tickets[j].PriorityScore
		})
		columns = append(columns, col)
	}
	return columns, nil
}

// Counts returns the number of tickets per status, all statuses present.
func (s *Store) Counts(ctx context.Context) (map[models.TicketStatus]int, error) {
	var rows []struct {
		Status models.TicketStatus
		N      int
	}
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	counts := make(map[models.TicketStatus]int, len(models.TicketStatuses()))
	for _, status := range models.TicketStatuses() {
		counts[status] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}

func (s *Store) find(ctx context.Context, q *gorm.DB) ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	if err := q.Order("created_at ASC, rowid ASC").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// freshID draws ids until one is unused.
func (s *Store) freshID(tx *gorm.DB, now time.Time) (string, error) {
	for {
		var b strings.Builder
		for range 9 {
			b.WriteByte(idAlphabet[s.rand.IntN(len(idAlphabet))])
		}
		id := fmt.Sprintf("ticket-%d-%s", now.UnixMilli(), b.String())

		var n int64
		if err := tx.Model(&models.Ticket{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return id, nil
		}
	}
}

// touch returns the new updatedAt, strictly after prev even when the clock
// stalls or steps back.
func (s *Store) touch(prev time.Time) time.Time {
	now := s.now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

func applyPatch(t *models.Ticket, p Patch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	setScore(&t.PriorityScore, p.PriorityScore)
	setScore(&t.ImpactScore, p.ImpactScore)
	setScore(&t.RiskScore, p.RiskScore)
	setScore(&t.RelevanceScore, p.RelevanceScore)
	setScore(&t.DifficultyScore, p.DifficultyScore)
	setScore(&t.CostScore, p.CostScore)
	if p.ActionType != nil {
		t.ActionType = *p.ActionType
	}
	if p.Tags != nil {
		t.Tags = nonNilTags(*p.Tags)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

func setScore(dst *int, v *int) {
	if v != nil {
		*dst = clampScore(*v)
	}
}

func clampScore(v int) int {
	return min(max(v, 0), 100)
}

func clampScores(s models.Scores) models.Scores {
	return models.Scores{
		PriorityScore:   clampScore(s.PriorityScore),
		ImpactScore:     clampScore(s.ImpactScore),
		RiskScore:       clampScore(s.RiskScore),
		RelevanceScore:  clampScore(s.RelevanceScore),
		DifficultyScore: clampScore(s.DifficultyScore),
		CostScore:       clampScore(s.CostScore),
	}
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// normalizeDueDate accepts a calendar date or an RFC 3339 timestamp and
// stores the calendar date. Empty strings clear the date.
func normalizeDueDate(v *string) (*string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	raw := strings.TrimSpace(*v)
	if d, err := time.Parse(models.DueDateLayout, raw); err == nil {
		out := d.Format(models.DueDateLayout)
		return &out, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		out := ts.Format(models.DueDateLayout)
		return &out, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDueDate, raw)
}
