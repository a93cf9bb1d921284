package gridtui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/tOgg1/taskdeck/internal/grid"
	"github.com/tOgg1/taskdeck/internal/logging"
	"github.com/tOgg1/taskdeck/internal/models"
)

type mutationOp int

const (
	opUpdate mutationOp = iota
	opCopy
	opDelete
)

func (o mutationOp) String() string {
	switch o {
	case opCopy:
		return "copy"
	case opDelete:
		return "delete"
	default:
		return "update"
	}
}

type mutationRequest struct {
	opID     string
	op       mutationOp
	kind     models.Kind
	table    string
	keyField string
	keyValue string
	column   string
	value    string
}

type mutationResultMsg struct {
	req     mutationRequest
	changed bool
	err     error
}

type fetchResultMsg struct {
	kind        models.Kind
	filter      string
	rows        []models.Record
	fetchedAt   time.Time
	selectFirst bool
	err         error
}

// commit runs the validation and commit pipeline for the open session.
// A rejected value keeps the session open; anything else closes it and
// dispatches the remote call.
func (m *Model) commit() tea.Cmd {
	s := m.session
	if s == nil {
		return nil
	}

	if s.target == targetSearch {
		filter := s.editor.Value()
		m.cache.SetFilter(filter)
		m.closeSession()
		m.focus = focusGrid
		return m.fetchCmd(m.active, filter, true)
	}

	rule, err := models.SchemaFor(s.kind).Rule(s.column)
	if err != nil {
		m.logger.Error().Err(err).Str("column", s.column).Msg("edit on unknown column")
		m.closeSession()
		m.setStatus(statusError, err.Error())
		return nil
	}

	req := mutationRequest{
		opID:     uuid.NewString(),
		kind:     s.kind,
		table:    s.table,
		keyField: s.keyField,
		keyValue: s.keyValue,
		column:   s.column,
	}

	switch rule {
	case models.RuleImmutable:
		m.closeSession()
		return nil
	case models.RuleActionCopy:
		req.op = opCopy
	case models.RuleActionDelete:
		req.op = opDelete
	default:
		value := rule.Normalize(s.editor.Value())
		if err := rule.Check(s.column, value); err != nil {
			// the session stays open with the buffer untouched
			m.setStatus(statusError, err.Error())
			return nil
		}
		req.op = opUpdate
		req.value = value
	}

	m.closeSession()
	m.inflight++
	return m.mutationCmd(req)
}

func (m *Model) mutationCmd(req mutationRequest) tea.Cmd {
	store := m.store
	ctx := m.ctx
	return func() tea.Msg {
		var (
			changed bool
			err     error
		)
		switch req.op {
		case opCopy:
			changed, err = store.CopyRow(ctx, req.keyValue)
		case opDelete:
			changed, err = store.DeleteRow(ctx, req.keyValue)
		default:
			changed, err = store.UpdateField(ctx, req.table, req.keyField, req.keyValue, req.column, req.value)
		}
		return mutationResultMsg{req: req, changed: changed, err: err}
	}
}

func (m *Model) fetchCmd(kind models.Kind, filter string, selectFirst bool) tea.Cmd {
	store := m.store
	ctx := m.ctx
	now := m.now
	return func() tea.Msg {
		rows, err := store.Fetch(ctx, kind, filter)
		return fetchResultMsg{
			kind:        kind,
			filter:      filter,
			rows:        rows,
			fetchedAt:   now(),
			selectFirst: selectFirst,
			err:         err,
		}
	}
}

// applyMutation reports the outcome and reloads the mutated dataset.
// The reload happens after failures too, so the grid shows the store's real state.
func (m *Model) applyMutation(msg mutationResultMsg) tea.Cmd {
	if m.inflight > 0 {
		m.inflight--
	}
	req := msg.req
	logger := logging.WithOp(m.logger, req.opID)

	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			logger.Error().
				Err(msg.err).
				Str("op", req.op.String()).
				Str("table", req.table).
				Str("column", req.column).
				Str("key", req.keyValue).
				Msg("mutation failed")
		}
		m.setStatus(statusError, fmt.Sprintf("%s failed: %v", req.op, msg.err))
	} else {
		logger.Info().
			Str("op", req.op.String()).
			Str("table", req.table).
			Str("column", req.column).
			Str("key", req.keyValue).
			Bool("changed", msg.changed).
			Msg("mutation applied")
		m.setStatus(statusOK, mutationSummary(req, msg.changed))
	}

	return m.fetchCmd(req.kind, m.cache.Filter(), false)
}

func mutationSummary(req mutationRequest, changed bool) string {
	if !changed {
		return fmt.Sprintf("%s: no row with %s %s", req.op, req.keyField, req.keyValue)
	}
	switch req.op {
	case opCopy:
		return fmt.Sprintf("copied row %s", req.keyValue)
	case opDelete:
		return fmt.Sprintf("deleted row %s", req.keyValue)
	default:
		return fmt.Sprintf("saved %s of row %s", req.column, req.keyValue)
	}
}

// applyFetch replaces a dataset with a foreground fetch result. Results for a
// filter that is no longer current are dropped.
func (m *Model) applyFetch(msg fetchResultMsg) {
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			m.logger.Error().Err(msg.err).Str("kind", msg.kind.String()).Str("filter", msg.filter).Msg("fetch failed")
		}
		m.setStatus(statusError, fmt.Sprintf("refresh %s failed: %v", msg.kind, msg.err))
		return
	}
	if msg.filter != m.cache.Filter() {
		return
	}

	snap := m.cache.Publish(grid.Snapshot{
		Kind:      msg.kind,
		Filter:    msg.filter,
		Rows:      msg.rows,
		FetchedAt: msg.fetchedAt,
	})
	m.replace(snap)
	if msg.selectFirst && msg.kind == m.active && snap.Len() > 0 {
		m.cursor.Row = 0
		m.ensureVisible()
	}
}
