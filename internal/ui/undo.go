package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"viajeia/internal/model"
)

type undoAction struct {
	label string
	undo  func() error
	redo  func() error
}

type undoAppliedMsg struct {
	err       error
	action    undoAction
	direction string // undo, redo
}

func (m *Model) pushUndoAction(action undoAction) {
	m.undoStack = append(m.undoStack, action)
	m.redoStack = nil
}

func (m *Model) undoCmd() tea.Cmd {
	if len(m.undoStack) == 0 {
		return nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	return func() tea.Msg {
		err := action.undo()
		return undoAppliedMsg{err: err, action: action, direction: "undo"}
	}
}

func (m *Model) redoCmd() tea.Cmd {
	if len(m.redoStack) == 0 {
		return nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	return func() tea.Msg {
		err := action.redo()
		return undoAppliedMsg{err: err, action: action, direction: "redo"}
	}
}

func (m *Model) buildFavoriteSaveAction(saved model.Favorite) undoAction {
	store := m.favorites
	return undoAction{
		label: fmt.Sprintf("favorite %s saved", saved.Destination),
		undo: func() error {
			_, err := store.Remove(saved.ID)
			return err
		},
		redo: func() error {
			return store.Insert(saved)
		},
	}
}

func (m *Model) buildFavoriteDeleteAction(deleted model.Favorite) undoAction {
	store := m.favorites
	return undoAction{
		label: fmt.Sprintf("favorite %s deleted", deleted.Destination),
		undo: func() error {
			return store.Insert(deleted)
		},
		redo: func() error {
			_, err := store.Remove(deleted.ID)
			return err
		},
	}
}

func (m *Model) applyUndoResult(msg undoAppliedMsg) tea.Cmd {
	if msg.err != nil {
		m.error = fmt.Sprintf("%s failed: %s", msg.direction, userMessage(msg.err))
		return nil
	}

	if msg.direction == "undo" {
		m.redoStack = append(m.redoStack, msg.action)
		m.info = "Undid: " + msg.action.label
	} else {
		m.undoStack = append(m.undoStack, msg.action)
		m.info = "Redid: " + msg.action.label
	}
	m.error = ""
	m.reloadFavorites()
	return nil
}
