package core

import (
	"database/sql"
	"fmt"
	"strings"

	"pickle/database"
	"pickle/logger"
	"pickle/models"

	"github.com/go-playground/validator/v10"
)

// NoteService is the persistence gateway between UI/orchestrator code and
// the note store. Every record leaving it has been validated against the
// expected note shape; callers never see an unvalidated row.
type NoteService struct {
	validate *validator.Validate
	assets   *AssetStore
}

func NewNoteService(assets *AssetStore) *NoteService {
	return &NoteService{
		validate: validator.New(),
		assets:   assets,
	}
}

func (s *NoteService) validateRecord(note models.Note) error {
	if err := s.validate.Struct(note); err != nil {
		logger.Error("NoteService: record %s failed validation: %v", note.ID, err)
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// resolveWorkspace enforces the create-side authorization contract: an
// authenticated user with a resolvable workspace membership.
func (s *NoteService) resolveWorkspace(userID string) (models.Workspace, error) {
	if strings.TrimSpace(userID) == "" {
		return models.Workspace{}, ErrUnauthorized
	}
	workspace, err := database.GetWorkspaceForUser(userID)
	if err != nil {
		return models.Workspace{}, fmt.Errorf("%w: %v", ErrNoWorkspace, err)
	}
	return workspace, nil
}

// Create persists a new note for the user's workspace and returns the
// validated stored record.
func (s *NoteService) Create(userID string, input models.NoteInput) (models.Note, error) {
	workspace, err := s.resolveWorkspace(userID)
	if err != nil {
		return models.Note{}, err
	}
	if !models.IsValidMode(input.Mode) {
		return models.Note{}, fmt.Errorf("invalid capture mode '%s'", input.Mode)
	}

	note := models.Note{
		WorkspaceID: workspace.ID,
		Title:       input.Title,
		Content:     input.Content,
		URL:         input.URL,
		Mode:        input.Mode,
		PageMeta:    input.PageMeta,
	}
	if input.FolderID != "" {
		note.FolderID = sql.NullString{String: input.FolderID, Valid: true}
	}
	if input.AssetID != "" {
		note.AssetID = sql.NullString{String: input.AssetID, Valid: true}
	}

	created, err := database.CreateNote(note)
	if err != nil {
		return models.Note{}, fmt.Errorf("creating note: %w", err)
	}
	if err := s.validateRecord(created); err != nil {
		return models.Note{}, err
	}
	created.Tags = []models.Tag{}
	logger.Info("NoteService: created note %s in workspace %s (mode: %s)", created.ID, workspace.ID, created.Mode)
	return created, nil
}

// Get returns a single note with its tags flattened into an ordered list,
// validated before return.
func (s *NoteService) Get(noteID string) (models.Note, error) {
	note, err := database.GetNoteWithRelations(noteID)
	if err != nil {
		return models.Note{}, err
	}
	if err := s.validateRecord(note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// Update applies the input's fields to an existing note and returns the
// validated stored record.
func (s *NoteService) Update(noteID string, input models.NoteInput) (models.Note, error) {
	note, err := database.GetNoteByID(noteID)
	if err != nil {
		return models.Note{}, err
	}

	note.Title = input.Title
	note.Content = input.Content
	if input.URL != "" {
		note.URL = input.URL
	}
	if input.PageMeta != nil {
		note.PageMeta = input.PageMeta
	}
	note.FolderID = sql.NullString{String: input.FolderID, Valid: input.FolderID != ""}
	if input.AssetID != "" {
		note.AssetID = sql.NullString{String: input.AssetID, Valid: true}
	}

	updated, err := database.UpdateNote(note)
	if err != nil {
		return models.Note{}, fmt.Errorf("updating note %s: %w", noteID, err)
	}
	if err := s.validateRecord(updated); err != nil {
		return models.Note{}, err
	}
	return updated, nil
}

// List returns the active notes of the user's workspace, with tags
// attached in bulk.
func (s *NoteService) List(userID string, folderID string) ([]models.Note, error) {
	workspace, err := s.resolveWorkspace(userID)
	if err != nil {
		return nil, err
	}
	notes, err := database.ListNotesByWorkspace(workspace.ID, folderID)
	if err != nil {
		return nil, err
	}
	return s.attachTags(notes)
}

// ListTrash returns the soft-deleted notes of the user's workspace.
func (s *NoteService) ListTrash(userID string) ([]models.Note, error) {
	workspace, err := s.resolveWorkspace(userID)
	if err != nil {
		return nil, err
	}
	notes, err := database.ListTrashedNotes(workspace.ID)
	if err != nil {
		return nil, err
	}
	return s.attachTags(notes)
}

func (s *NoteService) attachTags(notes []models.Note) ([]models.Note, error) {
	if len(notes) == 0 {
		return []models.Note{}, nil
	}
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	tagsByNote, err := database.GetTagsForMultipleNotes(ids)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		tags := tagsByNote[notes[i].ID]
		if tags == nil {
			tags = []models.Tag{}
		}
		notes[i].Tags = tags
	}
	return notes, nil
}

// Trash soft-deletes a note.
func (s *NoteService) Trash(noteID string) error {
	return database.TrashNote(noteID)
}

// Restore clears a note's soft-delete marker. Restoring an already-active
// note is a no-op success.
func (s *NoteService) Restore(noteID string) error {
	return database.RestoreNote(noteID)
}

// DeletePermanently removes a note for good. The associated stored asset
// is removed first, best-effort: a storage failure is logged but never
// aborts the row delete. Row deletion failure is fatal to the operation.
func (s *NoteService) DeletePermanently(noteID string) error {
	note, err := database.GetNoteByID(noteID)
	if err != nil {
		return err
	}

	if note.AssetID.Valid {
		if err := s.removeAsset(note.AssetID.String); err != nil {
			logger.Warn("NoteService: failed to remove asset %s for note %s, continuing with row delete: %v", note.AssetID.String, noteID, err)
		}
	}

	if err := database.DeleteNoteRow(noteID); err != nil {
		return fmt.Errorf("permanently deleting note %s: %w", noteID, err)
	}
	logger.Info("NoteService: permanently deleted note %s", noteID)
	return nil
}

func (s *NoteService) removeAsset(assetID string) error {
	asset, err := database.GetAssetByID(assetID)
	if err != nil {
		return err
	}
	if s.assets != nil {
		if err := s.assets.Remove(asset); err != nil {
			return err
		}
	}
	return database.DeleteAssetRow(assetID)
}
