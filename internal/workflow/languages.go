package workflow

import (
	"context"

	"vo-directory/internal/domain/languages"
	"vo-directory/pkg/sanitize"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func languageName(raw string) (string, error) {
	name := languages.NormalizeName(sanitize.Text(raw))
	err := validation.Validate(name, validation.Required, validation.RuneLength(1, 64))
	if err != nil {
		return "", &ValidationError{Message: "invalid language name", Fields: map[string]string{"name": err.Error()}}
	}
	return name, nil
}

// CreateLanguage fails with languages.ErrDuplicate when the name exists in
// any casing.
func (w *Workflow) CreateLanguage(ctx context.Context, raw string, createdBy *uint) (languages.Language, error) {
	name, err := languageName(raw)
	if err != nil {
		return languages.Language{}, err
	}
	l := languages.Language{Name: name, CreatedBy: createdBy}
	if err := w.languages.Create(ctx, &l); err != nil {
		return languages.Language{}, err
	}
	w.cache.InvalidateLanguages(ctx)
	return l, nil
}

// RenameLanguage changes the registry entry only. Artists tagged with the
// old name keep it.
func (w *Workflow) RenameLanguage(ctx context.Context, id uint, raw string) (languages.Language, error) {
	name, err := languageName(raw)
	if err != nil {
		return languages.Language{}, err
	}
	l, err := w.languages.Rename(ctx, id, name)
	if err != nil {
		return languages.Language{}, err
	}
	w.cache.InvalidateLanguages(ctx)
	return l, nil
}

func (w *Workflow) DeleteLanguage(ctx context.Context, id uint) error {
	if err := w.languages.Delete(ctx, id); err != nil {
		return err
	}
	w.cache.InvalidateLanguages(ctx)
	return nil
}
