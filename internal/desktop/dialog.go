package desktop

import (
	"errors"

	"github.com/ncruces/zenity"
)

// AskName shows a text entry dialog. ok is false when the user cancels.
func AskName(title, prompt, initial string) (name string, ok bool, err error) {
	name, err = zenity.Entry(prompt,
		zenity.Title(title),
		zenity.EntryText(initial),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

// SaveLocation asks where to write a PNG, suggesting filename.
func SaveLocation(title, filename string) (path string, ok bool, err error) {
	path, err = zenity.SelectFileSave(
		zenity.Title(title),
		zenity.Filename(filename),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "PNG image",
			Patterns: []string{"*.png"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", false, nil
		}
		return "", false, err
	}
	return path, true, nil
}

// Dialogs exposes the native dialogs as methods.
type Dialogs struct{}

func (Dialogs) AskName(title, prompt, initial string) (string, bool, error) {
	return AskName(title, prompt, initial)
}

func (Dialogs) SaveLocation(title, filename string) (string, bool, error) {
	return SaveLocation(title, filename)
}
