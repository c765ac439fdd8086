package upload

import "strings"

// Validator checks a selection before submission.
type Validator func(Selection) error

// AcceptFile requires a file whose media type starts with one of prefixes
// ("video/", "image/", ...).
func AcceptFile(prefixes ...string) Validator {
	return func(s Selection) error {
		if s.File == nil {
			return &ValidationError{Reason: NoticeMissing, Accept: prefixes}
		}
		return checkType(s.File, prefixes)
	}
}

// OptionalFile checks the media type of a file when one is present.
func OptionalFile(prefixes ...string) Validator {
	return func(s Selection) error {
		if s.File == nil {
			return nil
		}
		return checkType(s.File, prefixes)
	}
}

// RequirePrompt requires non-blank prompt text.
func RequirePrompt() Validator {
	return func(s Selection) error {
		if strings.TrimSpace(s.Prompt) == "" {
			return &ValidationError{Reason: NoticeMissing}
		}
		return nil
	}
}

// All runs validators in order and returns the first failure.
func All(validators ...Validator) Validator {
	return func(s Selection) error {
		if s.Empty() {
			return &ValidationError{Reason: NoticeMissing}
		}
		for _, v := range validators {
			if err := v(s); err != nil {
				return err
			}
		}
		return nil
	}
}

func checkType(f *File, prefixes []string) error {
	mt := mediaType(f.ContentType)
	for _, p := range prefixes {
		if strings.HasPrefix(mt, p) {
			return nil
		}
	}
	return &ValidationError{
		Reason:      NoticeUnsupported,
		ContentType: f.ContentType,
		Accept:      prefixes,
	}
}
