package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"birdfeed/pkg/models"
)

const (
	MaxCaptionLen = 280
	MaxMessageLen = 2000
	MaxNameLen    = 60
	MaxBioLen     = 160
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_]{1,15}$`)

// ValidateCaption checks post/reply text.
func ValidateCaption(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("caption must not be empty")
	}
	if utf8.RuneCountInString(s) > MaxCaptionLen {
		return fmt.Errorf("caption exceeds %d characters", MaxCaptionLen)
	}
	return nil
}

// ValidateMessageText checks direct-message text.
func ValidateMessageText(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("message must not be empty")
	}
	if utf8.RuneCountInString(s) > MaxMessageLen {
		return fmt.Errorf("message exceeds %d characters", MaxMessageLen)
	}
	return nil
}

// ValidateUsername checks the secondary unique key used for lookups and
// mentions: lowercase letters, digits and underscores, at most 15 runes.
func ValidateUsername(s string) error {
	if !usernameRe.MatchString(s) {
		return fmt.Errorf("invalid username %q", s)
	}
	return nil
}

// ValidateUser checks a registration record.
func ValidateUser(u models.User) error {
	if strings.TrimSpace(u.UID) == "" {
		return fmt.Errorf("uid must not be empty")
	}
	if strings.Contains(u.UID, ":") {
		return fmt.Errorf("uid must not contain ':'")
	}
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if strings.TrimSpace(u.Fullname) == "" {
		return fmt.Errorf("fullname must not be empty")
	}
	if utf8.RuneCountInString(u.Fullname) > MaxNameLen {
		return fmt.Errorf("fullname exceeds %d characters", MaxNameLen)
	}
	if utf8.RuneCountInString(u.Bio) > MaxBioLen {
		return fmt.Errorf("bio exceeds %d characters", MaxBioLen)
	}
	return nil
}
