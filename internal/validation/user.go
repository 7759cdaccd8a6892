// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// PasswordMinLen is the minimum accepted password length.
const PasswordMinLen = 8

// emailRegex accepts a basic local@domain.tld shape.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("Format d'email invalide")
	}
	if len(email) > 254 {
		return fmt.Errorf("L'email ne doit pas dépasser 254 caractères")
	}
	return nil
}

// ValidatePassword checks if a password meets the minimum requirements
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen {
		return fmt.Errorf("Le mot de passe doit contenir au moins %d caractères", PasswordMinLen)
	}
	if len(password) > 128 {
		return fmt.Errorf("Le mot de passe ne doit pas dépasser 128 caractères")
	}
	return nil
}

// ValidateAlias checks if an alias meets requirements
func ValidateAlias(alias string) error {
	if len(alias) < 3 {
		return fmt.Errorf("L'alias doit contenir au moins 3 caractères")
	}
	if len(alias) > 30 {
		return fmt.Errorf("L'alias ne doit pas dépasser 30 caractères")
	}
	return nil
}

// ValidateIdeaText checks the trimmed length bounds of idea text.
func ValidateIdeaText(text string, minLen, maxLen int) error {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minLen {
		return fmt.Errorf("Le texte doit contenir au moins %d caractères", minLen)
	}
	if len(trimmed) > maxLen {
		return fmt.Errorf("Le texte ne doit pas dépasser %d caractères", maxLen)
	}
	return nil
}
