package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}

// Listed reports whether the command belongs in the public command menu.
func (c Command) Listed() bool {
	return !c.Hidden && !c.AdminOnly
}

// Matches reports whether name equals one of the aliases, with or without the leading slash.
func (c Command) Matches(name string) bool {
	for _, alias := range c.Aliases {
		if alias == name || "/"+alias == name {
			return true
		}
	}
	return false
}
