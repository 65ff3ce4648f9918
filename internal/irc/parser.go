// Package irc turns raw protocol lines into events.
package irc

import (
	"IRCHooks/internal/core/domain"
	"errors"
	"strings"
)

// ErrEmptyLine is returned by ParseLine for blank input.
var ErrEmptyLine = errors.New("irc: empty line")

// Line is one parsed protocol message. The trailing parameter, if any, is
// the last entry of Params.
type Line struct {
	Raw     string
	Prefix  string
	Command string
	Params  []string
}

// ParseLine parses "[@tags] [:prefix] COMMAND [params] [:trailing]".
// Message tags are skipped.
func ParseLine(raw string) (Line, error) {
	raw = strings.TrimRight(raw, "\r\n")
	line := Line{Raw: raw}
	rest := strings.TrimLeft(raw, " ")

	if strings.HasPrefix(rest, "@") {
		_, after, _ := strings.Cut(rest, " ")
		rest = strings.TrimLeft(after, " ")
	}
	if strings.HasPrefix(rest, ":") {
		prefix, after, _ := strings.Cut(rest[1:], " ")
		line.Prefix = prefix
		rest = strings.TrimLeft(after, " ")
	}
	if rest == "" {
		return Line{}, ErrEmptyLine
	}

	cmd, rest, _ := strings.Cut(rest, " ")
	line.Command = strings.ToUpper(cmd)

	for rest != "" {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			break
		}
		if rest[0] == ':' {
			line.Params = append(line.Params, rest[1:])
			break
		}
		var p string
		p, rest, _ = strings.Cut(rest, " ")
		line.Params = append(line.Params, p)
	}
	return line, nil
}

// Param returns the i-th parameter or "".
func (l Line) Param(i int) string {
	if i < 0 || i >= len(l.Params) {
		return ""
	}
	return l.Params[i]
}

// Source is the prefix parsed as a hostmask.
func (l Line) Source() domain.Hostmask {
	return domain.ParseHostmask(l.Prefix)
}

// IsChannel reports whether name is a channel rather than a nick.
func IsChannel(name string) bool {
	return name != "" && strings.ContainsRune("#&+!", rune(name[0]))
}

// ctcpAction extracts the text of a CTCP ACTION.
func ctcpAction(text string) (string, bool) {
	const open = "\x01ACTION"
	if !strings.HasPrefix(text, open) {
		return "", false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(text, open), "\x01")
	return strings.TrimPrefix(body, " "), true
}

// parseNames reads the member list of a 353 reply.
func parseNames(list string) []domain.Member {
	var members []domain.Member
	for _, entry := range strings.Fields(list) {
		level, rest := splitModePrefix(entry)
		// userhost-in-names sends nick!login@host
		nick := domain.ParseHostmask(rest).Nick
		if nick != "" {
			members = append(members, domain.Member{Nick: nick, Level: level})
		}
	}
	return members
}

func splitModePrefix(entry string) (domain.Level, string) {
	level := domain.LevelNone
	for entry != "" {
		switch entry[0] {
		case '~', '&', '@':
			level = max(level, domain.LevelOp)
		case '%', '+':
			level = max(level, domain.LevelVoice)
		default:
			return level, entry
		}
		entry = entry[1:]
	}
	return level, entry
}
