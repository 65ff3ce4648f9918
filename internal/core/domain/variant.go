package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// Variant tags the concrete kind of an Event. Categories are Variants too,
// so a single filter list can mix exact kinds and broad groups.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantConnect
	VariantDisconnect
	VariantMessage
	VariantPrivateMessage
	VariantAction
	VariantNotice
	VariantJoin
	VariantPart
	VariantQuit
	VariantKick
	VariantNickChange
	VariantTopic
	VariantServerPing

	// Categories. An event never carries one of these as its own variant.
	CategoryAny
	CategoryGenericMessage
	CategoryGenericUser
	CategoryGenericChannel
	CategoryGenericChannelUser
)

// categoryMembers is the static membership table used for filtering.
var categoryMembers = map[Variant][]Variant{
	CategoryGenericMessage: {
		VariantMessage, VariantPrivateMessage, VariantAction, VariantNotice,
	},
	CategoryGenericUser: {
		VariantMessage, VariantPrivateMessage, VariantAction, VariantNotice,
		VariantJoin, VariantPart, VariantQuit, VariantKick, VariantNickChange, VariantTopic,
	},
	CategoryGenericChannel: {
		VariantMessage, VariantAction, VariantJoin, VariantPart, VariantKick, VariantTopic,
	},
	CategoryGenericChannelUser: {
		VariantMessage, VariantAction, VariantJoin, VariantPart, VariantKick,
	},
}

// String returns the lower-case name of the variant.
func (v Variant) String() string {
	switch v {
	case VariantUnknown:
		return "unknown"
	case VariantConnect:
		return "connect"
	case VariantDisconnect:
		return "disconnect"
	case VariantMessage:
		return "message"
	case VariantPrivateMessage:
		return "private_message"
	case VariantAction:
		return "action"
	case VariantNotice:
		return "notice"
	case VariantJoin:
		return "join"
	case VariantPart:
		return "part"
	case VariantQuit:
		return "quit"
	case VariantKick:
		return "kick"
	case VariantNickChange:
		return "nick_change"
	case VariantTopic:
		return "topic"
	case VariantServerPing:
		return "server_ping"
	case CategoryAny:
		return "any"
	case CategoryGenericMessage:
		return "generic_message"
	case CategoryGenericUser:
		return "generic_user"
	case CategoryGenericChannel:
		return "generic_channel"
	case CategoryGenericChannelUser:
		return "generic_channel_user"
	default:
		return fmt.Sprintf("variant_%d", int(v))
	}
}

// IsCategory reports whether v names a group rather than a concrete kind.
func (v Variant) IsCategory() bool {
	return v >= CategoryAny
}

// Is reports whether an event of variant v belongs to filter, either
// because they are equal or because filter is a category containing v.
func (v Variant) Is(filter Variant) bool {
	if v == filter {
		return true
	}
	if filter == CategoryAny {
		return !v.IsCategory()
	}
	return lo.Contains(categoryMembers[filter], v)
}

// VariantSet is a filter list. An empty set matches nothing.
type VariantSet []Variant

// Variants builds a VariantSet.
func Variants(vs ...Variant) VariantSet {
	return VariantSet(vs)
}

// Matches reports whether v belongs to any entry of the set.
func (s VariantSet) Matches(v Variant) bool {
	return lo.ContainsBy(s, func(filter Variant) bool {
		return v.Is(filter)
	})
}

// String joins the variant names for logging.
func (s VariantSet) String() string {
	return fmt.Sprint(lo.Map(s, func(v Variant, _ int) string { return v.String() }))
}
