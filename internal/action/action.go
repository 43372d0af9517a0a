// Package action defines what a logical input does when it is pressed or
// released, and the static tables that bind inputs to actions.
package action

import (
	"fmt"
	"strings"

	"github.com/soar/padchord/internal/keysym"
)

// Kind tags the variant held by an Action.
type Kind uint8

const (
	// KindNone does nothing.
	KindNone Kind = iota
	// KindUnicode types Text on press and ignores the release.
	KindUnicode
	// KindKey presses Key on press and releases it on release.
	KindKey
	// KindButton presses mouse Button on press and releases it on release.
	KindButton
	// KindCombo presses Keys in order on press and releases them in reverse
	// order on release.
	KindCombo
	// KindMotion moves the pointer by (DX, DY) relative to its position.
	KindMotion
)

var kindNames = [...]string{"none", "unicode", "key", "button", "combo", "motion"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Action is a tagged variant; only the fields of its Kind are meaningful.
type Action struct {
	Kind   Kind
	Text   string
	Key    keysym.Keysym
	Keys   []keysym.Keysym
	Button uint8
	DX, DY int32
}

// None is the zero Action.
var None = Action{}

func Unicode(text string) Action { return Action{Kind: KindUnicode, Text: text} }

func Key(k keysym.Keysym) Action { return Action{Kind: KindKey, Key: k} }

func Button(n uint8) Action { return Action{Kind: KindButton, Button: n} }

func Combo(keys ...keysym.Keysym) Action { return Action{Kind: KindCombo, Keys: keys} }

func Motion(dx, dy int32) Action { return Action{Kind: KindMotion, DX: dx, DY: dy} }

// IsNone reports whether a does nothing.
func (a Action) IsNone() bool {
	return a.Kind == KindNone
}

func (a Action) String() string {
	switch a.Kind {
	case KindUnicode:
		return fmt.Sprintf("unicode(%q)", a.Text)
	case KindKey:
		return fmt.Sprintf("key(%s)", a.Key)
	case KindButton:
		return fmt.Sprintf("button(%d)", a.Button)
	case KindCombo:
		names := make([]string, len(a.Keys))
		for i, k := range a.Keys {
			names[i] = k.String()
		}
		return "combo(" + strings.Join(names, "+") + ")"
	case KindMotion:
		return fmt.Sprintf("motion(%d,%d)", a.DX, a.DY)
	default:
		return "none"
	}
}
