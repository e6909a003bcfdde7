// Package command decodes the compact action strings carried by chat
// keyboard callbacks ("order:cancel:42:17") into a typed command once, at
// the boundary. Everything past the gateway handler works with the typed
// form; ids are never re-parsed from free-form strings further in.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action identifies what a callback asks for.
type Action string

const (
	ActionCancelOrder     Action = "cancel"
	ActionDeleteArchived  Action = "delpast"
	ActionIncreaseCount   Action = "inc"
	ActionDecreaseCount   Action = "dec"
	ActionMarkDone        Action = "done"
	ActionMarkProductDone Action = "doneproduct"
	ActionNewCollection   Action = "new"
	ActionOpenCollection  Action = "open"
	ActionCloseCollection Action = "close"
)

const (
	prefixOrder      = "order"
	prefixCollection = "collection"
)

// Command is the decoded form of one callback payload. UserID and ProductID
// are zero when the action does not carry them.
type Command struct {
	Action    Action
	UserID    int64
	ProductID int64
}

// ErrMalformed reports an unrecognized or badly formed callback payload.
var ErrMalformed = errors.New("malformed callback data")

var orderActions = map[Action]bool{
	ActionCancelOrder:     true,
	ActionDeleteArchived:  true,
	ActionIncreaseCount:   true,
	ActionDecreaseCount:   true,
	ActionMarkDone:        true,
	ActionMarkProductDone: true,
}

var collectionActions = map[Action]bool{
	ActionNewCollection:   true,
	ActionOpenCollection:  true,
	ActionCloseCollection: true,
}

// Parse decodes a callback payload.
//
// Order actions:      order:<action>:<user_id>:<product_id>
//	                   (user_id is 0 for product-wide actions)
// Collection actions: collection:<action>
func Parse(data string) (Command, error) {
	parts := strings.Split(data, ":")
	switch parts[0] {
	case prefixOrder:
		if len(parts) != 4 {
			return Command{}, fmt.Errorf("%w: %q", ErrMalformed, data)
		}
		action := Action(parts[1])
		if !orderActions[action] {
			return Command{}, fmt.Errorf("%w: unknown order action %q", ErrMalformed, parts[1])
		}
		userID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Command{}, fmt.Errorf("%w: bad user id %q", ErrMalformed, parts[2])
		}
		productID, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil || productID == 0 {
			return Command{}, fmt.Errorf("%w: bad product id %q", ErrMalformed, parts[3])
		}
		return Command{Action: action, UserID: userID, ProductID: productID}, nil
	case prefixCollection:
		if len(parts) != 2 {
			return Command{}, fmt.Errorf("%w: %q", ErrMalformed, data)
		}
		action := Action(parts[1])
		if !collectionActions[action] {
			return Command{}, fmt.Errorf("%w: unknown collection action %q", ErrMalformed, parts[1])
		}
		return Command{Action: action}, nil
	default:
		return Command{}, fmt.Errorf("%w: unknown prefix %q", ErrMalformed, parts[0])
	}
}

// String encodes the command back into its callback form, the inverse of
// Parse.
func (c Command) String() string {
	if collectionActions[c.Action] {
		return prefixCollection + ":" + string(c.Action)
	}
	return fmt.Sprintf("%s:%s:%d:%d", prefixOrder, c.Action, c.UserID, c.ProductID)
}
