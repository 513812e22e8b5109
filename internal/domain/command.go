package domain

import "context"

// CommandOp names a control operation received from the command topic.
type CommandOp string

const (
	OpNext     CommandOp = "next"
	OpPrevious CommandOp = "previous"
	OpGoto     CommandOp = "goto"
	OpAutoPlay CommandOp = "autoplay"
	OpHover    CommandOp = "hover"
	OpVisible  CommandOp = "visible"
	OpAdd      CommandOp = "add"
	OpRemove   CommandOp = "remove"
)

// Command is a remote control request for the carousel.
type Command struct {
	ID      string    `json:"id,omitempty"`
	Op      CommandOp `json:"op"`
	Page    int       `json:"page,omitempty"`
	Enabled *bool     `json:"enabled,omitempty"` // autoplay, hover, visible
	Item    *Item     `json:"item,omitempty"`
	ItemID  string    `json:"item_id,omitempty"`
}

// CommandPublisher publishes commands, e.g. to a dead letter queue.
type CommandPublisher interface {
	PublishCommand(ctx context.Context, cmd *Command) error
	Close() error
}
