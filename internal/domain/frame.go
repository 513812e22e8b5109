package domain

import (
	"context"
	"time"
)

// Stage tells the render surface what to do with a frame.
type Stage string

const (
	// StageExit starts the exit animation of the items currently shown.
	StageExit Stage = "exit"
	// StageEnter swaps in the new page's items and starts their entrance animation.
	StageEnter Stage = "enter"
	// StageSettled marks the end of a transition.
	StageSettled Stage = "settled"
	// StageRefresh replaces the shown items without any animation.
	StageRefresh Stage = "refresh"
)

// Direction is the paging direction of a transition.
type Direction string

const (
	DirectionNone     Direction = "none"
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionJump     Direction = "jump"
)

// Trigger records what caused a frame.
type Trigger string

const (
	TriggerInitial  Trigger = "initial"
	TriggerManual   Trigger = "manual"
	TriggerAutoPlay Trigger = "autoplay"
	TriggerCatalog  Trigger = "catalog"
)

// Frame is one instruction for the render collaborator.
type Frame struct {
	ID         string        `json:"id"`
	Carousel   string        `json:"carousel"`
	Stage      Stage         `json:"stage"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Items      []Item        `json:"items"`
	Direction  Direction     `json:"direction"`
	Trigger    Trigger       `json:"trigger"`
	At         time.Duration `json:"at"` // Scheduler time at which the frame was produced
}

// ItemIDs returns the ids of the frame's items in display order.
func (f Frame) ItemIDs() []string {
	ids := make([]string, 0, len(f.Items))
	for _, it := range f.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

// Renderer is the surface that turns frames into visible elements.
type Renderer interface {
	Render(ctx context.Context, frame Frame) error
}

// FramePublisher ships frames to a remote render surface.
type FramePublisher interface {
	Publish(ctx context.Context, frame Frame) error
	Close() error
}
